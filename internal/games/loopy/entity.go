package loopy

import "github.com/vovakirdan/loopy/internal/core"

// Kind tags an entity record with its variant. Behavior is looked up by
// kind, never by Go type.
type Kind uint8

const (
	KindNone Kind = iota
	KindFood
	KindPickup
	KindFountain
	KindHazard
	KindPredator
	KindSkimmer
	KindTotem
	KindSerpent
	KindWormhole
	KindOceanWormhole
	KindBoss
	KindProjectile
	KindShot
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindFood:
		return "food"
	case KindPickup:
		return "pickup"
	case KindFountain:
		return "fountain"
	case KindHazard:
		return "hazard"
	case KindPredator:
		return "predator"
	case KindSkimmer:
		return "skimmer"
	case KindTotem:
		return "totem"
	case KindSerpent:
		return "serpent"
	case KindWormhole:
		return "wormhole"
	case KindOceanWormhole:
		return "ocean_wormhole"
	case KindBoss:
		return "boss"
	case KindProjectile:
		return "projectile"
	case KindShot:
		return "shot"
	default:
		return "none"
	}
}

// IsEnemy reports whether the kind belongs to the predator group.
func (k Kind) IsEnemy() bool {
	return k == KindPredator || k == KindSkimmer || k == KindTotem || k == KindSerpent
}

// IsWormhole reports whether the kind is a gravity well.
func (k Kind) IsWormhole() bool {
	return k == KindWormhole || k == KindOceanWormhole
}

// DamageSource identifies what dealt damage to an enemy.
type DamageSource uint8

const (
	SourceGeneric DamageSource = iota
	SourceShot                 // Player shot (tap, hold or arc)
	SourceReflect              // Reflected enemy projectile
	SourceBomb
	SourceShield
	SourceBloom
	SourceSelf // Serpent tail bite
)

// Capability is a bit set of behavioral flags on an entity.
type Capability uint8

const (
	// CapShotOnly marks entities that ignore every damage source except
	// player shots.
	CapShotOnly Capability = 1 << iota
)

// Accepts reports whether damage from src applies to an entity with caps.
func (c Capability) Accepts(src DamageSource) bool {
	if c&CapShotOnly != 0 {
		return src == SourceShot || src == SourceSelf
	}
	return true
}

// Health is the optional hit-point pool of an entity.
type Health struct {
	HP  float64
	Max float64
}

// Apply subtracts amount, floored at zero, and reports whether the pool is
// now empty.
func (h *Health) Apply(amount float64) bool {
	h.HP = max(0, h.HP-amount)
	return h.HP <= 0
}

// Ratio returns HP/Max clamped to [0, 1].
func (h Health) Ratio() float64 {
	if h.Max <= 0 {
		return 0
	}
	return core.ClampF(h.HP/h.Max, 0, 1)
}

// Entity is the plain data record every world object is stored as.
// Exactly one of the variant payloads is set, matching Kind.
type Entity struct {
	Kind   Kind
	Pos    core.Vec2
	Vel    core.Vec2
	Radius float64
	Active bool
	Health *Health // nil for environmental entities
	Caps   Capability
	Flash  bool // hit flash, cleared by a deferred callback

	Enemy    *EnemyState
	Serpent  *SerpentState
	Hole     *HoleState
	Boss     *BossState
	Proj     *ProjState
	Food     *FoodState
	Pickup   *PickupState
	Hazard   *HazardState
	Fountain *FountainState
}

// Circle returns the bounding circle.
func (e *Entity) Circle() core.Circle {
	return core.Circle{Pos: e.Pos, Radius: e.Radius}
}

// Overlaps tests bounding circles.
func (e *Entity) Overlaps(c core.Circle) bool {
	return e.Circle().Overlaps(c)
}

// Owner says which side a projectile currently belongs to.
type Owner uint8

const (
	OwnerEnemy Owner = iota
	OwnerPlayer
)

// ProjSource is the attacker family that fired a projectile.
type ProjSource uint8

const (
	FromPredator ProjSource = iota
	FromWormhole
	FromPlayer
)

// ProjState is the payload of projectiles and player shots.
type ProjState struct {
	Source            ProjSource
	Owner             Owner
	Damage            float64
	ShieldIgnoreUntil float64
}

// Reflect turns an enemy projectile around, away from point, and hands it
// to the player. Ownership never flips back.
func (e *Entity) Reflect(point core.Vec2, speedMult, damageFloor float64) {
	d := e.Pos.Sub(point)
	dist := max(1, d.Len())
	speed := max(220, e.Vel.Len()*speedMult)
	e.Vel = d.Scale(speed / dist)
	e.Proj.Owner = OwnerPlayer
	e.Proj.Damage = max(e.Proj.Damage, damageFloor)
}

// OutOfBounds reports whether the entity left the level by more than margin.
func (e *Entity) OutOfBounds(width, margin float64) bool {
	return e.Pos.X < -margin || e.Pos.X > width+margin || e.Pos.Y < -margin || e.Pos.Y > worldBottom+margin
}

// PickupType is the reward carried by a pickup.
type PickupType uint8

const (
	PickupSeed PickupType = iota
	PickupUniverseSeed
	PickupLife
)

// String returns the pickup name.
func (p PickupType) String() string {
	switch p {
	case PickupSeed:
		return "seed"
	case PickupUniverseSeed:
		return "universe_seed"
	case PickupLife:
		return "life"
	default:
		return "?"
	}
}

// PickupState is the payload of a dropped pickup.
type PickupState struct {
	Type      PickupType
	BaseY     float64
	ExpiresAt float64
}

// HazardState describes a static strip. The strip is approximated by a row
// of circles so overlap stays circle-circle.
type HazardState struct {
	Type     string
	Width    float64
	Height   float64
	Damage   float64
	Segments []core.Vec2
}

// FountainState is the payload of a seed fountain ghost.
type FountainState struct {
	Reward    int
	BaseY     float64
	ExpiresAt float64
}
