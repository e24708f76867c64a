package loopy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// Motion is how a food item moves around its base point.
type Motion uint8

const (
	MotionStatic Motion = iota
	MotionDrift
	MotionHopper
	MotionSwarm
	MotionOrbit
)

// ParseMotion maps a level-file name to a motion. Unknown names are static.
func ParseMotion(s string) Motion {
	switch s {
	case "drift":
		return MotionDrift
	case "hopper":
		return MotionHopper
	case "swarm":
		return MotionSwarm
	case "orbit":
		return MotionOrbit
	default:
		return MotionStatic
	}
}

// FoodState is the payload of a food item.
type FoodState struct {
	Type   string
	Motion Motion
	Base   core.Vec2
	Seed   float64

	OrbitRadius    float64
	OrbitSpeed     float64
	OrbitPhase     float64
	CarrierRadius  float64
	CarrierSpeed   float64
	CarrierPhase   float64
	CarrierAspectY float64
}

const (
	foodRadius     = 10
	pickupRadius   = 8
	fountainRadius = 15

	fountainDefaultMs = 6000
)

func newFood(pos core.Vec2, typ string, motion Motion, r *rand.Rand) Entity {
	seed := r.Float64() * 2 * math.Pi
	return Entity{
		Kind:   KindFood,
		Pos:    pos,
		Radius: foodRadius,
		Food: &FoodState{
			Type:           typ,
			Motion:         motion,
			Base:           pos,
			Seed:           seed,
			OrbitRadius:    between(r, 24, 56),
			OrbitSpeed:     floatBetween(r, 1.1, 2),
			OrbitPhase:     seed,
			CarrierRadius:  between(r, 22, 70),
			CarrierSpeed:   floatBetween(r, 0.35, 0.8),
			CarrierPhase:   seed * 0.7,
			CarrierAspectY: 0.74,
		},
	}
}

// orbitFormation spawns a ring of food sharing one carrier path.
func orbitFormation(rule config.FoodRule, r *rand.Rand) []Entity {
	count := max(3, rule.Count)
	baseRadius := core.ClampF(max(28, min(rule.SpreadX, rule.SpreadY)*0.55), 28, 96)
	carrierRadius := core.ClampF(max(30, max(rule.SpreadX, rule.SpreadY)*0.42), 30, 120)
	carrierSpeed := floatBetween(r, 0.42, 0.86)
	carrierPhase := floatBetween(r, 0, 2*math.Pi)

	out := make([]Entity, 0, count)
	for i := range count {
		phase := float64(i)/float64(count)*2*math.Pi + floatBetween(r, -0.16, 0.16)
		radius := core.ClampF(baseRadius+between(r, -9, 9), 24, 104)
		pos := core.Vec2{
			X: rule.X + math.Cos(phase)*radius,
			Y: rule.Y + math.Sin(phase)*radius*0.82,
		}
		e := newFood(pos, rule.Type, MotionOrbit, r)
		e.Food.OrbitRadius = radius
		e.Food.OrbitSpeed = floatBetween(r, 1.35, 2.25)
		e.Food.OrbitPhase = phase
		e.Food.CarrierRadius = carrierRadius
		e.Food.CarrierSpeed = carrierSpeed
		e.Food.CarrierPhase = carrierPhase
		out = append(out, e)
	}
	return out
}

// FoodPosition returns where a food item sits at world time now (ms).
func FoodPosition(s *FoodState, now float64) core.Vec2 {
	t := now / 1000
	b := s.Base
	switch s.Motion {
	case MotionDrift:
		return core.Vec2{X: b.X + math.Cos(t*1.2+s.Seed)*10, Y: b.Y + math.Sin(t*1.9+s.Seed)*14}
	case MotionHopper:
		hop := max(0, math.Sin(t*3+s.Seed))
		return core.Vec2{X: b.X + math.Sin(t+s.Seed)*16, Y: b.Y - hop*24}
	case MotionSwarm:
		return core.Vec2{
			X: b.X + math.Sin(t*5+s.Seed)*18 + math.Cos(t*3+s.Seed)*8,
			Y: b.Y + math.Cos(t*6+s.Seed)*14,
		}
	case MotionOrbit:
		cx := b.X + math.Cos(t*s.CarrierSpeed+s.CarrierPhase)*s.CarrierRadius
		cy := b.Y + math.Sin(t*s.CarrierSpeed+s.CarrierPhase)*s.CarrierRadius*s.CarrierAspectY
		return core.Vec2{
			X: cx + math.Cos(t*s.OrbitSpeed+s.OrbitPhase)*s.OrbitRadius,
			Y: cy + math.Sin(t*s.OrbitSpeed+s.OrbitPhase)*s.OrbitRadius*0.86,
		}
	default:
		return core.Vec2{X: b.X, Y: b.Y + math.Sin(t*1.1+s.Seed)*3}
	}
}

func newPickup(pos core.Vec2, typ PickupType, now, lifetimeMs float64) Entity {
	return Entity{
		Kind:   KindPickup,
		Pos:    pos,
		Radius: pickupRadius,
		Pickup: &PickupState{Type: typ, BaseY: pos.Y, ExpiresAt: now + lifetimeMs},
	}
}

// rollPickup picks the drop for a collected food item. The chances are
// cumulative thresholds; ok is false when nothing drops.
func rollPickup(roll float64, eco config.EconomyBalance) (PickupType, bool) {
	switch {
	case roll < eco.LifeDropChance:
		return PickupLife, true
	case roll < eco.UniverseDropChance:
		return PickupUniverseSeed, true
	case roll < eco.SeedDropChance:
		return PickupSeed, true
	default:
		return 0, false
	}
}

// bob moves pickups and fountains along their idle animation.
func bob(e *Entity, now float64) {
	switch e.Kind {
	case KindPickup:
		e.Pos.Y = e.Pickup.BaseY - 5 + 5*math.Cos(now*math.Pi/680)
	case KindFountain:
		e.Pos.Y = e.Fountain.BaseY - 4 + 4*math.Cos(now*math.Pi/520)
	}
}

// fountainReward snaps a configured reward onto 3, 6 or 9 seeds.
func fountainReward(n int) int {
	switch {
	case n <= 3:
		return 3
	case n <= 6:
		return 6
	default:
		return 9
	}
}

func newFountain(rule config.FountainRule, now float64) Entity {
	visible := rule.VisibleMs
	if visible <= 0 {
		visible = fountainDefaultMs
	}
	return Entity{
		Kind:   KindFountain,
		Pos:    core.Vec2{X: rule.X, Y: rule.Y},
		Radius: fountainRadius,
		Fountain: &FountainState{
			Reward:    fountainReward(rule.RewardSeeds),
			BaseY:     rule.Y,
			ExpiresAt: now + visible,
		},
	}
}

// newHazard lays a strip out as a row of circles of radius height/2.
func newHazard(rule config.HazardRule) Entity {
	h := max(1, rule.Height)
	n := max(1, int(math.Ceil(rule.Width/h)))
	segs := make([]core.Vec2, n)
	step := rule.Width / float64(n)
	left := rule.X - rule.Width/2
	for i := range segs {
		segs[i] = core.Vec2{X: left + step*(float64(i)+0.5), Y: rule.Y}
	}
	return Entity{
		Kind:   KindHazard,
		Pos:    core.Vec2{X: rule.X, Y: rule.Y},
		Radius: math.Hypot(rule.Width/2, h/2),
		Hazard: &HazardState{
			Type:     rule.Type,
			Width:    rule.Width,
			Height:   h,
			Damage:   rule.Damage,
			Segments: segs,
		},
	}
}

// HazardTouches reports whether c overlaps any circle of the strip.
func HazardTouches(e *Entity, c core.Circle) bool {
	if !e.Overlaps(c) {
		return false
	}
	r := e.Hazard.Height / 2
	for _, p := range e.Hazard.Segments {
		if c.Overlaps(core.Circle{Pos: p, Radius: r}) {
			return true
		}
	}
	return false
}
