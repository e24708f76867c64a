package loopy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/loopy/internal/core"
)

// WormholeConfig parameterizes wormhole constructors. Trap fields are only
// used by ocean wormholes; zero values pick the defaults.
type WormholeConfig struct {
	PullRadius      float64
	PullStrength    float64
	ShootIntervalMs float64
	ProjectileSpeed float64

	TrapRadius     float64
	EscapeGoal     int
	TrapCooldownMs float64
}

// HoleState is the payload of both wormhole variants.
type HoleState struct {
	PullRadius      float64
	PullStrength    float64
	ShootIntervalMs float64
	ProjectileSpeed float64
	NextShotAt      float64
	SuppressedUntil float64
	PullScale       float64
	CoreRadius      float64

	TrapRadius        float64
	EscapeGoal        int
	TrapCooldownMs    float64
	TrapCooldownUntil float64
}

const (
	wormholeRadius      = 18
	wormholeCore        = 22
	oceanWormholeRadius = 42
	oceanWormholeCore   = 18
	wormholeShotRadius  = 7
)

func newWormhole(pos core.Vec2, cfg WormholeConfig, now float64, r *rand.Rand) Entity {
	return Entity{
		Kind:   KindWormhole,
		Pos:    pos,
		Radius: wormholeRadius,
		Hole: &HoleState{
			PullRadius:      cfg.PullRadius,
			PullStrength:    cfg.PullStrength,
			ShootIntervalMs: cfg.ShootIntervalMs,
			ProjectileSpeed: cfg.ProjectileSpeed,
			NextShotAt:      now + between(r, 1200, 2500),
			PullScale:       1,
			CoreRadius:      wormholeCore,
		},
	}
}

func newOceanWormhole(pos core.Vec2, cfg WormholeConfig, now float64, r *rand.Rand) Entity {
	e := newWormhole(pos, cfg, now, r)
	e.Kind = KindOceanWormhole
	e.Radius = oceanWormholeRadius
	s := e.Hole
	s.CoreRadius = oceanWormholeCore
	s.TrapRadius = cfg.TrapRadius
	if s.TrapRadius <= 0 {
		s.TrapRadius = max(54, math.Round(cfg.PullRadius*0.44))
	}
	s.EscapeGoal = cfg.EscapeGoal
	if s.EscapeGoal <= 0 {
		s.EscapeGoal = 4
	}
	s.TrapCooldownMs = cfg.TrapCooldownMs
	if s.TrapCooldownMs <= 0 {
		s.TrapCooldownMs = 1800
	}
	return e
}

// SetPullScale sets the external pull multiplier, floored at zero.
func (s *HoleState) SetPullScale(scale float64) {
	s.PullScale = max(0, scale)
}

// SuppressShots blocks firing until the given time. It never shortens an
// existing suppression window.
func (s *HoleState) SuppressShots(until float64) {
	s.SuppressedUntil = max(s.SuppressedUntil, until)
}

// Pull returns the attraction the wormhole at center exerts on target.
func (s *HoleState) Pull(center, target core.Vec2) core.Pull {
	return core.PullForce(center, target, s.PullRadius, s.PullStrength*s.PullScale)
}

// InsideCore reports whether target is inside the lethal core.
func (s *HoleState) InsideCore(center, target core.Vec2) bool {
	return center.Dist(target) < s.CoreRadius
}

// CanTrap reports whether an ocean wormhole captures target now.
func (s *HoleState) CanTrap(center, target core.Vec2, now float64) bool {
	if s.TrapRadius <= 0 || now < s.TrapCooldownUntil {
		return false
	}
	return center.Dist(target) <= s.TrapRadius
}

// MarkTrapReleased starts the re-trap cooldown.
func (s *HoleState) MarkTrapReleased(now float64) {
	s.TrapCooldownUntil = max(s.TrapCooldownUntil, now+s.TrapCooldownMs)
}

// updateWormhole fires an aimed projectile every interval unless shots are
// suppressed.
func updateWormhole(t tick, w world, _ Handle, e *Entity) {
	s := e.Hole
	if t.Now < s.SuppressedUntil {
		return
	}
	if t.Now >= s.NextShotAt {
		d := t.Player.Sub(e.Pos)
		dist := max(1, d.Len())
		w.spawnProjectile(e.Pos, d.Scale(s.ProjectileSpeed/dist), FromWormhole, w.damageTable().BlackHoleProjectile)
		w.emit(SoundEvent{Cue: core.CueWormholePulse})
		s.NextShotAt = t.Now + s.ShootIntervalMs
	}
}

// trap is the player's capture state inside an ocean wormhole.
type trap struct {
	hole  Handle
	taps  int
	goal  int
	angle float64
}

const (
	trapSpinRate   = 1.8 // rad/s
	trapEscapePush = 420
)

// holdPosition returns where a trapped player sits around the hole.
func (tr *trap) holdPosition(hole *Entity, playerRadius float64) core.Vec2 {
	s := hole.Hole
	dist := max(s.CoreRadius+playerRadius+6, s.TrapRadius*0.5)
	return hole.Pos.Add(core.FromAngle(tr.angle, dist))
}
