package loopy

import (
	"math"

	"github.com/vovakirdan/loopy/internal/core"
)

// BossState is the payload of the arcane boss.
type BossState struct {
	Anchor          core.Vec2
	NextShotAt      float64
	NextWindowAt    float64
	VulnerableUntil float64
	StunnedUntil    float64
	DeathTriggered  bool
}

const (
	bossRadius        = 35
	bossMaxHP         = 2400
	bossWindowMs      = 1400
	bossWindowEveryMs = 5200
	bossArmorFactor   = 0.42
	bossFadeMs        = 450
	bossAddChance     = 0.42
)

func newBoss(pos core.Vec2, now float64) Entity {
	return Entity{
		Kind:   KindBoss,
		Pos:    pos,
		Radius: bossRadius,
		Health: &Health{HP: bossMaxHP, Max: bossMaxHP},
		Boss: &BossState{
			Anchor:       pos,
			NextShotAt:   now + 1200,
			NextWindowAt: now + 5000,
		},
	}
}

// BossPhase derives the phase from the health ratio: 1 above 0.66, 2 above
// 0.33, 3 otherwise.
func BossPhase(h Health) int {
	r := h.Ratio()
	switch {
	case r <= 0.33:
		return 3
	case r <= 0.66:
		return 2
	default:
		return 1
	}
}

// Stun extends the stun deadline monotonically.
func (s *BossState) Stun(durationMs, now float64) {
	s.StunnedUntil = max(s.StunnedUntil, now+durationMs)
}

// Vulnerable reports whether a phase-3 window is open.
func (s *BossState) Vulnerable(now float64) bool {
	return now <= s.VulnerableUntil
}

// bossDamage applies damage to the boss and reports whether it is dead.
// Outside a vulnerability window phase 3 takes reduced damage; every hit
// deals at least 1. The first lethal hit sets DeathTriggered.
func bossDamage(e *Entity, amount, now float64) (dead, firstDeath bool) {
	if e.Health.HP <= 0 {
		return true, false
	}
	effective := amount
	if BossPhase(*e.Health) == 3 && now > e.Boss.VulnerableUntil {
		effective = math.Floor(amount * bossArmorFactor)
	}
	e.Health.Apply(max(1, effective))
	if e.Health.HP <= 0 && !e.Boss.DeathTriggered {
		e.Boss.DeathTriggered = true
		return true, true
	}
	return e.Health.HP <= 0, false
}

// bossWorld extends world with the boss-only hook.
type bossWorld interface {
	world
	spawnBossAdds(phase int)
}

func updateBoss(t tick, w bossWorld, _ Handle, e *Entity) {
	s := e.Boss
	if e.Health.HP <= 0 || t.Now < s.StunnedUntil {
		e.Vel = core.Vec2{}
		return
	}

	phase := BossPhase(*e.Health)
	sway := 70.0
	if phase == 1 {
		sway = 45
	}
	e.Pos = core.Vec2{
		X: s.Anchor.X + math.Sin(t.Now/520)*sway,
		Y: s.Anchor.Y + math.Cos(t.Now/830)*44,
	}

	if phase == 3 && t.Now >= s.NextWindowAt {
		s.VulnerableUntil = t.Now + bossWindowMs
		s.NextWindowAt = t.Now + bossWindowEveryMs
	}

	if t.Now >= s.NextShotAt {
		bossVolley(t, w, e, phase)
		s.NextShotAt = t.Now + [...]float64{980, 720, 520}[phase-1]
		if phase >= 2 && w.rand().Float64() < bossAddChance {
			w.spawnBossAdds(phase)
		}
	}
}

func bossVolley(t tick, w world, e *Entity, phase int) {
	speed := [...]float64{270, 340, 420}[phase-1]
	switch phase {
	case 1:
		bossSpread(t, w, e, speed, 4, 0.17)
	case 2:
		bossSpread(t, w, e, speed, 6, 0.2)
		bossRadial(t, w, e, speed*0.82, 8)
	default:
		bossSpread(t, w, e, speed, 8, 0.23)
		bossRadial(t, w, e, speed, 12)
	}
}

func bossSpread(t tick, w world, e *Entity, speed float64, count int, spread float64) {
	base := e.Pos.AngleTo(t.Player)
	center := float64(count-1) / 2
	for i := range count {
		angle := base + (float64(i)-center)*spread
		w.spawnProjectile(e.Pos, core.FromAngle(angle, speed), FromPredator, 16)
	}
}

func bossRadial(t tick, w world, e *Entity, speed float64, count int) {
	for i := range count {
		angle := 2*math.Pi*float64(i)/float64(count) + t.Now/1300
		w.spawnProjectile(e.Pos, core.FromAngle(angle, speed), FromWormhole, 18)
	}
}

// bossPullScale is the wormhole pull multiplier while the boss is alive.
func bossPullScale(phase int) float64 {
	switch phase {
	case 2:
		return 1.35
	case 3:
		return 1.75
	default:
		return 1
	}
}
