package loopy

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// tick is the explicit clock and world view handed to every behavior.
type tick struct {
	Now    float64 // world clock, ms since level start
	Dt     float64 // elapsed seconds for this step
	Player core.Vec2
}

// world is the part of the level a behavior may call back into.
type world interface {
	spawnProjectile(pos, vel core.Vec2, src ProjSource, damage float64)
	after(delayMs float64, owner Handle, fn func(now float64, e *Entity))
	rand() *rand.Rand
	emit(ev Event)
	damageTable() config.DamageTable
	damageEnemy(h Handle, e *Entity, amount float64, src DamageSource) bool
}

// ShotPattern is how a basic predator fires.
type ShotPattern uint8

const (
	PatternSingle ShotPattern = iota
	PatternSpread
	PatternBurst
)

// String returns the pattern name.
func (p ShotPattern) String() string {
	switch p {
	case PatternSpread:
		return "spread"
	case PatternBurst:
		return "burst"
	default:
		return "single"
	}
}

// EnemyState holds the timers shared by every predator variant plus the
// few fields specific to skimmers and totems.
type EnemyState struct {
	Speed           float64
	ShootIntervalMs float64
	ProjectileSpeed float64
	Pattern         ShotPattern
	NextShotAt      float64
	StunnedUntil    float64

	Anchor      core.Vec2
	DriftSeed   float64
	HoverAmp    float64
	HoverFreq   float64
	NextDashAt  float64
	DashUntil   float64
	ImmuneUntil float64
}

// Stun extends the stun deadline. It never shortens an existing stun.
func (s *EnemyState) Stun(durationMs, now float64) {
	s.StunnedUntil = max(s.StunnedUntil, now+durationMs)
}

// Stunned reports whether the enemy is frozen.
func (s *EnemyState) Stunned(now float64) bool {
	return now < s.StunnedUntil
}

// PredatorConfig parameterizes every predator constructor.
type PredatorConfig struct {
	Speed           float64
	ShootIntervalMs float64
	ProjectileSpeed float64
	HP              float64
	Pattern         ShotPattern
	TailSegments    int
	TailSpacing     int
}

// Body radii, in world units.
const (
	predatorRadius = 16
	skimmerRadius  = 31
	totemRadius    = 44
	serpentRadius  = 29

	tailBiteRadius   = 16
	tailBiteFirstSeg = 3
	tailBiteArmMs    = 1400
	tailBiteCdMs     = 2000
	serpentTurnBlend = 0.09
	serpentRangeMax  = 520
	burstSpacingMs   = 110
	windupMs         = 220
)

// between returns a uniform integer in [lo, hi] as a float.
func between(r *rand.Rand, lo, hi int) float64 {
	if hi <= lo {
		return float64(lo)
	}
	return float64(lo + r.Intn(hi-lo+1))
}

func floatBetween(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// newPredator builds a basic seeking predator.
func newPredator(pos core.Vec2, cfg PredatorConfig, now float64, r *rand.Rand) Entity {
	hp := cfg.HP
	if hp <= 0 {
		hp = 64
	}
	return Entity{
		Kind:   KindPredator,
		Pos:    pos,
		Radius: predatorRadius,
		Health: &Health{HP: hp, Max: hp},
		Enemy: &EnemyState{
			Speed:           cfg.Speed,
			ShootIntervalMs: cfg.ShootIntervalMs,
			ProjectileSpeed: cfg.ProjectileSpeed,
			Pattern:         cfg.Pattern,
			NextShotAt:      now + between(r, 700, 1400),
		},
	}
}

// newSkimmer builds a strafing skimmer that fires two-shot spreads.
func newSkimmer(pos core.Vec2, cfg PredatorConfig, now float64, r *rand.Rand) Entity {
	hp := cfg.HP
	if hp <= 0 {
		hp = 64
	}
	return Entity{
		Kind:   KindSkimmer,
		Pos:    pos,
		Radius: skimmerRadius,
		Health: &Health{HP: hp, Max: hp},
		Enemy: &EnemyState{
			Speed:           max(95, cfg.Speed*1.14),
			ShootIntervalMs: max(420, math.Round(cfg.ShootIntervalMs*0.86)),
			ProjectileSpeed: math.Round(cfg.ProjectileSpeed * 1.1),
			Pattern:         PatternSpread,
			Anchor:          pos,
			HoverAmp:        between(r, 26, 48),
			HoverFreq:       floatBetween(r, 0.0028, 0.0042),
			DriftSeed:       floatBetween(r, 0, 2*math.Pi),
			NextShotAt:      now + between(r, 650, 1200),
			NextDashAt:      now + between(r, 1400, 2200),
		},
	}
}

// newTotem builds an anchored turret that only player shots can hurt.
func newTotem(pos core.Vec2, cfg PredatorConfig, now float64, r *rand.Rand) Entity {
	hp := cfg.HP
	if hp <= 0 {
		hp = 130
	}
	return Entity{
		Kind:   KindTotem,
		Pos:    pos,
		Radius: totemRadius,
		Health: &Health{HP: hp, Max: hp},
		Caps:   CapShotOnly,
		Enemy: &EnemyState{
			ShootIntervalMs: max(520, math.Round(cfg.ShootIntervalMs*0.92)),
			ProjectileSpeed: math.Round(cfg.ProjectileSpeed * 0.95),
			Anchor:          pos,
			DriftSeed:       floatBetween(r, 0, 2*math.Pi),
			NextShotAt:      now + between(r, 900, 1400),
		},
	}
}

// newSerpent builds a chasing serpent with a lagging tail.
func newSerpent(pos core.Vec2, cfg PredatorConfig, now float64, r *rand.Rand) Entity {
	hp := cfg.HP
	if hp <= 0 {
		hp = 86
	}
	segments := cfg.TailSegments
	if segments <= 0 {
		segments = 7
	}
	spacing := cfg.TailSpacing
	if spacing <= 0 {
		spacing = 6
	}
	s := &SerpentState{
		Segments:      segments,
		Spacing:       spacing,
		TailBiteArmAt: now + tailBiteArmMs,
		history:       newRing(segments*spacing + 60),
	}
	for range segments {
		s.history.Push(pos)
	}
	return Entity{
		Kind:    KindSerpent,
		Pos:     pos,
		Radius:  serpentRadius,
		Health:  &Health{HP: hp, Max: hp},
		Serpent: s,
		Enemy: &EnemyState{
			Speed:           max(95, cfg.Speed),
			ShootIntervalMs: max(780, math.Round(cfg.ShootIntervalMs*1.08)),
			ProjectileSpeed: max(220, math.Round(cfg.ProjectileSpeed*0.92)),
			NextShotAt:      now + between(r, 850, 1650),
		},
	}
}

// enemyBehavior advances one enemy for one tick.
type enemyBehavior func(t tick, w world, h Handle, e *Entity)

// enemyBehaviors is the per-kind strategy table.
var enemyBehaviors = map[Kind]enemyBehavior{
	KindPredator: updatePredator,
	KindSkimmer:  updateSkimmer,
	KindTotem:    updateTotem,
	KindSerpent:  updateSerpent,
}

// WindingUp reports whether the enemy is about to fire.
func (e *Entity) WindingUp(now float64) bool {
	return e.Enemy != nil && !e.Enemy.Stunned(now) && e.Enemy.NextShotAt-now < windupMs
}

func updatePredator(t tick, w world, h Handle, e *Entity) {
	s := e.Enemy
	if s.Stunned(t.Now) {
		e.Vel = core.Vec2{}
		return
	}
	d := t.Player.Sub(e.Pos)
	dist := max(1, d.Len())
	dir := d.Scale(1 / dist)
	e.Vel = dir.Scale(s.Speed)

	if t.Now >= s.NextShotAt {
		firePattern(t, w, h, e, dir)
		s.NextShotAt = t.Now + s.ShootIntervalMs
	}
}

func firePattern(t tick, w world, h Handle, e *Entity, dir core.Vec2) {
	s := e.Enemy
	dmg := w.damageTable().Projectile
	base := dir.Angle()
	switch s.Pattern {
	case PatternSpread:
		for _, off := range []float64{-0.18, 0, 0.18} {
			w.spawnProjectile(e.Pos, core.FromAngle(base+off, s.ProjectileSpeed), FromPredator, dmg)
		}
	case PatternBurst:
		shoot := func(_ float64, self *Entity) {
			jitter := floatBetween(w.rand(), -0.1, 0.1)
			w.spawnProjectile(self.Pos, core.FromAngle(base+jitter, self.Enemy.ProjectileSpeed), FromPredator, dmg)
		}
		// The first shot leaves on the trigger tick; the rest trail it.
		shoot(t.Now, e)
		for i := 1; i < 3; i++ {
			w.after(float64(i)*burstSpacingMs, h, shoot)
		}
	default:
		w.spawnProjectile(e.Pos, dir.Scale(s.ProjectileSpeed), FromPredator, dmg)
	}
}

func updateSkimmer(t tick, w world, _ Handle, e *Entity) {
	s := e.Enemy
	if s.Stunned(t.Now) {
		e.Vel = core.Vec2{}
		return
	}

	if t.Now >= s.DashUntil {
		desiredY := s.Anchor.Y + math.Sin(s.DriftSeed+t.Now*s.HoverFreq)*s.HoverAmp
		horizontal := -1.0
		if t.Player.X >= e.Pos.X {
			horizontal = 1
		}
		e.Vel = core.Vec2{X: horizontal * s.Speed, Y: core.ClampF((desiredY-e.Pos.Y)*4.2, -200, 200)}
	}

	if t.Now >= s.NextDashAt && math.Abs(t.Player.X-e.Pos.X) < 320 {
		d := t.Player.Sub(e.Pos)
		dist := max(1, d.Len())
		e.Vel = core.Vec2{X: d.X / dist * s.Speed * 1.6, Y: d.Y / dist * s.Speed * 1.3}
		s.DashUntil = t.Now + 260
		s.NextDashAt = t.Now + between(w.rand(), 1600, 2550)
	}

	if t.Now >= s.NextShotAt {
		base := e.Pos.AngleTo(t.Player)
		dmg := w.damageTable().Projectile + 3
		for _, off := range []float64{-0.2, 0.2} {
			w.spawnProjectile(e.Pos, core.FromAngle(base+off, s.ProjectileSpeed), FromPredator, dmg)
		}
		s.NextShotAt = t.Now + s.ShootIntervalMs
	}
}

func updateTotem(t tick, w world, _ Handle, e *Entity) {
	s := e.Enemy
	if s.Stunned(t.Now) {
		e.Vel = core.Vec2{}
		return
	}

	target := core.Vec2{
		X: s.Anchor.X + math.Sin(s.DriftSeed+t.Now*0.0019)*14,
		Y: s.Anchor.Y + math.Cos(s.DriftSeed+t.Now*0.0023)*10,
	}
	e.Vel = target.Sub(e.Pos).Scale(7)

	if t.Now >= s.NextShotAt {
		base := e.Pos.AngleTo(t.Player)
		dmg := w.damageTable().Projectile + 5
		for _, off := range []float64{-0.28, 0, 0.28} {
			w.spawnProjectile(e.Pos, core.FromAngle(base+off, s.ProjectileSpeed), FromPredator, dmg)
		}
		s.NextShotAt = t.Now + s.ShootIntervalMs
	}
}

func updateSerpent(t tick, w world, h Handle, e *Entity) {
	s := e.Enemy
	if s.Stunned(t.Now) {
		e.Vel = core.Vec2{}
		return
	}

	d := t.Player.Sub(e.Pos)
	dist := max(1, d.Len())
	sway := d.Angle() + math.Sin(t.Now*0.003+e.Pos.X*0.01)*0.25
	desired := core.FromAngle(sway, s.Speed)
	e.Vel.X = core.Lerp(e.Vel.X, desired.X, serpentTurnBlend)
	e.Vel.Y = core.Lerp(e.Vel.Y, desired.Y, serpentTurnBlend)

	e.Serpent.history.Push(e.Pos)
	if tryTailBite(t, w, h, e) {
		return
	}

	if dist < serpentRangeMax && t.Now >= s.NextShotAt {
		angle := d.Angle() + floatBetween(w.rand(), -0.14, 0.14)
		w.spawnProjectile(e.Pos, core.FromAngle(angle, s.ProjectileSpeed), FromPredator, w.damageTable().Projectile+2)
		s.NextShotAt = t.Now + s.ShootIntervalMs
	}
}

// tryTailBite kills the serpent when its head meets one of its own trailing
// segments. The bite is lethal immediately, so no stun is applied.
func tryTailBite(t tick, w world, h Handle, e *Entity) bool {
	s := e.Serpent
	if t.Now < s.TailBiteArmAt || t.Now < s.TailBiteCooldownUntil {
		return false
	}
	for i := tailBiteFirstSeg; i < s.Segments; i++ {
		if e.Pos.Dist(s.SegmentPos(i)) < tailBiteRadius {
			s.TailBiteCooldownUntil = t.Now + tailBiteCdMs
			w.emit(TailBiteEvent{X: e.Pos.X, Y: e.Pos.Y})
			w.damageEnemy(h, e, 9999, SourceSelf)
			return true
		}
	}
	return false
}

// SerpentState holds the tail history of a serpent.
type SerpentState struct {
	Segments              int
	Spacing               int
	TailBiteArmAt         float64
	TailBiteCooldownUntil float64

	history *ring
}

// SegmentPos returns the position of tail segment i (0 is nearest the head).
func (s *SerpentState) SegmentPos(i int) core.Vec2 {
	return s.history.At((i + 1) * s.Spacing)
}

// ring is a bounded position history; index 0 is the most recent sample.
type ring struct {
	buf  []core.Vec2
	head int
	n    int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]core.Vec2, max(1, capacity))}
}

// Push records a new most-recent sample, dropping the oldest when full.
func (r *ring) Push(p core.Vec2) {
	r.head = (r.head + 1) % len(r.buf)
	r.buf[r.head] = p
	r.n = min(r.n+1, len(r.buf))
}

// At returns the i-th most recent sample, clamped to the oldest available.
func (r *ring) At(i int) core.Vec2 {
	if r.n == 0 {
		return core.Vec2{}
	}
	i = core.Clamp(i, 0, r.n-1)
	return r.buf[(r.head-i+len(r.buf))%len(r.buf)]
}

// Len returns the number of stored samples.
func (r *ring) Len() int {
	return r.n
}
