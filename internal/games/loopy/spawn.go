package loopy

import (
	"math"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
)

// populate builds the level start population from the level data scaled by
// the difficulty parameters. Every random choice draws from the level RNG so
// a seed reproduces the layout.
func (l *Level) populate() {
	l.spawnFoods()
	l.spawnPredators()
	l.spawnSpecialists()
	l.spawnWormholes()
	l.spawnHazards()
}

func (l *Level) spawnFoods() {
	for _, rule := range l.def.Foods {
		motion := ParseMotion(rule.Movement)
		if motion == MotionOrbit {
			for _, e := range orbitFormation(rule, l.rng) {
				l.foods.Add(e)
			}
			continue
		}
		for range rule.Count {
			pos := core.Vec2{
				X: rule.X + between(l.rng, -int(rule.SpreadX), int(rule.SpreadX)),
				Y: rule.Y + between(l.rng, -int(rule.SpreadY), int(rule.SpreadY)),
			}
			l.foods.Add(newFood(pos, rule.Type, motion, l.rng))
		}
	}
}

// predatorPattern picks the shot pattern of the i-th predator of a rule.
func predatorPattern(level, i int) ShotPattern {
	switch {
	case level >= 13:
		if i%2 == 0 {
			return PatternBurst
		}
		return PatternSpread
	case level >= 9:
		return PatternSpread
	default:
		return PatternSingle
	}
}

func (l *Level) spawnPredators() {
	d := l.diff
	now := l.now
	extra := d.ExtraPredators
	for _, rule := range l.def.Predators {
		bonus := 0
		if extra > 0 {
			bonus = 1
			extra--
		}
		for i := range rule.Count + bonus {
			pos := core.Vec2{X: rule.X + float64(i)*rule.Spacing, Y: rule.Y}
			l.enemies.Add(newPredator(pos, PredatorConfig{
				Speed:           math.Round(rule.Speed * d.PredatorSpeed),
				ShootIntervalMs: max(360, math.Round(rule.ShootIntervalMs*d.PredatorShootInterval)),
				ProjectileSpeed: math.Round(rule.ProjectileSpeed * d.ProjectileSpeed),
				HP:              float64(56 + d.LevelID*8),
				Pattern:         predatorPattern(d.LevelID, i),
			}, now, l.rng))
		}
	}

	exit := int(l.def.ExitGateX)
	for ; extra > 0; extra-- {
		pattern := PatternSpread
		if d.LevelID >= 12 {
			pattern = PatternBurst
		}
		pos := core.Vec2{X: between(l.rng, 600, max(600, exit-260)), Y: between(l.rng, 170, 460)}
		l.enemies.Add(newPredator(pos, PredatorConfig{
			Speed:           math.Round(130 * d.PredatorSpeed),
			ShootIntervalMs: max(320, math.Round(1200*d.PredatorShootInterval)),
			ProjectileSpeed: math.Round(320 * d.ProjectileSpeed),
			HP:              float64(60 + d.LevelID*8),
			Pattern:         pattern,
		}, now, l.rng))
	}
}

// spawnSpecialists adds skimmers, totems and serpents by level id.
func (l *Level) spawnSpecialists() {
	d := l.diff
	id := l.def.ID
	exit := l.def.ExitGateX
	now := l.now

	skimmers := 0
	if id >= 3 {
		skimmers = min(3, 1+(id-3)/4)
	}
	for i := range skimmers {
		x := clampSpan(exit*(0.36+float64(i)*0.2), 760, exit-430)
		y := 200 + float64(i%2)*120
		l.enemies.Add(newSkimmer(core.Vec2{X: x, Y: y}, PredatorConfig{
			Speed:           math.Round(120 * d.PredatorSpeed),
			ShootIntervalMs: max(500, math.Round(1600*d.PredatorShootInterval)),
			ProjectileSpeed: math.Round(315 * d.ProjectileSpeed),
			HP:              float64(64 + d.LevelID*9),
		}, now, l.rng))
	}

	totems := countFrom(id, 4, 10, 15)
	early := id <= 6
	for i := range totems {
		x := clampSpan(exit*(0.5+float64(i)*0.16), 1050, exit-260)
		y := 240 + float64(i%2)*120
		hp, base, floor, speed := 96+d.LevelID*10, 1700.0, 560.0, 280.0
		if early {
			hp, base, floor, speed = 78+d.LevelID*6, 2050, 760, 255
		}
		l.enemies.Add(newTotem(core.Vec2{X: x, Y: y}, PredatorConfig{
			ShootIntervalMs: max(floor, math.Round(base*d.PredatorShootInterval)),
			ProjectileSpeed: math.Round(speed * d.ProjectileSpeed),
			HP:              float64(hp),
		}, now, l.rng))
	}

	serpents := countFrom(id, 5, 10, 14)
	for i := range serpents {
		x := clampSpan(exit*(0.28+float64(i)*0.23), 820, exit-360)
		y := 220 + float64(i%2)*110
		l.enemies.Add(newSerpent(core.Vec2{X: x, Y: y}, PredatorConfig{
			Speed:           math.Round(150 * d.PredatorSpeed),
			ShootIntervalMs: max(680, math.Round(1800*d.PredatorShootInterval)),
			ProjectileSpeed: math.Round(300 * d.ProjectileSpeed),
			HP:              float64(72 + d.LevelID*9),
			TailSegments:    6 + d.Tier,
			TailSpacing:     6,
		}, now, l.rng))
	}
}

func (l *Level) spawnWormholes() {
	d := l.diff
	id := l.def.ID
	exit := l.def.ExitGateX
	now := l.now

	for _, rule := range l.def.Wormholes {
		l.holes.Add(newWormhole(core.Vec2{X: rule.X, Y: rule.Y}, WormholeConfig{
			PullRadius:      rule.PullRadius,
			PullStrength:    math.Round(rule.PullStrength * d.WormholePull),
			ShootIntervalMs: max(700, math.Round(rule.ShootIntervalMs*d.WormholeShootInterval)),
			ProjectileSpeed: math.Round(rule.ProjectileSpeed * d.ProjectileSpeed),
		}, now, l.rng))
	}

	oceans := countFrom(id, 3, 9, 15)
	for i := range oceans {
		x := clampSpan(exit*(0.44+float64(i)*0.2), 960, exit-300)
		y := 240 + float64(i%2)*120
		radius := core.ClampF(190+float64(d.Tier)*15, 190, 260)
		goal := 3 + d.Tier
		if id >= 10 {
			goal++
		}
		l.holes.Add(newOceanWormhole(core.Vec2{X: x, Y: y}, WormholeConfig{
			PullRadius:      radius,
			PullStrength:    math.Round(float64(680+d.LevelID*24) * d.WormholePull),
			ShootIntervalMs: max(760, math.Round(2050*d.WormholeShootInterval)),
			ProjectileSpeed: math.Round(260 * d.ProjectileSpeed),
			TrapRadius:      math.Round(radius * 0.48),
			EscapeGoal:      goal,
		}, now, l.rng))
	}

	hi := max(900, int(exit)-260)
	for range d.ExtraWormholes {
		pos := core.Vec2{X: between(l.rng, 900, hi), Y: between(l.rng, 210, 460)}
		radius := between(l.rng, 170, 220)
		l.holes.Add(newWormhole(pos, WormholeConfig{
			PullRadius:      radius,
			PullStrength:    math.Round(float64(560+d.LevelID*20) * d.WormholePull),
			ShootIntervalMs: max(700, math.Round(2100*d.WormholeShootInterval)),
			ProjectileSpeed: math.Round(240 * d.ProjectileSpeed),
		}, now, l.rng))
	}
}

func (l *Level) spawnHazards() {
	for _, rule := range l.def.Hazards {
		if rule.Damage <= 0 {
			rule.Damage = l.bal.Damage.HazardTouch
		}
		l.hazards.Add(newHazard(rule))
	}

	typ := "sand_spike"
	if l.def.Biome == "jungle" {
		typ = "vine"
	}
	hi := max(850, int(l.def.ExitGateX)-240)
	for range l.diff.ExtraHazards {
		l.hazards.Add(newHazard(config.HazardRule{
			Type:   typ,
			X:      between(l.rng, 850, hi),
			Y:      between(l.rng, 180, 500),
			Width:  between(l.rng, 120, 210),
			Height: between(l.rng, 20, 34),
			Damage: 16 + float64(l.diff.Tier)*4,
		}))
	}
}

// countFrom returns 1 from level first, plus one more from each later
// threshold reached.
func countFrom(level, first int, more ...int) int {
	if level < first {
		return 0
	}
	n := 1
	for _, t := range more {
		if level >= t {
			n++
		}
	}
	return n
}

// clampSpan clamps v into [lo, hi], preferring lo when the span is empty.
func clampSpan(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
