// Package loopy is the deterministic simulation core of the Loopy
// side-scroller: one Level value owns a single attempt at a level, advances
// it tick by tick and reports what happened through a drained event queue.
package loopy

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/progress"
)

// worldBottom is the lower edge used when culling projectiles and shots.
const worldBottom = config.WorldHeight + 60

const (
	exitGateY        = 350
	exitGateRadius   = 56
	bossTriggerRatio = 0.65

	projectileRadius    = 5
	tapShotRadius       = 8
	holdShotRadius      = 7
	projectileCullRange = 100
	shotCullRange       = 120

	maxEnemies   = 64
	maxPickups   = 40
	maxWormholes = 16

	subStepEpsilon = 1e-6
)

// Option configures a Level.
type Option func(*Level)

// WithStore sets the save collaborator. The default is an in-memory store.
func WithStore(s SaveStore) Option {
	return func(l *Level) {
		if s != nil {
			l.store = s
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(lg *log.Logger) Option {
	return func(l *Level) {
		if lg != nil {
			l.log = lg
		}
	}
}

// WithPreset sets the difficulty preset.
func WithPreset(p config.DifficultyPreset) Option {
	return func(l *Level) {
		l.preset = p
	}
}

// WithBalance replaces the built-in balance constants.
func WithBalance(b config.Balance) Option {
	return func(l *Level) {
		l.bal = b
	}
}

// runState is the per-attempt objective and economy state.
type runState struct {
	quota         int
	collected     int
	lives         int
	deaths        int
	seeds         int
	universeSeeds int
	bloomMeter    float64
	bloomsCast    int

	timed      bool
	timeLeftMs float64

	checkpoint core.Vec2
	cpCursor   int
	cpCost     int

	ended     bool
	completed bool
	gameOver  bool
	reason    string
	score     int

	hazardGate ability.Timer
}

// Level is one attempt at one level.
type Level struct {
	def     config.LevelDef
	bal     config.Balance
	preset  config.DifficultyPreset
	diff    config.DifficultyParams
	store   SaveStore
	log     *log.Logger
	runtime core.RuntimeConfig

	rng    *rand.Rand
	now    float64
	ticks  uint64
	arena  *Arena
	sched  *Scheduler
	events eventQueue

	player *Player

	foods       *Group
	pickups     *Group
	fountains   *Group
	hazards     *Group
	enemies     *Group
	holes       *Group
	projectiles *Group
	shots       *Group

	boss          Handle
	bossSpawned   bool
	fountainShown []bool
	trap          *trap

	run    runState
	combat combatState
	diag   freezeDiag
	paused bool
}

// New creates a level for def. Call Reset before stepping it.
func New(def config.LevelDef, opts ...Option) *Level {
	l := &Level{
		def:    def,
		bal:    config.DefaultBalance(),
		preset: config.DifficultyNormal,
		store:  NewMemoryStore(),
		log:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ID returns the identifier used for score storage.
func (l *Level) ID() string {
	return LevelKey(l.def.ID)
}

// Title returns the level name.
func (l *Level) Title() string {
	return l.def.Name
}

// LevelID returns the catalogue id of the level.
func (l *Level) LevelID() int {
	return l.def.ID
}

// Def returns the level definition.
func (l *Level) Def() config.LevelDef {
	return l.def
}

// Width returns the world width.
func (l *Level) Width() float64 {
	return l.def.Width()
}

// Now returns the world clock in milliseconds.
func (l *Level) Now() float64 {
	return l.now
}

// Player returns the player controller.
func (l *Level) Player() *Player {
	return l.player
}

// Reset starts a fresh attempt: the world is rebuilt from the level data,
// the save is read once and the clock restarts at zero.
func (l *Level) Reset(rt core.RuntimeConfig) {
	l.runtime = rt
	l.rng = rand.New(rand.NewSource(rt.Seed)) //#nosec G404 -- gameplay randomness, not security
	l.now = 0
	l.ticks = 0
	l.arena = NewArena()
	l.sched = NewScheduler(l.arena)
	l.events = eventQueue{}
	l.diff = config.Difficulty(float64(config.EffectiveLevel(l.preset, l.def.ID)))

	id := l.def.ID
	l.foods = NewGroup("foods", l.arena, 0)
	l.pickups = NewGroup("pickups", l.arena, maxPickups)
	l.fountains = NewGroup("fountains", l.arena, 0)
	l.hazards = NewGroup("hazards", l.arena, 0)
	l.enemies = NewGroup("enemies", l.arena, maxEnemies)
	l.holes = NewGroup("wormholes", l.arena, maxWormholes)
	l.projectiles = NewGroup("projectiles", l.arena, core.Clamp(90+4*id, 105, 160))
	l.shots = NewGroup("shots", l.arena, core.Clamp(60+2*id, 74, 112))

	start := core.Vec2{X: l.def.PlayerStart.X, Y: l.def.PlayerStart.Y}
	l.player = NewPlayer(start, l.bal.Player, l.bal.Cooldowns)

	save, err := l.store.Load()
	if err != nil {
		l.log.Warn("save load failed, using defaults", "error", err)
		save = progress.Defaults()
	}
	l.player.SetUnlocked(ability.Unlocked(max(id, save.HighestUnlocked)))

	timeLimit := l.diff.ScaleTimeLimit(l.def.TimeLimitSec)
	l.run = runState{
		quota:      l.diff.ScaleQuota(l.def.Quota),
		lives:      l.bal.Player.StartLives,
		timed:      timeLimit > 0,
		timeLeftMs: float64(timeLimit) * 1000,
		checkpoint: start,
		cpCost:     config.CheckpointSeedCost(id),
	}
	l.combat = newCombatState(l.bal, id)
	l.diag = freezeDiag{}
	l.paused = false
	l.trap = nil
	l.boss = Handle{}
	l.bossSpawned = false
	l.fountainShown = make([]bool, len(l.def.Fountains))

	l.populate()

	l.log.Info("level start",
		"level", id,
		"name", l.def.Name,
		"preset", l.preset,
		"quota", l.run.quota,
		"time_limit", timeLimit,
		"seed", rt.Seed,
	)
}

// Step advances one tick of the configured tick rate.
func (l *Level) Step(in core.InputFrame) core.StepResult {
	return l.StepDelta(in, l.runtime.TickMs())
}

// StepDelta advances the simulation by an arbitrary frame delta.
func (l *Level) StepDelta(in core.InputFrame, dtMs float64) core.StepResult {
	l.tick(in, dtMs)
	return core.StepResult{State: l.State()}
}

// AdvanceTime runs ms of simulated time in fixed 1000/60 ms sub-steps plus a
// final partial step. Edge-triggered taps are delivered on the first
// sub-step only; axes and hold apply to every sub-step.
func (l *Level) AdvanceTime(ms float64, in core.InputFrame) core.StepResult {
	frame := in
	for ms > subStepEpsilon && !l.run.ended {
		step := min(ms, core.FixedStepMs)
		l.tick(frame, step)
		ms -= step
		frame = in.WithoutTaps()
	}
	return core.StepResult{State: l.State()}
}

// DrainEvents returns and clears the events queued since the last drain.
func (l *Level) DrainEvents() []Event {
	return l.events.drain()
}

// State returns the platform-facing run state.
func (l *Level) State() core.GameState {
	return core.GameState{
		Score:     l.run.score,
		GameOver:  l.run.gameOver,
		Completed: l.run.completed,
		Paused:    l.paused,
		Reason:    l.run.reason,
	}
}

// tick is the per-frame pipeline. The order of the phases is fixed.
func (l *Level) tick(in core.InputFrame, dtMs float64) {
	if l.run.ended || dtMs <= 0 {
		return
	}
	l.diag.record(dtMs)
	if in.Has(core.ActionPause) {
		l.paused = !l.paused
		return
	}
	if l.paused {
		return
	}

	l.now += dtMs
	l.ticks++
	now := l.now
	dt := dtMs / 1000

	l.sched.RunDue(now)

	l.handleInput(in, now)
	l.updatePlayer(in, dt, now)
	if l.shieldActive(now) {
		l.updateShieldAura(now)
	}

	t := tick{Now: now, Dt: dt, Player: l.player.Pos}
	l.updateFoods(now)
	l.updateEnemies(t)
	l.updateWormholes(t)
	l.updateBoss(t)

	l.integrate(dt, now)
	l.resolveOverlaps(now)
	if l.run.ended {
		return
	}

	l.updateFountains(now)
	l.updateCheckpoints(now)
	l.checkExit(now)
	l.updateTimer(dtMs)

	l.sweep()
}

func (l *Level) updatePlayer(in core.InputFrame, dt, now float64) {
	if l.trap != nil {
		hole := l.arena.Get(l.trap.hole)
		if hole != nil {
			l.trap.angle += trapSpinRate * dt
			l.player.Pos = l.trap.holdPosition(hole, l.player.Radius)
			l.player.Vel = core.Vec2{}
			return
		}
		l.trap = nil
	}
	l.player.UpdateControl(in, dt, now)
}

func (l *Level) updateFoods(now float64) {
	l.foods.Each(func(_ Handle, e *Entity) {
		e.Pos = FoodPosition(e.Food, now)
	})
}

func (l *Level) updateEnemies(t tick) {
	l.enemies.Each(func(h Handle, e *Entity) {
		if fn, ok := enemyBehaviors[e.Kind]; ok {
			fn(t, l, h, e)
		}
	})
}

// updateWormholes drives every hole. The difficulty pull factor applies
// here on top of the spawn-time strength scaling.
func (l *Level) updateWormholes(t tick) {
	scale := l.diff.WormholePull
	if b := l.bossEntity(); b != nil {
		scale *= bossPullScale(BossPhase(*b.Health))
	}
	bloom := t.Now < l.combat.bloomUntil
	if bloom {
		scale *= l.bal.Combat.Bloom.WormholePull
	}

	l.holes.Each(func(h Handle, e *Entity) {
		s := e.Hole
		s.SetPullScale(scale)
		if bloom {
			s.SuppressShots(l.combat.bloomUntil)
		}
		updateWormhole(t, l, h, e)

		if l.trap != nil {
			return
		}
		if e.Kind == KindOceanWormhole && s.CanTrap(e.Pos, l.player.Pos, t.Now) {
			l.trap = &trap{hole: h, goal: s.EscapeGoal, angle: e.Pos.AngleTo(l.player.Pos)}
			l.events.emit(HintEvent{Text: fmt.Sprintf("Ocean trap! Tap %d times to escape", s.EscapeGoal)})
			return
		}
		pull := s.Pull(e.Pos, l.player.Pos)
		if pull.Intensity > 0 {
			l.player.Vel = l.player.Vel.Add(pull.Impulse(t.Dt))
		}
	})
}

func (l *Level) updateBoss(t tick) {
	if !l.bossSpawned {
		l.trySpawnBoss(t.Now)
	}
	if b := l.bossEntity(); b != nil {
		updateBoss(t, l, l.boss, b)
	}
}

// integrate moves everything by its velocity and culls what left the world.
func (l *Level) integrate(dt, now float64) {
	width := l.Width()
	p := l.player
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	if x := core.ClampF(p.Pos.X, p.Radius, width-p.Radius); x != p.Pos.X {
		p.Pos.X = x
		p.Vel.X = 0
	}
	if y := core.ClampF(p.Pos.Y, p.Radius, config.WorldHeight-p.Radius); y != p.Pos.Y {
		p.Pos.Y = y
		p.Vel.Y = 0
	}

	l.enemies.Each(func(_ Handle, e *Entity) {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		e.Pos.X = core.ClampF(e.Pos.X, 0, width)
		e.Pos.Y = core.ClampF(e.Pos.Y, 0, config.WorldHeight)
	})
	l.projectiles.Each(func(h Handle, e *Entity) {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		if e.OutOfBounds(width, projectileCullRange) {
			l.arena.Destroy(h)
		}
	})
	l.shots.Each(func(h Handle, e *Entity) {
		e.Pos = e.Pos.Add(e.Vel.Scale(dt))
		if e.OutOfBounds(width, shotCullRange) {
			l.arena.Destroy(h)
		}
	})
	l.pickups.Each(func(h Handle, e *Entity) {
		if now >= e.Pickup.ExpiresAt {
			l.arena.Destroy(h)
			return
		}
		bob(e, now)
	})
	l.fountains.Each(func(h Handle, e *Entity) {
		if now >= e.Fountain.ExpiresAt {
			l.arena.Destroy(h)
			return
		}
		bob(e, now)
	})
}

func (l *Level) updateFountains(now float64) {
	for i, rule := range l.def.Fountains {
		if l.fountainShown[i] || l.player.Pos.X < rule.TriggerX {
			continue
		}
		l.fountainShown[i] = true
		l.fountains.Add(newFountain(rule, now))
		l.events.emit(HintEvent{Text: "A seed fountain appeared"})
	}
}

func (l *Level) updateCheckpoints(now float64) {
	if l.run.cpCursor >= len(l.def.Checkpoints) {
		return
	}
	x := l.def.Checkpoints[l.run.cpCursor]
	if l.player.Pos.X < x {
		return
	}
	if l.run.seeds >= l.run.cpCost {
		l.run.seeds -= l.run.cpCost
		l.run.checkpoint = core.Vec2{X: x, Y: l.def.PlayerStart.Y}
		l.run.cpCursor++
		l.events.emit(CheckpointReachedEvent{LevelID: l.def.ID, X: x})
		l.events.emit(SoundEvent{Cue: core.CueCheckpoint})
		l.events.emit(HintEvent{Text: fmt.Sprintf("Checkpoint purchased (-%d)", l.run.cpCost)})
		l.log.Debug("checkpoint purchased", "level", l.def.ID, "x", x, "cost", l.run.cpCost)
		return
	}
	if l.combat.checkpointHint.Allow(now) {
		l.events.emit(HintEvent{Text: fmt.Sprintf("Need %d seeds for checkpoint", l.run.cpCost)})
	}
}

// ExitGate returns the exit gate circle.
func (l *Level) ExitGate() core.Circle {
	return core.Circle{Pos: core.Vec2{X: l.def.ExitGateX, Y: exitGateY}, Radius: exitGateRadius}
}

// ExitOpen reports whether touching the gate completes the level.
func (l *Level) ExitOpen() bool {
	return l.run.collected >= l.run.quota && l.bossEntity() == nil
}

func (l *Level) checkExit(now float64) {
	if !l.player.Circle().Overlaps(l.ExitGate()) {
		return
	}
	if l.run.collected < l.run.quota {
		if l.combat.exitHint.Allow(now) {
			l.events.emit(HintEvent{Text: fmt.Sprintf("Need %d more food", l.run.quota-l.run.collected)})
			l.events.emit(SoundEvent{Cue: core.CuePortalPulse})
		}
		return
	}
	if l.bossEntity() != nil {
		if l.combat.exitHint.Allow(now) {
			l.events.emit(HintEvent{Text: "Defeat the Arcane Boss core"})
		}
		return
	}
	l.completeLevel()
}

func (l *Level) updateTimer(dtMs float64) {
	if !l.run.timed {
		return
	}
	l.run.timeLeftMs -= dtMs
	if l.run.timeLeftMs <= 0 {
		l.gameOver("Time expired")
	}
}

func (l *Level) sweep() {
	for _, g := range l.groups() {
		g.Sweep()
	}
}

func (l *Level) groups() []*Group {
	return []*Group{l.foods, l.pickups, l.fountains, l.hazards, l.enemies, l.holes, l.projectiles, l.shots}
}

// Score returns the completion score for the current run state.
func (l *Level) Score() int {
	w := l.bal.Economy.Score
	timeLeftSec := 0.0
	if l.run.timed {
		timeLeftSec = l.run.timeLeftMs / 1000
	}
	score := l.run.collected*w.Collected +
		l.run.seeds*w.Seeds +
		l.run.universeSeeds*w.UniverseSeeds +
		int(max(0, math.Floor(timeLeftSec*w.TimeLeft))) -
		l.run.deaths*w.DeathPenalty
	return max(0, score)
}

// completeLevel is the success half of the terminal transition.
func (l *Level) completeLevel() {
	if l.run.ended {
		return
	}
	l.run.ended = true
	l.run.completed = true
	l.run.score = l.Score()

	before, err := l.store.Load()
	if err != nil {
		l.log.Warn("save load failed before merge", "error", err)
		before = progress.Defaults()
	}
	unlock := l.def.Milestone && l.def.UnlocksAbility != "" && before.HighestUnlocked <= l.def.ID

	earned := progress.Earned{
		Seeds:         l.run.seeds,
		UniverseSeeds: l.run.universeSeeds,
		BloomsCast:    l.run.bloomsCast,
	}
	if _, err := l.store.Merge(l.def.ID, l.run.score, earned); err != nil {
		l.log.Warn("save merge failed", "level", l.def.ID, "error", err)
	}

	if unlock {
		l.events.emit(AbilityUnlockedEvent{Ability: ability.ID(l.def.UnlocksAbility)})
	}
	l.events.emit(LevelCompletedEvent{LevelID: l.def.ID, Score: l.run.score})
	l.log.Info("level completed",
		"level", l.def.ID,
		"score", l.run.score,
		"deaths", l.run.deaths,
		"ms", l.now,
	)
}

// gameOver is the failure half of the terminal transition.
func (l *Level) gameOver(reason string) {
	if l.run.ended {
		return
	}
	l.run.ended = true
	l.run.gameOver = true
	l.run.reason = reason
	l.events.emit(GameOverEvent{LevelID: l.def.ID, Reason: reason})
	l.log.Info("game over", "level", l.def.ID, "reason", reason, "ms", l.now)
}

// bossEntity returns the boss while it is alive, nil otherwise.
func (l *Level) bossEntity() *Entity {
	if !l.bossSpawned {
		return nil
	}
	b := l.arena.Get(l.boss)
	if b == nil || b.Health.HP <= 0 {
		return nil
	}
	return b
}

func (l *Level) trySpawnBoss(now float64) {
	if !l.def.Boss || l.bossSpawned {
		return
	}
	if l.run.collected < int(math.Floor(float64(l.run.quota)*bossTriggerRatio)) {
		return
	}
	l.bossSpawned = true
	exit := l.def.ExitGateX
	l.boss = l.arena.Spawn(newBoss(core.Vec2{X: exit - 280, Y: 220}, now))
	l.holes.Add(newWormhole(core.Vec2{X: exit - 480, Y: 300}, WormholeConfig{
		PullRadius:      230,
		PullStrength:    math.Round(680 * l.diff.WormholePull),
		ShootIntervalMs: math.Round(1250 * l.diff.WormholeShootInterval),
		ProjectileSpeed: math.Round(300 * l.diff.ProjectileSpeed),
	}, now, l.rng))
	l.events.emit(BossSpawnedEvent{MaxHP: bossMaxHP})
	l.events.emit(HintEvent{Text: "Arcane Boss awakened"})
	l.log.Info("boss spawned", "level", l.def.ID, "ms", now)
}

// world implementation

func (l *Level) spawnProjectile(pos, vel core.Vec2, src ProjSource, damage float64) {
	radius := float64(projectileRadius)
	if src == FromWormhole {
		radius = wormholeShotRadius
	}
	l.projectiles.Add(Entity{
		Kind:   KindProjectile,
		Pos:    pos,
		Vel:    vel,
		Radius: radius,
		Proj:   &ProjState{Source: src, Owner: OwnerEnemy, Damage: damage},
	})
}

func (l *Level) after(delayMs float64, owner Handle, fn func(now float64, e *Entity)) {
	l.sched.At(l.now+delayMs, owner, fn)
}

func (l *Level) rand() *rand.Rand {
	return l.rng
}

func (l *Level) emit(ev Event) {
	l.events.emit(ev)
}

func (l *Level) damageTable() config.DamageTable {
	return l.bal.Damage
}

// damageEnemy applies damage from src and reports whether this call killed
// the target. Immune targets flash and take nothing.
func (l *Level) damageEnemy(h Handle, e *Entity, amount float64, src DamageSource) bool {
	if e == nil || !e.Active || e.Health == nil {
		return false
	}
	if !e.Caps.Accepts(src) {
		if e.Enemy != nil {
			e.Enemy.ImmuneUntil = l.now + 130
		}
		return false
	}
	if e.Kind == KindBoss {
		_, first := bossDamage(e, amount, l.now)
		if first {
			l.events.emit(BossDefeatedEvent{})
			l.sched.At(l.now+bossFadeMs, h, func(_ float64, _ *Entity) {
				l.arena.Destroy(h)
			})
			l.log.Info("boss defeated", "level", l.def.ID, "ms", l.now)
		}
		return first
	}
	if e.Health.Apply(amount) {
		l.arena.Destroy(h)
		return true
	}
	e.Flash = true
	l.sched.At(l.now+80, h, func(_ float64, self *Entity) {
		self.Flash = false
	})
	return false
}

func (l *Level) spawnBossAdds(phase int) {
	count := 1
	pattern := PatternSpread
	if phase >= 3 {
		count = 2
		pattern = PatternBurst
	}
	for i := range count {
		pos := core.Vec2{X: l.def.ExitGateX - 380 + float64(i)*80, Y: 180 + float64(i)*80}
		l.enemies.Add(newPredator(pos, PredatorConfig{
			Speed:           math.Round(170 * l.diff.PredatorSpeed),
			ShootIntervalMs: max(300, math.Round(980*l.diff.PredatorShootInterval)),
			ProjectileSpeed: math.Round(360 * l.diff.ProjectileSpeed),
			HP:              90,
			Pattern:         pattern,
		}, l.now, l.rng))
	}
}
