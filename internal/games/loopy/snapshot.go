package loopy

import (
	"math"

	"github.com/vovakirdan/loopy/internal/ability"
)

// Freeze thresholds for frame diagnostics, in milliseconds.
const (
	longFrameMs       = 34
	stallFrameMs      = 120
	sustainedStalls   = 4
	sustainedLongRate = 0.35
)

// freezeDiag accumulates frame timing statistics.
type freezeDiag struct {
	updates     int
	maxDeltaMs  float64
	longFrames  int
	stallRun    int
	worstStalls int
}

func (d *freezeDiag) record(dtMs float64) {
	d.updates++
	d.maxDeltaMs = max(d.maxDeltaMs, dtMs)
	if dtMs >= longFrameMs {
		d.longFrames++
	}
	if dtMs >= stallFrameMs {
		d.stallRun++
		d.worstStalls = max(d.worstStalls, d.stallRun)
	} else {
		d.stallRun = 0
	}
}

// FreezeDiagnostics is the frame timing part of a DebugSnapshot.
type FreezeDiagnostics struct {
	MaxDeltaMs        float64 `json:"maxDeltaMs"`
	LongFrameCount    int     `json:"longFrameCount"`
	UpdateCount       int     `json:"updateCount"`
	ConsecutiveStalls int     `json:"consecutiveStallFrames"`
	WorstStalls       int     `json:"worstConsecutiveStallFrames"`
	SustainedStall    bool    `json:"sustainedStallDetected"`
}

func (d freezeDiag) snapshot() FreezeDiagnostics {
	ratio := 0.0
	if d.updates > 0 {
		ratio = float64(d.longFrames) / float64(d.updates)
	}
	return FreezeDiagnostics{
		MaxDeltaMs:        d.maxDeltaMs,
		LongFrameCount:    d.longFrames,
		UpdateCount:       d.updates,
		ConsecutiveStalls: d.stallRun,
		WorstStalls:       d.worstStalls,
		SustainedStall:    d.worstStalls >= sustainedStalls || ratio >= sustainedLongRate,
	}
}

// PlayerView is the player part of a DebugSnapshot.
type PlayerView struct {
	X            float64            `json:"x"`
	Y            float64            `json:"y"`
	VelocityX    float64            `json:"velocityX"`
	VelocityY    float64            `json:"velocityY"`
	Facing       int                `json:"facingDirection"`
	Health       float64            `json:"health"`
	MaxHealth    float64            `json:"maxHealth"`
	Invulnerable bool               `json:"invulnerable"`
	Gliding      bool               `json:"gliding"`
	Unlocked     []string           `json:"unlockedAbilities"`
	Primary      string             `json:"primaryAbility"`
	Cooldowns    map[string]float64 `json:"cooldownRemainingMs"`
}

// ObjectiveView is the quota and timer part of a DebugSnapshot.
type ObjectiveView struct {
	Collected   int      `json:"collected"`
	Quota       int      `json:"quota"`
	TimeLeftSec *float64 `json:"timeLeftSec"`
}

// PointView is a plain coordinate.
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EconomyView is the lives, seeds and checkpoint part of a DebugSnapshot.
type EconomyView struct {
	Lives             int       `json:"livesRemaining"`
	Deaths            int       `json:"deaths"`
	Seeds             int       `json:"seedCount"`
	UniverseSeeds     int       `json:"universeSeedCount"`
	BloomMeter        float64   `json:"bloomMeter"`
	BloomsCast        int       `json:"bloomsCast"`
	CheckpointCost    int       `json:"checkpointCost"`
	CheckpointCursor  int       `json:"checkpointCursor"`
	CurrentCheckpoint PointView `json:"currentCheckpoint"`
}

// CombatView is the primary-input weapon part of a DebugSnapshot.
type CombatView struct {
	PendingTaps    int     `json:"pendingComboTaps"`
	LastAction     string  `json:"lastResolvedAction"`
	LastActionAt   float64 `json:"lastResolvedActionAt"`
	BlockedReason  string  `json:"lastBlockedReason"`
	BlockedAt      float64 `json:"lastBlockedAt"`
	HoldIntervalMs float64 `json:"holdShotIntervalMs"`
	NextHoldInMs   float64 `json:"nextHoldShotInMs"`
}

// EntityCounts is the population part of a DebugSnapshot.
type EntityCounts struct {
	Foods             int      `json:"foods"`
	Predators         int      `json:"predators"`
	Wormholes         int      `json:"wormholes"`
	Hazards           int      `json:"hazards"`
	ProjectilesEnemy  int      `json:"projectilesEnemy"`
	ProjectilesPlayer int      `json:"projectilesPlayer"`
	ProjectilesTotal  int      `json:"projectilesTotal"`
	Shots             int      `json:"glitterShots"`
	Pickups           int      `json:"pickups"`
	Fountains         int      `json:"fountains"`
	BossAlive         bool     `json:"bossAlive"`
	BossHPRatio       *float64 `json:"bossHpRatio"`
	BossPhase         *int     `json:"bossPhase"`
}

// StatusWindows is the timed-effect part of a DebugSnapshot.
type StatusWindows struct {
	ShieldRemainingMs float64 `json:"shieldRemainingMs"`
	BloomRemainingMs  float64 `json:"bloomRemainingMs"`
	OceanTrapActive   bool    `json:"oceanTrapActive"`
	OceanEscapeTaps   int     `json:"oceanEscapeProgress"`
	OceanEscapeGoal   int     `json:"oceanEscapeGoal"`
}

// Body is one drawable entity in world coordinates.
type Body struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Owner  string  `json:"owner,omitempty"`
	Flash  bool    `json:"flash,omitempty"`
	Warn   bool    `json:"warn,omitempty"`
}

// DebugSnapshot is the read-only view of a running level. Coordinates have
// the origin top-left, +x right and +y down.
type DebugSnapshot struct {
	LevelID   int               `json:"levelId"`
	Tick      uint64            `json:"tick"`
	NowMs     float64           `json:"nowMs"`
	Completed bool              `json:"completed"`
	GameOver  bool              `json:"gameOver"`
	Reason    string            `json:"reason,omitempty"`
	Paused    bool              `json:"paused"`
	Score     int               `json:"score"`
	Player    PlayerView        `json:"player"`
	Objective ObjectiveView     `json:"objective"`
	Economy   EconomyView       `json:"economy"`
	Combat    CombatView        `json:"spaceCombat"`
	Entities  EntityCounts      `json:"entities"`
	Status    StatusWindows     `json:"statusWindows"`
	Freeze    FreezeDiagnostics `json:"freezeDiagnostics"`
	Bodies    []Body            `json:"bodies,omitempty"`
}

// Snapshot returns the debug snapshot. Bodies are included only when
// withBodies is set.
func (l *Level) Snapshot(withBodies bool) DebugSnapshot {
	now := l.now
	p := l.player

	cooldowns := make(map[string]float64, len(ability.All()))
	for _, id := range ability.All() {
		cooldowns[string(id)] = p.CooldownRemaining(id, now)
	}
	unlocked := make([]string, 0, len(p.unlocked))
	for _, id := range p.unlocked {
		unlocked = append(unlocked, string(id))
	}

	snap := DebugSnapshot{
		LevelID:   l.def.ID,
		Tick:      l.ticks,
		NowMs:     now,
		Completed: l.run.completed,
		GameOver:  l.run.gameOver,
		Reason:    l.run.reason,
		Paused:    l.paused,
		Score:     l.run.score,
		Player: PlayerView{
			X:            p.Pos.X,
			Y:            p.Pos.Y,
			VelocityX:    p.Vel.X,
			VelocityY:    p.Vel.Y,
			Facing:       p.Facing,
			Health:       p.Health,
			MaxHealth:    p.MaxHealth,
			Invulnerable: p.IsInvulnerable(now),
			Gliding:      p.Gliding(now),
			Unlocked:     unlocked,
			Primary:      string(p.PrimaryAbility()),
			Cooldowns:    cooldowns,
		},
		Objective: ObjectiveView{
			Collected: l.run.collected,
			Quota:     l.run.quota,
		},
		Economy: EconomyView{
			Lives:             l.run.lives,
			Deaths:            l.run.deaths,
			Seeds:             l.run.seeds,
			UniverseSeeds:     l.run.universeSeeds,
			BloomMeter:        l.run.bloomMeter,
			BloomsCast:        l.run.bloomsCast,
			CheckpointCost:    l.run.cpCost,
			CheckpointCursor:  l.run.cpCursor,
			CurrentCheckpoint: PointView{X: l.run.checkpoint.X, Y: l.run.checkpoint.Y},
		},
		Combat: CombatView{
			PendingTaps:    l.combat.combo.Pending(now),
			BlockedReason:  l.combat.blockedReason,
			BlockedAt:      l.combat.blockedAt,
			LastActionAt:   l.combat.lastActionAt,
			HoldIntervalMs: l.combat.holdIntervalMs,
			NextHoldInMs:   max(0, l.combat.nextHoldAt-now),
		},
		Status: StatusWindows{
			ShieldRemainingMs: max(0, l.combat.shieldUntil-now),
			BloomRemainingMs:  max(0, l.combat.bloomUntil-now),
		},
		Freeze: l.diag.snapshot(),
	}
	if l.combat.lastAction != ability.ComboNone {
		snap.Combat.LastAction = l.combat.lastAction.String()
	}
	if l.run.timed {
		left := max(0, l.run.timeLeftMs/1000)
		snap.Objective.TimeLeftSec = &left
	}
	if l.trap != nil {
		snap.Status.OceanTrapActive = true
		snap.Status.OceanEscapeTaps = l.trap.taps
		snap.Status.OceanEscapeGoal = l.trap.goal
	}

	ec := &snap.Entities
	ec.Foods = l.foods.Count()
	ec.Predators = l.enemies.Count()
	ec.Wormholes = l.holes.Count()
	ec.Hazards = l.hazards.Count()
	ec.Shots = l.shots.Count()
	ec.Pickups = l.pickups.Count()
	ec.Fountains = l.fountains.Count()
	l.projectiles.Each(func(_ Handle, e *Entity) {
		if e.Proj.Owner == OwnerPlayer {
			ec.ProjectilesPlayer++
		} else {
			ec.ProjectilesEnemy++
		}
	})
	ec.ProjectilesTotal = ec.ProjectilesEnemy + ec.ProjectilesPlayer
	if b := l.bossEntity(); b != nil {
		ratio := b.Health.Ratio()
		phase := BossPhase(*b.Health)
		ec.BossAlive = true
		ec.BossHPRatio = &ratio
		ec.BossPhase = &phase
	}

	if withBodies {
		snap.Bodies = l.Bodies()
	}
	return snap
}

// Bodies lists every live entity in draw order: environment first, then
// enemies, then projectiles.
func (l *Level) Bodies() []Body {
	out := make([]Body, 0, l.arena.Len())
	add := func(_ Handle, e *Entity) {
		b := Body{Kind: e.Kind.String(), X: e.Pos.X, Y: e.Pos.Y, Radius: e.Radius, Flash: e.Flash}
		if e.Proj != nil && e.Proj.Owner == OwnerPlayer {
			b.Owner = "player"
		} else if e.Proj != nil {
			b.Owner = "enemy"
		}
		if e.Enemy != nil {
			b.Warn = e.WindingUp(l.now)
		}
		if e.Pickup != nil {
			b.Kind = e.Pickup.Type.String()
		}
		out = append(out, b)
	}
	for _, g := range []*Group{l.hazards, l.foods, l.pickups, l.fountains, l.holes, l.enemies} {
		g.Each(add)
	}
	if b := l.arena.Get(l.boss); b != nil && l.bossSpawned {
		add(l.boss, b)
	}
	l.projectiles.Each(add)
	l.shots.Each(add)
	return out
}

// Hash returns a hash of the snapshot for determinism testing.
// Floats are quantized to 1/100 of a unit.
func (snap *DebugSnapshot) Hash() uint64 {
	q := func(v float64) uint64 {
		return uint64(int64(math.Round(v * 100))) //#nosec G115 -- hash computation
	}
	b := func(v bool) uint64 {
		if v {
			return 1
		}
		return 0
	}

	h := snap.Tick
	h = h*31 + uint64(snap.LevelID) //#nosec G115 -- hash computation
	h = h*31 + q(snap.NowMs)
	h = h*31 + b(snap.Completed)
	h = h*31 + b(snap.GameOver)
	h = h*31 + uint64(snap.Score) //#nosec G115 -- hash computation
	h = h*31 + q(snap.Player.X)
	h = h*31 + q(snap.Player.Y)
	h = h*31 + q(snap.Player.VelocityX)
	h = h*31 + q(snap.Player.VelocityY)
	h = h*31 + q(snap.Player.Health)
	h = h*31 + uint64(snap.Objective.Collected)   //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Economy.Lives)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Economy.Seeds)         //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Economy.UniverseSeeds) //#nosec G115 -- hash computation
	h = h*31 + q(snap.Economy.BloomMeter)
	h = h*31 + uint64(snap.Entities.Predators)        //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Entities.ProjectilesTotal) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.Entities.Shots)            //#nosec G115 -- hash computation

	for _, body := range snap.Bodies {
		h = h*31 + uint64(len(body.Kind)) //#nosec G115 -- hash computation
		h = h*31 + q(body.X)
		h = h*31 + q(body.Y)
	}
	return h
}
