package loopy

import (
	"math"
	"testing"

	"github.com/vovakirdan/loopy/internal/ability"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/progress"
)

// testDef is a level with nothing in it but the player, food at the start
// point and two checkpoints.
func testDef(id int) config.LevelDef {
	return config.LevelDef{
		ID:          id,
		Name:        "Test Reef",
		Biome:       "jungle",
		Quota:       3,
		ExitGateX:   2000,
		PlayerStart: config.Point{X: 200, Y: 350},
		Checkpoints: []float64{600, 1200},
	}
}

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 7}
}

func newTestLevel(def config.LevelDef, opts ...Option) *Level {
	l := New(def, opts...)
	l.Reset(testConfig())
	return l
}

func countEvents[T Event](events []Event) int {
	n := 0
	for _, ev := range events {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

func TestResetBuildsEmptyLevel(t *testing.T) {
	l := newTestLevel(testDef(1))
	snap := l.Snapshot(false)
	if snap.Objective.Quota != 3 {
		t.Errorf("quota = %d, expected 3", snap.Objective.Quota)
	}
	if snap.Economy.Lives != 3 {
		t.Errorf("lives = %d, expected 3", snap.Economy.Lives)
	}
	if snap.Objective.TimeLeftSec != nil {
		t.Error("untimed level should report no time left")
	}
	if snap.Economy.CheckpointCost != 2 {
		t.Errorf("checkpoint cost = %d, expected 2", snap.Economy.CheckpointCost)
	}
	if snap.Entities.Predators != 0 || snap.Entities.Wormholes != 0 || snap.Entities.Foods != 0 {
		t.Errorf("unexpected population: %+v", snap.Entities)
	}
	if len(snap.Player.Unlocked) != 0 {
		t.Errorf("level 1 should unlock nothing, got %v", snap.Player.Unlocked)
	}
}

func TestTimedLevelCountsDown(t *testing.T) {
	def := testDef(1)
	def.TimeLimitSec = 60
	l := newTestLevel(def)
	l.AdvanceTime(1000, core.NewInputFrame())

	left := l.Snapshot(false).Objective.TimeLeftSec
	if left == nil {
		t.Fatal("timed level should report time left")
	}
	if math.Abs(*left-59) > 1e-6 {
		t.Errorf("time left = %v, expected 59", *left)
	}
}

func TestTimeExpiryEndsRun(t *testing.T) {
	def := testDef(1)
	def.TimeLimitSec = 45
	l := newTestLevel(def)
	l.AdvanceTime(46000, core.NewInputFrame())

	st := l.State()
	if !st.GameOver || st.Reason != "Time expired" {
		t.Errorf("state = %+v, expected time expiry", st)
	}
	if n := countEvents[GameOverEvent](l.DrainEvents()); n != 1 {
		t.Errorf("got %d game-over events, expected 1", n)
	}
}

func TestCompletionMergesOnce(t *testing.T) {
	def := testDef(1)
	def.Foods = []config.FoodRule{{Type: "berry", X: 200, Y: 350, Count: 3, Movement: "static"}}
	store := NewMemoryStore()
	l := newTestLevel(def, WithStore(store))

	l.Step(core.NewInputFrame())
	if got := l.Snapshot(false).Objective.Collected; got != 3 {
		t.Fatalf("collected = %d, expected 3", got)
	}

	l.TeleportPlayer(core.Vec2{X: 2000, Y: 350})
	for range 30 {
		l.Step(core.NewInputFrame())
	}

	events := l.DrainEvents()
	if n := countEvents[LevelCompletedEvent](events); n != 1 {
		t.Errorf("got %d completion events, expected 1", n)
	}
	if !l.State().Completed {
		t.Error("level should be completed")
	}
	if store.Merges() != 1 {
		t.Errorf("store merged %d times, expected 1", store.Merges())
	}
	save, _ := store.Load()
	if save.HighestUnlocked < 2 {
		t.Errorf("HighestUnlocked = %d, expected >= 2", save.HighestUnlocked)
	}
	if save.LevelBest[1] != l.State().Score || l.State().Score <= 0 {
		t.Errorf("best = %d, score = %d", save.LevelBest[1], l.State().Score)
	}
}

func TestExitClosedUntilQuota(t *testing.T) {
	l := newTestLevel(testDef(1))
	l.TeleportPlayer(core.Vec2{X: 2000, Y: 350})
	l.Step(core.NewInputFrame())

	if l.State().Completed {
		t.Fatal("exit should stay closed below quota")
	}
	found := false
	for _, ev := range l.DrainEvents() {
		if h, ok := ev.(HintEvent); ok && h.Text == "Need 3 more food" {
			found = true
		}
	}
	if !found {
		t.Error("expected a quota hint at the closed exit")
	}
}

func TestMilestoneUnlocksAbilityOnce(t *testing.T) {
	def := testDef(4)
	def.Milestone = true
	def.UnlocksAbility = string(ability.Dash)
	store := NewMemoryStore()

	l := newTestLevel(def, WithStore(store))
	l.ForceComplete()
	events := l.DrainEvents()
	if n := countEvents[AbilityUnlockedEvent](events); n != 1 {
		t.Fatalf("got %d unlock events on first clear, expected 1", n)
	}
	if _, ok := events[len(events)-1].(LevelCompletedEvent); !ok {
		t.Error("completion should be the last event")
	}

	again := newTestLevel(def, WithStore(store))
	again.ForceComplete()
	if n := countEvents[AbilityUnlockedEvent](again.DrainEvents()); n != 0 {
		t.Errorf("replay emitted %d unlock events, expected 0", n)
	}
	if store.Merges() != 2 {
		t.Errorf("Merges() = %d, expected 2", store.Merges())
	}
}

func TestSaveUnlocksAbilitiesOnLaterLevels(t *testing.T) {
	store := NewMemoryStoreWith(progress.SaveState{HighestUnlocked: 9, LevelBest: map[int]int{}})
	l := newTestLevel(testDef(1), WithStore(store))

	unlocked := l.Player().Unlocked()
	if !ability.Contains(unlocked, ability.Dash) || !ability.Contains(unlocked, ability.Glide) {
		t.Errorf("unlocked = %v, expected dash and glide", unlocked)
	}
	if l.Player().PrimaryAbility() != ability.Glide {
		t.Errorf("primary = %q, expected glide", l.Player().PrimaryAbility())
	}
}

func TestGameOverOnce(t *testing.T) {
	l := newTestLevel(testDef(1))
	for range 5 {
		l.KillPlayer()
		l.AdvanceTime(l.bal.Player.RespawnShieldMs+100, core.NewInputFrame())
	}
	l.Step(core.NewInputFrame())

	st := l.State()
	if !st.GameOver || st.Reason != "Out of lives" {
		t.Fatalf("state = %+v, expected out of lives", st)
	}
	events := l.DrainEvents()
	if n := countEvents[GameOverEvent](events); n != 1 {
		t.Errorf("got %d game-over events, expected 1", n)
	}
	if n := countEvents[RespawnEvent](events); n != 2 {
		t.Errorf("got %d respawns, expected 2", n)
	}
	if d := l.Snapshot(false).Economy.Deaths; d != 3 {
		t.Errorf("deaths = %d, expected 3", d)
	}
}

func TestDamageIgnoredWhileInvulnerable(t *testing.T) {
	l := newTestLevel(testDef(1))
	now := l.Now()
	l.applyPlayerDamage(14, now)
	l.applyPlayerDamage(14, now)

	if l.Player().Health != 86 {
		t.Errorf("health = %v, expected 86", l.Player().Health)
	}
	if n := countEvents[PlayerDamagedEvent](l.DrainEvents()); n != 1 {
		t.Errorf("got %d damage events, expected 1", n)
	}
}

func TestKillPlayerRespectsProtection(t *testing.T) {
	tests := []struct {
		name      string
		protect   func(l *Level)
		wantLives int
	}{
		{"unprotected", func(*Level) {}, 2},
		{"invulnerable", func(l *Level) { l.applyPlayerDamage(14, l.Now()) }, 3},
		{"shielded", func(l *Level) { l.combat.shieldUntil = l.Now() + 500 }, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLevel(testDef(1))
			tt.protect(l)
			l.KillPlayer()
			if lives := l.Snapshot(false).Economy.Lives; lives != tt.wantLives {
				t.Errorf("lives = %d, expected %d", lives, tt.wantLives)
			}
		})
	}
}

func TestKillPlayerBlockedByRespawnWindow(t *testing.T) {
	l := newTestLevel(testDef(1))
	l.KillPlayer()
	l.KillPlayer()
	if d := l.Snapshot(false).Economy.Deaths; d != 1 {
		t.Errorf("deaths = %d, expected 1 while the respawn shield is up", d)
	}
}

func TestCheckpointPurchase(t *testing.T) {
	l := newTestLevel(testDef(1))
	l.TeleportPlayer(core.Vec2{X: 610, Y: 350})
	l.Step(core.NewInputFrame())
	if snap := l.Snapshot(false); snap.Economy.CheckpointCursor != 0 {
		t.Fatal("checkpoint bought without seeds")
	}

	l.AddSeeds(5)
	l.Step(core.NewInputFrame())
	snap := l.Snapshot(false)
	if snap.Economy.CheckpointCursor != 1 || snap.Economy.Seeds != 3 {
		t.Errorf("cursor = %d, seeds = %d; expected 1, 3", snap.Economy.CheckpointCursor, snap.Economy.Seeds)
	}
	if snap.Economy.CurrentCheckpoint.X != 600 {
		t.Errorf("checkpoint x = %v, expected 600", snap.Economy.CurrentCheckpoint.X)
	}
	if n := countEvents[CheckpointReachedEvent](l.DrainEvents()); n != 1 {
		t.Errorf("got %d checkpoint events, expected 1", n)
	}

	l.TeleportPlayer(core.Vec2{X: 900, Y: 200})
	l.KillPlayer()
	if p := l.Player().Pos; p.X != 600 || p.Y != 350 {
		t.Errorf("respawned at %+v, expected the checkpoint", p)
	}
}

func TestJumpToNextCheckpoint(t *testing.T) {
	l := newTestLevel(testDef(1))
	for i := range 2 {
		if !l.JumpToNextCheckpoint() {
			t.Fatalf("jump %d failed", i)
		}
	}
	if l.JumpToNextCheckpoint() {
		t.Error("no checkpoint should be left")
	}
	if c := l.Snapshot(false).Economy.CheckpointCursor; c != 2 {
		t.Errorf("cursor = %d, expected 2", c)
	}
}

func TestAdvanceTimeSubSteps(t *testing.T) {
	l := newTestLevel(testDef(1))
	in := core.NewInputFrame()
	in.Set(core.ActionPrimary)
	l.AdvanceTime(100, in)

	snap := l.Snapshot(false)
	if snap.Tick != 6 {
		t.Errorf("ticks = %d, expected 6", snap.Tick)
	}
	if math.Abs(snap.NowMs-100) > 1e-6 {
		t.Errorf("now = %v, expected 100", snap.NowMs)
	}
	// The tap reaches the first sub-step only: one shot, no bomb.
	if snap.Entities.Shots != 1 {
		t.Errorf("shots = %d, expected 1", snap.Entities.Shots)
	}
	if snap.Combat.LastAction != "shot" || snap.Combat.PendingTaps != 1 {
		t.Errorf("combat = %+v, expected one pending shot tap", snap.Combat)
	}
}

func TestPauseFreezesClock(t *testing.T) {
	l := newTestLevel(testDef(1))
	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)

	l.Step(pause)
	if !l.State().Paused {
		t.Fatal("expected paused state")
	}
	l.Step(core.NewInputFrame())
	if l.Now() != 0 {
		t.Errorf("clock advanced while paused: %v", l.Now())
	}
	l.Step(pause)
	l.Step(core.NewInputFrame())
	if l.State().Paused || l.Now() == 0 {
		t.Error("unpausing should resume the clock")
	}
}

func TestDeterminism(t *testing.T) {
	cat := config.MustDefaultLevels()
	def, err := cat.Level(9)
	if err != nil {
		t.Fatal(err)
	}

	run := func() (uint64, DebugSnapshot) {
		l := newTestLevel(def)
		for i := range 900 {
			in := core.NewInputFrame()
			in.SetMove(1, math.Sin(float64(i)/40))
			if i%17 == 0 {
				in.Set(core.ActionPrimary)
			}
			if i%200 > 120 {
				in.Set(core.ActionHold)
			}
			l.Step(in)
			l.DrainEvents()
		}
		snap := l.Snapshot(true)
		return snap.Hash(), snap
	}

	h1, s1 := run()
	h2, s2 := run()
	if h1 != h2 {
		t.Errorf("hashes differ: %d vs %d", h1, h2)
	}
	if s1.Player.X != s2.Player.X || s1.Player.Y != s2.Player.Y {
		t.Error("player positions differ")
	}
	if s1.Score != s2.Score || s1.Economy != s2.Economy {
		t.Error("run state differs")
	}
}

func TestRenderPlacesPlayer(t *testing.T) {
	l := newTestLevel(testDef(1))
	screen := core.NewScreen(80, 24)
	l.Render(screen)

	// 22 viewport rows give 30 world units per row and 15 per column.
	if got := screen.Get(13, 13); got != glyphPlayer {
		t.Errorf("cell (13,13) = %q, expected the player glyph", got)
	}
}

func TestFreezeDiagnostics(t *testing.T) {
	var d freezeDiag
	for range 10 {
		d.record(16)
	}
	if d.snapshot().SustainedStall {
		t.Fatal("steady frames should not flag a stall")
	}
	for range 4 {
		d.record(150)
	}
	snap := d.snapshot()
	if !snap.SustainedStall || snap.WorstStalls != 4 || snap.LongFrameCount != 4 {
		t.Errorf("diagnostics = %+v", snap)
	}
	if snap.MaxDeltaMs != 150 {
		t.Errorf("max delta = %v, expected 150", snap.MaxDeltaMs)
	}
}
