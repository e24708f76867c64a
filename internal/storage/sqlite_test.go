package storage

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Stored(); !errors.Is(err, ErrNoSave) {
		t.Errorf("Stored() error = %v, expected ErrNoSave", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st.HighestUnlocked != 1 {
		t.Errorf("HighestUnlocked = %d, expected 1", st.HighestUnlocked)
	}
	if st.Settings.MusicVolume != progress.DefaultMusicVolume {
		t.Errorf("MusicVolume = %v, expected default", st.Settings.MusicVolume)
	}
}

func TestMergePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if _, err := store.Merge(3, 560, progress.Earned{Seeds: 8, UniverseSeeds: 1, BloomsCast: 1}); err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	merged, err := store.Merge(3, 420, progress.Earned{Seeds: 3})
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	if merged.LevelBest[3] != 560 {
		t.Errorf("best = %d, expected 560", merged.LevelBest[3])
	}
	store.Close()

	// Reopen and check that the data survived.
	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st.HighestUnlocked != 4 {
		t.Errorf("HighestUnlocked = %d, expected 4", st.HighestUnlocked)
	}
	if st.LevelBest[3] != 560 {
		t.Errorf("best = %d, expected 560", st.LevelBest[3])
	}
	if st.Totals.Seeds != 11 || st.Totals.UniverseSeeds != 1 || st.Totals.BloomsCast != 1 {
		t.Errorf("totals = %+v", st.Totals)
	}
}

func TestReplaceSanitizes(t *testing.T) {
	store := openTestStore(t)
	err := store.Replace(progress.SaveState{
		HighestUnlocked: 40,
		LevelBest:       map[int]int{2: 100, 30: 5},
		Settings:        progress.Settings{MusicVolume: 3, SfxVolume: 0.2},
	})
	if err != nil {
		t.Fatalf("Replace() failed: %v", err)
	}

	st, err := store.Stored()
	if err != nil {
		t.Fatalf("Stored() failed: %v", err)
	}
	if st.HighestUnlocked != 19 {
		t.Errorf("HighestUnlocked = %d, expected 19", st.HighestUnlocked)
	}
	if _, ok := st.LevelBest[30]; ok {
		t.Error("unknown level score was persisted")
	}
	if st.Settings.MusicVolume != 1 || st.Settings.SfxVolume != 0.2 {
		t.Errorf("settings = %+v", st.Settings)
	}
}

func TestSaveSettingsKeepsProgress(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Merge(1, 300, progress.Earned{}); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSettings(progress.Settings{MusicVolume: 0.1, SfxVolume: 0.9}); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.LevelBest[1] != 300 || st.HighestUnlocked != 2 {
		t.Errorf("progress lost: %+v", st)
	}
	if st.Settings.SfxVolume != 0.9 {
		t.Errorf("SfxVolume = %v, expected 0.9", st.Settings.SfxVolume)
	}
}

func TestRecordAndQueryRuns(t *testing.T) {
	store := openTestStore(t)

	id, err := store.RecordRun(RunRecord{LevelID: 2, Outcome: OutcomeCompleted, Score: 900, Deaths: 1})
	if err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	if id == "" {
		t.Fatal("RecordRun() should assign an id")
	}
	if _, err := store.RecordRun(RunRecord{LevelID: 2, Outcome: OutcomeGameOver, Reason: "time"}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(RunRecord{LevelID: 5}); err != nil {
		t.Fatal(err)
	}

	runs, err := store.RecentRuns(2, 10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs for level 2, expected 2", len(runs))
	}
	if runs[0].Outcome != OutcomeGameOver || runs[0].Reason != "time" {
		t.Errorf("newest run = %+v", runs[0])
	}

	all, err := store.RecentRuns(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("got %d runs in total, expected 3", len(all))
	}
	if all[0].Outcome != OutcomeAbandoned {
		t.Errorf("empty outcome = %q, expected %q", all[0].Outcome, OutcomeAbandoned)
	}

	r, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if r == nil || r.Score != 900 || r.Deaths != 1 {
		t.Errorf("RunByID() = %+v", r)
	}

	missing, err := store.RunByID("nope")
	if err != nil || missing != nil {
		t.Errorf("RunByID(missing) = %+v, %v", missing, err)
	}
}

func TestAllLevelStats(t *testing.T) {
	store := openTestStore(t)
	for _, r := range []RunRecord{
		{LevelID: 1, Outcome: OutcomeCompleted, Score: 100},
		{LevelID: 1, Outcome: OutcomeGameOver, Score: 0},
		{LevelID: 1, Outcome: OutcomeCompleted, Score: 200},
		{LevelID: 4, Outcome: OutcomeCompleted, Score: 50},
	} {
		if _, err := store.RecordRun(r); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	s1 := stats[1]
	if s1 == nil {
		t.Fatal("missing stats for level 1")
	}
	if s1.Runs != 3 || s1.Completed != 2 || s1.BestScore != 200 || s1.AvgScore != 100 {
		t.Errorf("level 1 stats = %+v", s1)
	}
	if stats[4] == nil || stats[4].Runs != 1 {
		t.Errorf("level 4 stats = %+v", stats[4])
	}
}

func TestReset(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Merge(6, 10, progress.Earned{}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordRun(RunRecord{LevelID: 6}); err != nil {
		t.Fatal(err)
	}

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if _, err := store.Stored(); !errors.Is(err, ErrNoSave) {
		t.Errorf("Stored() after reset = %v, expected ErrNoSave", err)
	}
	runs, err := store.RecentRuns(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs after reset", len(runs))
	}
}

func TestRunFromSnapshot(t *testing.T) {
	snap := loopy.DebugSnapshot{
		LevelID:  7,
		NowMs:    12345.6,
		GameOver: true,
		Reason:   "lives",
		Score:    0,
		Economy:  loopy.EconomyView{Deaths: 3, Seeds: 4},
	}
	r := RunFromSnapshot(snap)
	if r.Outcome != OutcomeGameOver || r.Reason != "lives" || r.Deaths != 3 || r.Seeds != 4 {
		t.Errorf("RunFromSnapshot() = %+v", r)
	}
	if r.DurationMs != 12345 {
		t.Errorf("DurationMs = %d, expected 12345", r.DurationMs)
	}
}

func TestStoreBacksLevelCompletion(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.Merge(8, 1000, progress.Earned{}); err != nil {
		t.Fatal(err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !st.IsUnlocked(9) || st.IsUnlocked(10) {
		t.Errorf("unlock state wrong after clearing level 8: highest = %d", st.HighestUnlocked)
	}
}

func TestConcurrentMergesAllLand(t *testing.T) {
	store := openTestStore(t)

	const workers, perWorker = 8, 25
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := range workers {
		wg.Add(1)
		go func(level int) {
			defer wg.Done()
			for range perWorker {
				if _, err := store.Merge(level, 10, progress.Earned{Seeds: 1}); err != nil {
					errs <- err
				}
			}
		}(w%4 + 1)
	}
	wg.Wait()
	close(errs)

	failed := 0
	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
		failed++
	}
	if failed > 0 {
		t.Fatalf("%d of %d merges failed, first: %v", failed, workers*perWorker, first)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if st.Totals.Seeds != workers*perWorker {
		t.Errorf("Totals.Seeds = %d, expected %d", st.Totals.Seeds, workers*perWorker)
	}
	if st.HighestUnlocked != 5 {
		t.Errorf("HighestUnlocked = %d, expected 5", st.HighestUnlocked)
	}
}
