package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/progress"
	"github.com/vovakirdan/loopy/internal/storage"
)

func TestPickLevel(t *testing.T) {
	save := progress.Defaults()
	save.HighestUnlocked = 3

	tests := []struct {
		name     string
		args     []string
		anyLevel bool
		want     int
		wantErr  bool
	}{
		{"default is highest unlocked", nil, false, 3, false},
		{"unlocked level", []string{"2"}, false, 2, false},
		{"locked level", []string{"7"}, false, 0, true},
		{"locked level with any", []string{"7"}, true, 7, false},
		{"not a number", []string{"two"}, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pickLevel(tt.args, save, tt.anyLevel)
			if (err != nil) != tt.wantErr {
				t.Fatalf("pickLevel(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("pickLevel(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	lg, err := newLogger(&buf, "WARN")
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	lg.Info("hidden")
	lg.Warn("shown", "level", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "loopy") {
		t.Errorf("expected prefixed warn line, got %q", out)
	}

	if _, err := newLogger(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWriteLevels(t *testing.T) {
	cat := config.MustDefaultLevels()
	save := progress.Defaults()
	save.HighestUnlocked = 2
	save.LevelBest[1] = 400

	var buf bytes.Buffer
	writeLevels(&buf, cat, save)
	out := buf.String()

	if !strings.Contains(out, "Canopy Shallows") {
		t.Errorf("missing level 1 name in %q", out)
	}
	if got := strings.Count(out, "locked"); got != len(cat.Levels)-2 {
		t.Errorf("locked rows = %d, want %d", got, len(cat.Levels)-2)
	}
	if !strings.Contains(out, "cleared") {
		t.Error("level 1 should be shown as cleared")
	}
}

func TestWriteScoresEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeScores(&buf, config.MustDefaultLevels(), progress.Defaults(), nil)
	if !strings.Contains(buf.String(), "No scores recorded yet.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
}

func TestWriteScores(t *testing.T) {
	save := progress.Defaults()
	save.LevelBest[1] = 560
	save.LevelBest[2] = 300
	stats := map[int]*storage.LevelStats{
		1: {LevelID: 1, Runs: 3, Completed: 1, BestScore: 560, AvgScore: 250},
	}

	var buf bytes.Buffer
	writeScores(&buf, config.MustDefaultLevels(), save, stats)
	out := buf.String()

	if !strings.Contains(out, "Total best: 860") {
		t.Errorf("expected total best 860, got %q", out)
	}
	if !strings.Contains(out, "250") {
		t.Errorf("expected level 1 average in %q", out)
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	cat := config.MustDefaultLevels()
	req := simRequest{Level: 1, Ms: 3000, Seed: 42, TickRate: 60}

	first, err := simulate(cat, req)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	second, err := simulate(cat, req)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if first.Hash != second.Hash {
		t.Errorf("hash mismatch: %s vs %s", first.Hash, second.Hash)
	}
	if first.Snapshot.NowMs <= 0 {
		t.Errorf("expected simulated time to advance, got %.1f", first.Snapshot.NowMs)
	}
}

func TestSimulateUnknownLevel(t *testing.T) {
	_, err := simulate(config.MustDefaultLevels(), simRequest{Level: 99, Ms: 100, TickRate: 60})
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestSimulateScriptCompletes(t *testing.T) {
	script, err := loopy.ParseScript([]byte(`
steps:
  - {ms: 100, move: [1, 0]}
  - {debug: complete}
`))
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	mem := loopy.NewMemoryStore()

	report, err := simulate(config.MustDefaultLevels(),
		simRequest{Level: 1, Seed: 1, TickRate: 60, Script: &script},
		loopy.WithStore(mem))
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if !report.Snapshot.Completed {
		t.Error("expected level completed")
	}
	if report.Events["LevelCompleted"] != 1 {
		t.Errorf("LevelCompleted events = %d, want 1", report.Events["LevelCompleted"])
	}
	if mem.Merges() != 1 {
		t.Errorf("merges = %d, want 1", mem.Merges())
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, report); err != nil {
		t.Fatalf("writeJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if _, ok := decoded["snapshot"]; !ok {
		t.Error("missing snapshot key")
	}
}

func TestShowSave(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "loopy.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	var buf bytes.Buffer
	if err := showSave(&buf, store); err != nil {
		t.Fatalf("showSave failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No save yet.") {
		t.Errorf("expected no-save message, got %q", buf.String())
	}

	if _, err := store.Merge(1, 120, progress.Earned{Seeds: 4}); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	buf.Reset()
	if err := showSave(&buf, store); err != nil {
		t.Fatalf("showSave failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"highest_unlocked_level": 2`) {
		t.Errorf("expected unlocked level 2 in %q", buf.String())
	}
}
