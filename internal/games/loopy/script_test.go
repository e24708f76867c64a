package loopy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/loopy/internal/core"
)

const sampleScript = `
level: 1
seed: 42
steps:
  - ms: 500
    move: [1, 0]
  - ms: 100
    actions: [tap]
  - ms: 300
    actions: [hold]
    repeat: 2
  - debug: complete
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(sampleScript))
	if err != nil {
		t.Fatalf("ParseScript() failed: %v", err)
	}
	if s.Level != 1 || s.Seed != 42 || len(s.Steps) != 4 {
		t.Fatalf("script = %+v", s)
	}
	in := s.Steps[1].Frame()
	if !in.Has(core.ActionPrimary) {
		t.Error("tap should map to the primary action")
	}
	if s.Steps[0].Frame().MoveX != 1 {
		t.Error("move axes not applied")
	}
}

func TestParseScriptRejectsUnknownNames(t *testing.T) {
	tests := map[string]string{
		"action":   "steps:\n  - ms: 10\n    actions: [jump]\n",
		"debug":    "steps:\n  - debug: fly\n",
		"negative": "steps:\n  - ms: -5\n",
		"teleport": "steps:\n  - teleport: [1]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseScript([]byte(doc)); !errors.Is(err, ErrBadScript) {
				t.Errorf("expected ErrBadScript, got %v", err)
			}
		})
	}
}

func TestLoadScriptMissingFile(t *testing.T) {
	if _, err := LoadScript(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected an error for a missing script")
	}
}

func TestScriptRunCompletes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte(sampleScript), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}

	l := New(testDef(s.Level))
	l.Reset(core.RuntimeConfig{TickRate: 60, Seed: s.Seed})
	events := s.Run(l)

	if !l.State().Completed {
		t.Fatal("debug complete should finish the level")
	}
	if n := countEvents[LevelCompletedEvent](events); n != 1 {
		t.Errorf("got %d completion events, expected 1", n)
	}
	if l.Player().Pos.X <= testDef(1).PlayerStart.X {
		t.Error("the move step should carry the player right")
	}
	if got := l.Now(); got < 1199 || got > 1201 {
		t.Errorf("now = %v, expected 1200 ms of scripted time", got)
	}
}
