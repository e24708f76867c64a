package tui

import (
	"strings"
	"testing"

	"github.com/vovakirdan/loopy/internal/core"
)

func TestRenderScreenKeepsLayout(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.SetColored(1, 0, '@', core.ColorBrightCyan)
	s.SetColored(2, 0, '*', core.ColorGreen)
	s.DrawText(0, 1, "HUD")

	out := RenderScreen(s)
	if strings.Count(out, "\n") != 1 {
		t.Errorf("expected 2 rows, got %q", out)
	}
	if !strings.Contains(out, "@") || !strings.Contains(out, "HUD") {
		t.Errorf("cells missing from %q", out)
	}
}

func TestRenderStatus(t *testing.T) {
	tests := []struct {
		name  string
		state core.GameState
		hint  string
		want  string
	}{
		{"complete", core.GameState{Completed: true, Score: 420}, "", "score 420"},
		{"game over", core.GameState{GameOver: true, Reason: "Out of lives"}, "", "Out of lives"},
		{"paused", core.GameState{Paused: true}, "ignored", "PAUSED"},
		{"hint", core.GameState{}, "Need 3 more food", "Need 3 more food"},
		{"help", core.GameState{}, "", "space fire"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderStatus(120, tt.state, tt.hint); !strings.Contains(got, tt.want) {
				t.Errorf("renderStatus() = %q, expected it to contain %q", got, tt.want)
			}
		})
	}
}

func TestFitText(t *testing.T) {
	if got := fitText("abcdef", 3); got != "abc" {
		t.Errorf("fitText() = %q", got)
	}
	if got := fitText("ab", 3); got != "ab" {
		t.Errorf("fitText() = %q", got)
	}
}
