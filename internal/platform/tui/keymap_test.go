package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/loopy/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
		quit bool
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionPrimary, false},
		{"dash", runeKey('x'), core.ActionDash, false},
		{"glide", runeKey('g'), core.ActionGlide, false},
		{"bloom q", runeKey('q'), core.ActionSpecial, false},
		{"bloom e", runeKey('e'), core.ActionSpecial, false},
		{"pause", runeKey('p'), core.ActionPause, false},
		{"pause esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause, false},
		{"restart", runeKey('r'), core.ActionRestart, false},
		{"menu", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionBack, false},
		{"quit", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"move only", runeKey('d'), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, quit := km.MapKey(tt.msg)
			if got != tt.want || quit != tt.quit {
				t.Errorf("MapKey() = %v, %v; expected %v, %v", got, quit, tt.want, tt.quit)
			}
		})
	}
}

func TestMapDirection(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want Direction
	}{
		{runeKey('a'), DirLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, DirRight},
		{runeKey('w'), DirUp},
		{tea.KeyMsg{Type: tea.KeyDown}, DirDown},
		{tea.KeyMsg{Type: tea.KeyShiftLeft}, DirLeft},
		{runeKey('g'), DirNone},
	}
	for _, tt := range tests {
		if got := km.MapDirection(tt.msg); got != tt.want {
			t.Errorf("MapDirection(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}

	// Shifted arrows dash as well as move.
	if a, _ := km.MapKey(tea.KeyMsg{Type: tea.KeyShiftRight}); a != core.ActionDash {
		t.Errorf("shift+right mapped to %v, expected dash", a)
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{runeKey('k'), MenuActionUp},
		{runeKey('j'), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{runeKey('q'), MenuActionQuit},
		{runeKey('z'), MenuActionNone},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, expected %v", tt.msg.String(), got, tt.want)
		}
	}
}
