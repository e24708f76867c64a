package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/loopy/internal/core"
)

// Direction is a movement key mapped to an axis.
type Direction int

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirUp
	DirDown
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a tapped action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c":
		return core.ActionQuit, true
	case " ":
		return core.ActionPrimary, false
	case "x", "X", "shift+left", "shift+right", "shift+up", "shift+down":
		return core.ActionDash, false
	case "g":
		return core.ActionGlide, false
	case "q", "e":
		return core.ActionSpecial, false
	case "p", "esc":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
	case "b", "enter":
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MapDirection translates a key message to a movement direction. Shifted
// arrows move as well as dash.
func (km *KeyMapper) MapDirection(msg tea.KeyMsg) Direction {
	switch msg.String() {
	case "a", "left", "shift+left":
		return DirLeft
	case "d", "right", "shift+right":
		return DirRight
	case "w", "up", "shift+up":
		return DirUp
	case "s", "down", "shift+down":
		return DirDown
	}
	return DirNone
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
