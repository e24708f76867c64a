package core

// Action represents a semantic input action, abstracted from physical key presses.
// This allows the simulation to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionPrimary        // Space - primary tap (combo shot/bomb/shield)
	ActionHold           // Space held - continuous fire
	ActionDash           // Shift, X - dash ability
	ActionSpecial        // E, Q - universe bloom
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart level after game over
	ActionQuit           // Ctrl+C - exit session
	ActionPause          // P - pause/unpause
	ActionGlide          // G - glide ability
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPrimary:
		return "Primary"
	case ActionHold:
		return "Hold"
	case ActionDash:
		return "Dash"
	case ActionSpecial:
		return "Special"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	case ActionGlide:
		return "Glide"
	default:
		return "Unknown"
	}
}

// InputFrame is the input snapshot for a single simulation tick.
// Tapped actions are edge-triggered: the platform sets them once per physical
// press and clears the frame after the tick consumes it.
type InputFrame struct {
	// MoveX and MoveY are movement axes in [-1, 1].
	MoveX float64
	MoveY float64

	// Actions maps action types to whether they were triggered this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// SetMove stores the movement axes, clamped to [-1, 1].
func (f *InputFrame) SetMove(x, y float64) {
	f.MoveX = ClampF(x, -1, 1)
	f.MoveY = ClampF(y, -1, 1)
}

// Move returns the movement vector, normalized when its length exceeds 1.
func (f InputFrame) Move() Vec2 {
	v := Vec2{X: f.MoveX, Y: f.MoveY}
	if l := v.Len(); l > 1 {
		return v.Scale(1 / l)
	}
	return v
}

// Clear resets actions and axes for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.MoveX, f.MoveY = 0, 0
}

// WithoutTaps returns a copy keeping axes and held state but dropping
// edge-triggered actions. Used when one frame is split into sub-steps.
func (f InputFrame) WithoutTaps() InputFrame {
	clone := NewInputFrame()
	clone.MoveX, clone.MoveY = f.MoveX, f.MoveY
	if f.Has(ActionHold) {
		clone.Set(ActionHold)
	}
	return clone
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	clone.MoveX, clone.MoveY = f.MoveX, f.MoveY
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
