package core

// RuntimeConfig contains configuration passed to the simulation at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// TickMs returns the duration of one tick in milliseconds.
func (c RuntimeConfig) TickMs() float64 {
	if c.TickRate <= 0 {
		return FixedStepMs
	}
	return 1000 / float64(c.TickRate)
}

// FixedStepMs is the sub-step used by scripted time advance.
const FixedStepMs = 1000.0 / 60.0

// GameState represents the current run state reported to the platform.
type GameState struct {
	Score     int    // Score (final score once completed)
	GameOver  bool   // Whether the level attempt has ended in failure
	Completed bool   // Whether the level was completed
	Paused    bool   // Whether the simulation is paused
	Reason    string // Terminal reason ("Out of lives", "Time expired")
}

// Ended reports whether the attempt reached a terminal state.
func (s GameState) Ended() bool {
	return s.GameOver || s.Completed
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State GameState
}
