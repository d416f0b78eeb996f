package core

// RuntimeConfig contains configuration passed to a session at initialization.
// The session uses this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 30)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a session.
// Returned by Session.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	Level    int  // Current player level
	GameOver bool // Whether the run has ended
	Paused   bool // Whether the session is paused
}

// StepResult is returned by Session.Step() after each simulation tick.
// Contains the updated state and any events that occurred.
type StepResult struct {
	State GameState
}
