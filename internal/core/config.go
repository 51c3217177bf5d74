package core

// RuntimeConfig is passed to games on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // Board seed; 0 lets the platform pick one
}

// DefaultConfig returns the runtime defaults for a terminal session.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 20,
	}
}

// MaxTickRate is the fastest rate at which a tick still covers a whole
// logical millisecond.
const MaxTickRate = 1000

// TickMillis returns the logical milliseconds one tick covers, at least 1.
func (c RuntimeConfig) TickMillis() int {
	if c.TickRate <= 0 {
		return 50
	}
	return max(1000/c.TickRate, 1)
}

// GameState is what the platform needs to know between ticks.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step.
type StepResult struct {
	State GameState
}
