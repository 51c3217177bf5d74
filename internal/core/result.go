package core

import "time"

// MatchResult summarises a finished match for the history store.
type MatchResult struct {
	MatchID  string
	Winner   int // Slot of the winner, -1 for a draw
	Reason   string
	Duration time.Duration
	Players  []PlayerResult
}

// PlayerResult is one slot's line in a MatchResult.
type PlayerResult struct {
	Slot      int
	PlayerID  string
	LivesLeft int
	Deaths    int
	Kills     int
}
