package bomber

import "github.com/vovakirdan/bomb-arena/internal/arena"

// Snapshot captures the match state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Arena    arena.Snapshot
	Kills    []int
	Deaths   []int
	Paused   bool
	GameOver bool
	Winner   int
}

// Snapshot returns a copy of the current match state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:     g.tick,
		Arena:    g.arena.Snapshot(),
		Kills:    append([]int(nil), g.kills...),
		Deaths:   append([]int(nil), g.deaths...),
		Paused:   g.paused,
		GameOver: g.gameOver,
		Winner:   g.winner,
	}
}
