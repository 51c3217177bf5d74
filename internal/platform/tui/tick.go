// Package tui runs games in a terminal with Bubble Tea. It owns the real
// clock, the keyboard and the screen; games only see fixed ticks, input
// frames and a cell buffer.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Loop identifies the
// tick loop that scheduled it, so a loop left over from a previous game in
// the same program is dropped.
type TickMsg struct {
	Loop uint64
	At   time.Time
}

var loopSeq atomic.Uint64

// newLoop returns a fresh tick loop id.
func newLoop() uint64 {
	return loopSeq.Add(1)
}

// tickCmd returns a Bubble Tea command that sends one tick for loop after
// the interval matching tickRate.
func tickCmd(loop uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 20
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: loop, At: t}
	})
}
