package bomber

import (
	"time"

	"github.com/vovakirdan/bomb-arena/internal/arena"
)

// press is the last time a token was seen.
type press struct {
	at  time.Duration
	seq uint64
}

// poller turns terminal key presses into arena moves.
//
// Terminals report key repeats rather than key-up events, so a token counts
// as held until hold elapses without a repeat. Every poll each alive player
// gets at most one move, and only once cooldown has passed since its last
// successful move. A successful move consumes the token; a blocked one stays
// held and is retried on the next poll.
type poller struct {
	hold     time.Duration
	cooldown time.Duration

	held     map[string]press
	seq      uint64
	lastMove map[arena.PlayerID]time.Duration
}

func newPoller(hold, cooldown time.Duration) *poller {
	return &poller{
		hold:     hold,
		cooldown: cooldown,
		held:     make(map[string]press),
		lastMove: make(map[arena.PlayerID]time.Duration),
	}
}

// Press marks token as held at logical time now.
func (p *poller) Press(token string, now time.Duration) {
	p.seq++
	p.held[token] = press{at: now, seq: p.seq}
}

// Poll issues the moves due at now and returns how many succeeded.
func (p *poller) Poll(a *arena.Arena, now time.Duration) int {
	for tok, pr := range p.held {
		if now-pr.at > p.hold {
			delete(p.held, tok)
		}
	}
	if len(p.held) == 0 {
		return 0
	}

	moved := 0
	for _, pl := range a.AlivePlayers() {
		if last, ok := p.lastMove[pl.ID]; ok && now-last < p.cooldown {
			continue
		}
		tok, ok := p.latest(pl.Keys)
		if !ok {
			continue
		}
		if a.MovePlayer(pl.ID, tok) {
			delete(p.held, tok)
			p.lastMove[pl.ID] = now
			moved++
		}
	}
	return moved
}

// latest returns the most recently pressed token bound in keys.
func (p *poller) latest(keys arena.Keys) (string, bool) {
	var (
		best  string
		bestP press
		found bool
	)
	for _, tok := range keys.Tokens() {
		pr, ok := p.held[tok]
		if !ok {
			continue
		}
		if !found || pr.seq > bestP.seq {
			best, bestP, found = tok, pr, true
		}
	}
	return best, found
}

// Held returns the number of tokens currently held.
func (p *poller) Held() int {
	return len(p.held)
}
