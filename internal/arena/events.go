package arena

import "time"

// EventKind labels a lifecycle event.
type EventKind int

const (
	EventBombPlanted EventKind = iota
	EventBombDetonated
	EventBoxDestroyed
	EventPlayerDied
	EventPlayerEliminated
	EventPlayerRespawned
	EventFireCleared
)

func (k EventKind) String() string {
	switch k {
	case EventBombPlanted:
		return "planted"
	case EventBombDetonated:
		return "detonated"
	case EventBoxDestroyed:
		return "box-destroyed"
	case EventPlayerDied:
		return "died"
	case EventPlayerEliminated:
		return "eliminated"
	case EventPlayerRespawned:
		return "respawned"
	case EventFireCleared:
		return "fire-cleared"
	default:
		return "unknown"
	}
}

// Event records one lifecycle transition. Fields that do not apply to the
// kind are left zero.
type Event struct {
	Kind   EventKind     `json:"kind"`
	At     time.Duration `json:"at"`
	Player PlayerID      `json:"player,omitempty"`
	Bomb   BombID        `json:"bomb,omitempty"`
	Owner  PlayerID      `json:"owner,omitempty"` // Bomb owner; the killer for deaths
	Pos    Position      `json:"pos"`
	Lives  int           `json:"lives,omitempty"`
	Cells  []Position    `json:"cells,omitempty"`
}

// Events drains the events recorded since the previous call.
func (a *Arena) Events() []Event {
	out := a.events
	a.events = nil
	return out
}

// emit queues e with its own copy of Cells; pending fire clears keep theirs.
func (a *Arena) emit(e Event) {
	e.At = a.sched.Now()
	if e.Cells != nil {
		e.Cells = append([]Position(nil), e.Cells...)
	}
	a.events = append(a.events, e)
}
