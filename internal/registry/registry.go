// Package registry maps game ids to factories. Game variants register
// themselves from init(), so the front end can list and start them without
// importing each one by name.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/bomb-arena/internal/core"
)

// Game is implemented by every playable variant. Games hold pure logic;
// timing, input collection and terminal output belong to the platform.
type Game interface {
	// ID returns the identifier used on the command line and in the
	// history store (e.g. "bomber_duel").
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts a fresh match.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	State() core.GameState
}

// Reporter is implemented by games that produce a match summary once the
// match is over.
type Reporter interface {
	Result() (core.MatchResult, bool)
}

// Observer receives lifecycle notifications from running games.
type Observer interface {
	// Event is called for every simulation event, by kind name.
	Event(gameID, kind string)
	// MatchOver is called once per finished match.
	MatchOver(gameID string, r core.MatchResult)
}

// Observable is implemented by games that report to an Observer.
type Observable interface {
	SetObserver(o Observer)
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID      string
	Title   string
	Players int
}

// Factory creates a new game instance.
type Factory func() Game

type entry struct {
	factory Factory
	info    GameInfo
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a game factory under id. It panics on duplicate ids.
func Register(id string, players int, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	entries[id] = entry{
		factory: f,
		info:    GameInfo{ID: id, Title: f().Title(), Players: players},
	}
}

// List returns all registered games, sorted by player count and then ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Players != result[j].Players {
			return result[i].Players < result[j].Players
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a game by id.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := entries[id]
	return ok
}
