package arena

import (
	"errors"
	"fmt"
	"time"
)

// PlayerID identifies a player slot in the arena.
type PlayerID string

// Keys is a player's key binding: the raw input tokens that map to each
// action. The arena only uses it to resolve command tokens; translating
// physical keys into tokens is the caller's job.
type Keys struct {
	Up    string `json:"up"`
	Down  string `json:"down"`
	Left  string `json:"left"`
	Right string `json:"right"`
	Bomb  string `json:"bomb"`
}

// Resolve maps a token to a direction, or to the bomb action when bomb is
// true. ok is false for tokens that are not bound.
func (k Keys) Resolve(token string) (dir Direction, bomb bool, ok bool) {
	if token == "" {
		return 0, false, false
	}
	switch token {
	case k.Up:
		return DirUp, false, true
	case k.Down:
		return DirDown, false, true
	case k.Left:
		return DirLeft, false, true
	case k.Right:
		return DirRight, false, true
	case k.Bomb:
		return 0, true, true
	}
	return 0, false, false
}

// Tokens returns the bound tokens in resolve order.
func (k Keys) Tokens() []string {
	return []string{k.Up, k.Down, k.Left, k.Right, k.Bomb}
}

// PlayerConfig describes one player slot. Slots are assigned spawn corners in
// order.
type PlayerConfig struct {
	ID   PlayerID
	Keys Keys
}

// Config holds every tunable of a match.
type Config struct {
	Width        int
	Height       int
	BoxDensity   float64 // Fraction of eligible cells that get a box
	Fuse         time.Duration
	FireDuration time.Duration
	RespawnDelay time.Duration
	BlastRadius  int
	MaxBombs     int
	Lives        int
	Seed         int64
	Players      []PlayerConfig
}

// DefaultKeys returns the reference bindings for the four slots, expressed as
// terminal key names.
func DefaultKeys() []Keys {
	return []Keys{
		{Up: "up", Down: "down", Left: "left", Right: "right", Bomb: "enter"},
		{Up: "w", Down: "s", Left: "a", Right: "d", Bomb: " "},
		{Up: "i", Down: "k", Left: "j", Right: "l", Bomb: "m"},
		{Up: "t", Down: "g", Left: "f", Right: "h", Bomb: "v"},
	}
}

// DefaultConfig returns the reference four-player configuration.
func DefaultConfig() Config {
	keys := DefaultKeys()
	players := make([]PlayerConfig, len(keys))
	for i, k := range keys {
		players[i] = PlayerConfig{ID: PlayerID(fmt.Sprintf("player%d", i+1)), Keys: k}
	}
	return Config{
		Width:        15,
		Height:       15,
		BoxDensity:   0.9,
		Fuse:         2000 * time.Millisecond,
		FireDuration: 2000 * time.Millisecond,
		RespawnDelay: 3000 * time.Millisecond,
		BlastRadius:  2,
		MaxBombs:     1,
		Lives:        3,
		Players:      players,
	}
}

// Validate reports configurations the arena cannot be built from.
func (c Config) Validate() error {
	var errs []error
	if c.Width < 5 || c.Height < 5 {
		errs = append(errs, fmt.Errorf("board %dx%d is smaller than 5x5", c.Width, c.Height))
	}
	if c.Width%2 == 0 || c.Height%2 == 0 {
		errs = append(errs, fmt.Errorf("board %dx%d must have odd dimensions", c.Width, c.Height))
	}
	if c.BoxDensity < 0 || c.BoxDensity > 1 {
		errs = append(errs, fmt.Errorf("box density %.2f outside [0,1]", c.BoxDensity))
	}
	if c.Fuse <= 0 || c.FireDuration <= 0 || c.RespawnDelay <= 0 {
		errs = append(errs, errors.New("fuse, fire and respawn durations must be positive"))
	}
	if c.BlastRadius < 1 {
		errs = append(errs, fmt.Errorf("blast radius %d must be at least 1", c.BlastRadius))
	}
	if c.MaxBombs < 1 || c.Lives < 1 {
		errs = append(errs, errors.New("max bombs and lives must be at least 1"))
	}
	if len(c.Players) == 0 || len(c.Players) > 4 {
		errs = append(errs, fmt.Errorf("player count %d outside 1..4", len(c.Players)))
	}
	seen := make(map[PlayerID]bool, len(c.Players))
	for _, p := range c.Players {
		if p.ID == "" {
			errs = append(errs, errors.New("player id must not be empty"))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate player id %q", p.ID))
		}
		seen[p.ID] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("arena: invalid config: %w", err)
	}
	return nil
}
