// Package config loads match configuration from YAML and turns it into
// arena settings.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/bomb-arena/internal/arena"
)

// BomberConfig contains all configuration for a bomb arena match.
type BomberConfig struct {
	Board   BoardConfig    `yaml:"board"`
	Timing  TimingConfig   `yaml:"timing"`
	Rules   RulesConfig    `yaml:"rules"`
	Input   InputConfig    `yaml:"input"`
	Players []PlayerConfig `yaml:"players"`
}

// BoardConfig defines the board layout.
type BoardConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	BoxDensity float64 `yaml:"box_density"`
	Seed       int64   `yaml:"seed"` // 0 picks a seed per match
}

// TimingConfig defines the lifecycle delays, in milliseconds.
type TimingConfig struct {
	FuseMs    int `yaml:"fuse_ms"`
	FireMs    int `yaml:"fire_ms"`
	RespawnMs int `yaml:"respawn_ms"`
}

// RulesConfig defines the per-player limits.
type RulesConfig struct {
	BlastRadius int `yaml:"blast_radius"`
	MaxBombs    int `yaml:"max_bombs"`
	Lives       int `yaml:"lives"`
}

// InputConfig defines how held keys turn into moves, in milliseconds.
type InputConfig struct {
	PollMs     int `yaml:"poll_ms"`
	CooldownMs int `yaml:"cooldown_ms"`
	HoldMs     int `yaml:"hold_ms"`
}

// PlayerConfig defines one player slot.
type PlayerConfig struct {
	ID   string     `yaml:"id"`
	Keys KeysConfig `yaml:"keys"`
}

// KeysConfig binds terminal key names to actions.
type KeysConfig struct {
	Up    string `yaml:"up"`
	Down  string `yaml:"down"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
	Bomb  string `yaml:"bomb"`
}

func (k KeysConfig) tokens() []string {
	return []string{k.Up, k.Down, k.Left, k.Right, k.Bomb}
}

// ReservedKeys are handled by the platform and cannot be bound to players.
var ReservedKeys = []string{"q", "ctrl+c", "ctrl+s", "p", "r", "b", "esc"}

// Poll returns the held-key sampling interval.
func (c InputConfig) Poll() time.Duration { return ms(c.PollMs) }

// Cooldown returns the minimum time between two moves of one player.
func (c InputConfig) Cooldown() time.Duration { return ms(c.CooldownMs) }

// Hold returns how long a key press counts as held without a repeat.
func (c InputConfig) Hold() time.Duration { return ms(c.HoldMs) }

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// ToArena builds the arena configuration for the first players slots.
func (c BomberConfig) ToArena(players int) (arena.Config, error) {
	if players < 1 || players > len(c.Players) {
		return arena.Config{}, fmt.Errorf("config: %d players requested, %d configured", players, len(c.Players))
	}

	out := arena.Config{
		Width:        c.Board.Width,
		Height:       c.Board.Height,
		BoxDensity:   c.Board.BoxDensity,
		Fuse:         ms(c.Timing.FuseMs),
		FireDuration: ms(c.Timing.FireMs),
		RespawnDelay: ms(c.Timing.RespawnMs),
		BlastRadius:  c.Rules.BlastRadius,
		MaxBombs:     c.Rules.MaxBombs,
		Lives:        c.Rules.Lives,
		Seed:         c.Board.Seed,
	}
	for _, p := range c.Players[:players] {
		out.Players = append(out.Players, arena.PlayerConfig{
			ID: arena.PlayerID(p.ID),
			Keys: arena.Keys{
				Up:    p.Keys.Up,
				Down:  p.Keys.Down,
				Left:  p.Keys.Left,
				Right: p.Keys.Right,
				Bomb:  p.Keys.Bomb,
			},
		})
	}
	return out, nil
}

// Validate checks the whole configuration, including the rules the arena
// itself enforces.
func (c BomberConfig) Validate() error {
	var errs []error

	if c.Input.PollMs <= 0 || c.Input.CooldownMs <= 0 || c.Input.HoldMs <= 0 {
		errs = append(errs, errors.New("input timings must be positive"))
	}
	if len(c.Players) > 0 {
		ac, err := c.ToArena(min(len(c.Players), 4))
		if err == nil {
			err = ac.Validate()
		}
		if err != nil {
			errs = append(errs, err)
		}
	} else {
		errs = append(errs, errors.New("no players configured"))
	}
	if len(c.Players) > 4 {
		errs = append(errs, fmt.Errorf("%d players configured, at most 4 supported", len(c.Players)))
	}

	reserved := make(map[string]bool, len(ReservedKeys))
	for _, k := range ReservedKeys {
		reserved[k] = true
	}
	owner := make(map[string]string)
	for _, p := range c.Players {
		for _, tok := range p.Keys.tokens() {
			switch {
			case tok == "":
				errs = append(errs, fmt.Errorf("player %q has an unbound action", p.ID))
			case reserved[tok]:
				errs = append(errs, fmt.Errorf("player %q binds reserved key %q", p.ID, tok))
			case owner[tok] != "":
				errs = append(errs, fmt.Errorf("key %q bound by both %q and %q", tok, owner[tok], p.ID))
			default:
				owner[tok] = p.ID
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid bomber config: %w", err)
	}
	return nil
}
