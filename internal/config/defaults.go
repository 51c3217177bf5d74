package config

import (
	_ "embed"
	"fmt"

	"github.com/vovakirdan/bomb-arena/internal/arena"
)

//go:embed defaults/bomber.yaml
var defaultBomberYAML []byte

// DefaultBomberConfig returns the reference match configuration.
func DefaultBomberConfig() BomberConfig {
	ac := arena.DefaultConfig()
	cfg := BomberConfig{
		Board: BoardConfig{
			Width:      ac.Width,
			Height:     ac.Height,
			BoxDensity: ac.BoxDensity,
		},
		Timing: TimingConfig{
			FuseMs:    int(ac.Fuse.Milliseconds()),
			FireMs:    int(ac.FireDuration.Milliseconds()),
			RespawnMs: int(ac.RespawnDelay.Milliseconds()),
		},
		Rules: RulesConfig{
			BlastRadius: ac.BlastRadius,
			MaxBombs:    ac.MaxBombs,
			Lives:       ac.Lives,
		},
		Input: InputConfig{
			PollMs:     50,
			CooldownMs: 150,
			HoldMs:     200,
		},
	}
	for i, k := range arena.DefaultKeys() {
		cfg.Players = append(cfg.Players, PlayerConfig{
			ID:   fmt.Sprintf("player%d", i+1),
			Keys: KeysConfig{Up: k.Up, Down: k.Down, Left: k.Left, Right: k.Right, Bomb: k.Bomb},
		})
	}
	return cfg
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBomberYAML
}
