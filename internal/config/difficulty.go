package config

import "fmt"

// Preset is a named rule set applied on top of a loaded configuration.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal" // The loaded file as-is
	PresetHard   Preset = "hard"
)

// Presets lists the presets in menu order.
var Presets = []Preset{PresetEasy, PresetNormal, PresetHard}

// ParsePreset validates a preset name from the command line.
func ParsePreset(s string) (Preset, error) {
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q (want easy, normal or hard)", s)
}

// ApplyPreset modifies the config for a preset.
func ApplyPreset(cfg *BomberConfig, preset Preset) {
	switch preset {
	case PresetEasy:
		cfg.Rules.Lives = 5
		cfg.Timing.FuseMs = 2500
		cfg.Timing.RespawnMs = 2000
		cfg.Board.BoxDensity = 0.7
	case PresetHard:
		cfg.Rules.Lives = 1
		cfg.Rules.MaxBombs = 2
		cfg.Rules.BlastRadius = 3
		cfg.Timing.FuseMs = 1500
	}
}
