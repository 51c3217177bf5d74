// arena is a local multi-player bomb arena for the terminal.
//
// Usage:
//
//	arena list              - List match variants
//	arena play <variant>    - Play a variant
//	arena menu              - Pick variants interactively
//	arena serve             - Serve the arena over SSH
//	arena history           - Show finished matches
//	arena config            - Print or check a match config
//
// Global flags:
//
//	--config <path> - Match config YAML (default search: ~/.arcade/configs/bomber.yaml, ./configs/bomber.yaml)
//	--preset <name> - Rule preset: easy, normal, hard
//	--fps <rate>    - Tick rate (default: 20)
//	--seed <value>  - Board seed for reproducible matches
//	--db <path>     - History database (default: ~/.arcade/arena.db)
//	--log <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/bomb-arena/internal/config"
	"github.com/vovakirdan/bomb-arena/internal/core"
	"github.com/vovakirdan/bomb-arena/internal/games/bomber"
)

var (
	flagConfig  string
	flagPreset  string
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
	flagDebug   bool
)

// logger is set up by the root command before any subcommand runs.
var (
	logger  = log.New(io.Discard)
	logFile *os.File
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Bomb Arena - a multi-player bomb game for one keyboard",
	Long: `Bomb Arena is a local multi-player arena game: up to four players
share one keyboard, plant bombs, blast boxes and each other, and the
last player with lives left wins.

Available commands:
  list     - Show the match variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  serve    - Serve the arena over SSH
  history  - View finished matches
  config   - Print or check a match config

Examples:
  arena list
  arena play bomber_duel
  arena play bomber --preset hard --seed 42
  arena menu --config ./my-arena.yaml
  arena serve --ssh :2222 --metrics :9090`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a match config YAML")
	pf.StringVar(&flagPreset, "preset", string(config.PresetNormal), "Rule preset: easy, normal, hard")
	pf.IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (ticks per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "Board seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.arcade/arena.db", "Path to the match history database")
	pf.StringVar(&flagLogPath, "log", "", "Write logs to this file")
	pf.BoolVar(&flagDebug, "debug", false, "Log at debug level")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

// setup applies the global flags: logging, config path and preset.
func setup(_ *cobra.Command, _ []string) error {
	if flagFPS <= 0 || flagFPS > core.MaxTickRate {
		return fmt.Errorf("--fps must be between 1 and %d, got %d", core.MaxTickRate, flagFPS)
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}

	if flagLogPath != "" {
		f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		logFile = f
		logger = log.NewWithOptions(f, log.Options{
			ReportTimestamp: true,
			Prefix:          "arena",
		})
	}
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	bomber.SetConfigPath(flagConfig)
	bomber.SetPreset(preset)
	bomber.SetLogger(logger)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if logFile != nil {
		return logFile.Close()
	}
	return nil
}

// runtimeConfig builds the runtime settings from the global flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
