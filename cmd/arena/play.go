package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/bomb-arena/internal/config"
	"github.com/vovakirdan/bomb-arena/internal/platform/tui"
	"github.com/vovakirdan/bomb-arena/internal/registry"
	"github.com/vovakirdan/bomb-arena/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play <variant>",
	Short: "Play a match variant",
	Long: `Start a match of the given variant on this terminal.

Controls (default bindings, see 'arena config --defaults'):
  P1  Arrows move, Enter plants a bomb
  P2  W/A/S/D move, Space plants a bomb
  P3  I/J/K/L move, M plants a bomb
  P4  T/F/G/H move, V plants a bomb

  P          - Pause
  R          - New match (after game over)
  B/Esc      - Leave (when paused or over)
  Ctrl+S     - Save a screenshot
  Q/Ctrl+C   - Quit

Presets:
  easy   - 5 lives, longer fuse, fewer boxes
  normal - the config as loaded
  hard   - 1 life, 2 bombs, radius 3, short fuse

Examples:
  arena play bomber_duel
  arena play bomber --preset easy
  arena play bomber_trio --seed 7 --config ./my-arena.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 'arena list' to see available variants", gameID)
	}
	warnConfig()

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	if _, err := tui.Run(game, store, runtimeConfig(width, height), logger); err != nil {
		return fmt.Errorf("running %s: %w", gameID, err)
	}
	return nil
}

// warnConfig reports a config file that cannot be used before the screen
// switches to the game, which then falls back to defaults.
func warnConfig() {
	if _, err := config.LoadBomber(flagConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
}

// openStore opens the history database, or returns nil when it cannot be
// opened; matches are then played without being recorded.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		logger.Warn("history disabled", "err", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
