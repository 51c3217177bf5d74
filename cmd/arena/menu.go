package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bomb-arena/internal/platform/tui"
	"github.com/vovakirdan/bomb-arena/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a variant picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a match and Tab for
the match history. Leaving a finished match returns to the menu.

Examples:
  arena menu
  arena menu --fps 30
  arena menu --db ./arena.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	warnConfig()

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	cfg := runtimeConfig(width, height)

	for {
		res, err := tui.RunMenu(cfg)
		if err != nil {
			return err
		}
		cfg = res.Config

		switch {
		case res.Quit:
			return nil

		case res.WantsHistory:
			back, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !back {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			return err
		}

		run := cfg
		if run.Seed == 0 {
			run.Seed = time.Now().UnixNano()
		}
		back, err := tui.Run(game, store, run, logger)
		if err != nil {
			return fmt.Errorf("running %s: %w", res.GameID, err)
		}
		if !back {
			return nil
		}
	}
}
