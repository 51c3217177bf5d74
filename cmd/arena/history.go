package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bomb-arena/internal/platform/tui"
	"github.com/vovakirdan/bomb-arena/internal/registry"
	"github.com/vovakirdan/bomb-arena/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
	flagHistoryTUI   bool
)

var historyCmd = &cobra.Command{
	Use:   "history [variant]",
	Short: "Show finished matches",
	Long: `Display recent matches and per-slot totals, for one variant or all.

Examples:
  arena history
  arena history bomber_duel --limit 5
  arena history -i
  arena history bomber --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "Number of matches to show")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the history instead of showing it")
	historyCmd.Flags().BoolVarP(&flagHistoryTUI, "interactive", "i", false, "Browse the history interactively")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var gameID string
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			return fmt.Errorf("unknown variant %q, run 'arena list' to see available variants", gameID)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	switch {
	case flagHistoryClear:
		if err := store.ClearMatches(gameID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
		return nil

	case flagHistoryTUI:
		width, height := terminalSize()
		_, err := tui.RunHistory(store, width, height)
		return err
	}

	return printHistory(cmd.OutOrStdout(), store, gameID, flagHistoryLimit)
}

// printHistory writes the recent matches and the per-slot totals as text.
func printHistory(out io.Writer, store *storage.Store, gameID string, limit int) error {
	matches, err := store.RecentMatches(gameID, limit)
	if err != nil {
		return err
	}

	title := "all variants"
	if gameID != "" {
		title = gameID
	}
	fmt.Fprintf(out, "Match history - %s\n\n", title)

	if len(matches) == 0 {
		fmt.Fprintln(out, "No matches recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %-12s  %-6s  %-5s  %s\n", "Date", "Variant", "Winner", "Time", "Kills/Deaths")
	fmt.Fprintf(out, "  %-16s  %-12s  %-6s  %-5s  %s\n", "----", "-------", "------", "----", "------------")
	for _, m := range matches {
		winner := "draw"
		if w, ok := m.Winner(); ok {
			winner = fmt.Sprintf("P%d", w.Slot+1)
		}
		kd := ""
		for i, l := range m.Lines {
			if i > 0 {
				kd += " "
			}
			kd += fmt.Sprintf("P%d %d/%d", l.Slot+1, l.Kills, l.Deaths)
		}
		fmt.Fprintf(out, "  %-16s  %-12s  %-6s  %-5s  %s\n",
			m.CreatedAt.Local().Format("2006-01-02 15:04"), m.GameID, winner, formatDuration(m.Duration), kd)
	}

	stats, err := store.SlotStats(gameID)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-4s  %7s  %4s  %5s  %6s\n", "Slot", "Matches", "Wins", "Kills", "Deaths")
	for _, st := range stats {
		fmt.Fprintf(out, "  P%-3d  %7d  %4d  %5d  %6d\n", st.Slot+1, st.Matches, st.Wins, st.Kills, st.Deaths)
	}

	if gameID != "" {
		gs, err := store.GetGameStats(gameID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n%d matches, %d draws, average %s\n", gs.Matches, gs.Draws, formatDuration(gs.AvgDuration))
	}
	return nil
}

// formatDuration renders d as m:ss.
func formatDuration(d time.Duration) string {
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
