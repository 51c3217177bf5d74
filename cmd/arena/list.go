package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/bomb-arena/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the match variants",
	Long:  `Shows every registered match variant and its number of players.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, _ []string) {
	games := registry.List()
	out := cmd.OutOrStdout()

	if len(games) == 0 {
		fmt.Fprintln(out, "No variants available.")
		return
	}

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Fprintln(out, "Available variants:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-*s  %-7s  %s\n", maxIDLen, "ID", "Players", "Title")
	fmt.Fprintf(out, "  %-*s  %-7s  %s\n", maxIDLen, "--", "-------", "-----")
	for _, g := range games {
		fmt.Fprintf(out, "  %-*s  %-7d  %s\n", maxIDLen, g.ID, g.Players, g.Title)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'arena play <id>' to start a match.")
}
