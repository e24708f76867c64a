package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/progress"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List all levels",
	Long:  `Shows every level of the catalogue with its quota and unlock state.`,
	RunE:  runLevels,
}

func runLevels(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	writeLevels(cmd.OutOrStdout(), a.catalog, a.loadSave())
	return nil
}

// writeLevels prints the catalogue as a table.
func writeLevels(w io.Writer, cat config.Catalog, save progress.SaveState) {
	if len(cat.Levels) == 0 {
		fmt.Fprintln(w, "No levels available.")
		return
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range cat.Levels {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Fprintf(w, "  %-3s  %-*s  %-7s  %-5s  %s\n", "#", maxNameLen, "Name", "Biome", "Quota", "State")
	fmt.Fprintf(w, "  %-3s  %-*s  %-7s  %-5s  %s\n", "-", maxNameLen, "----", "-----", "-----", "-----")

	// Print levels
	for _, l := range cat.Levels {
		fmt.Fprintf(w, "  %-3d  %-*s  %-7s  %-5d  %s\n", l.ID, maxNameLen, l.Name, l.Biome, l.Quota, levelState(l, save))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'loopy play <#>' to play an open level.")
}

func levelState(l config.LevelDef, save progress.SaveState) string {
	if !save.IsUnlocked(l.ID) {
		return "locked"
	}
	state := "open"
	if _, ok := save.LevelBest[l.ID]; ok {
		state = "cleared"
	}
	switch {
	case l.Boss:
		state += " (guardian)"
	case l.Milestone:
		state += " (milestone)"
	}
	return state
}
