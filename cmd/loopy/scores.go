package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/progress"
	"github.com/vovakirdan/loopy/internal/storage"
)

var flagRecent int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show best scores",
	Long: `Display the best score per level together with run statistics
from the history. --recent also lists the latest runs.

Examples:
  loopy scores
  loopy scores --recent 10`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 0, "Also list this many recent runs")
}

func runScores(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.store.AllLevelStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	out := cmd.OutOrStdout()
	writeScores(out, a.catalog, a.loadSave(), stats)

	if flagRecent > 0 {
		runs, err := a.store.RecentRuns(0, flagRecent)
		if err != nil {
			return fmt.Errorf("retrieving runs: %w", err)
		}
		fmt.Fprintln(out)
		writeRuns(out, runs)
	}
	return nil
}

// writeScores prints one row per level that has a best score or a run.
func writeScores(w io.Writer, cat config.Catalog, save progress.SaveState, stats map[int]*storage.LevelStats) {
	fmt.Fprintln(w, "Best Scores")
	fmt.Fprintln(w)

	rows := 0
	for _, l := range cat.Levels {
		best, hasBest := save.LevelBest[l.ID]
		st := stats[l.ID]
		if !hasBest && st == nil {
			continue
		}
		if rows == 0 {
			fmt.Fprintf(w, "  %-3s  %-22s  %-7s  %-5s  %-7s  %s\n", "#", "Level", "Best", "Runs", "Cleared", "Avg")
			fmt.Fprintf(w, "  %-3s  %-22s  %-7s  %-5s  %-7s  %s\n", "-", "-----", "----", "----", "-------", "---")
		}
		rows++

		bestStr := "-"
		if hasBest {
			bestStr = fmt.Sprintf("%d", best)
		}
		runs, cleared, avg := 0, 0, 0.0
		if st != nil {
			runs, cleared, avg = st.Runs, st.Completed, st.AvgScore
		}
		fmt.Fprintf(w, "  %-3d  %-22s  %-7s  %-5d  %-7d  %.0f\n", l.ID, l.Name, bestStr, runs, cleared, avg)
	}

	if rows == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 'loopy play' to set the first one!")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total best: %d\n", save.TotalBest())
	fmt.Fprintf(w, "Seeds: %d  Universe seeds: %d  Blooms cast: %d\n",
		save.Totals.Seeds, save.Totals.UniverseSeeds, save.Totals.BloomsCast)
}

// writeRuns prints the given runs, newest first.
func writeRuns(w io.Writer, runs []storage.RunRecord) {
	fmt.Fprintln(w, "Recent Runs")
	fmt.Fprintln(w)
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded yet.")
		return
	}
	fmt.Fprintf(w, "  %-3s  %-10s  %-7s  %-6s  %-8s  %s\n", "#", "Outcome", "Score", "Deaths", "Time", "Date")
	for _, r := range runs {
		fmt.Fprintf(w, "  %-3d  %-10s  %-7d  %-6d  %-8s  %s\n",
			r.LevelID, r.Outcome, r.Score, r.Deaths,
			fmt.Sprintf("%.1fs", float64(r.DurationMs)/1000),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
