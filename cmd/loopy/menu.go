package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/loopy/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to start a level.
After a run ends, press Enter to return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Start level
  Tab          - Scoreboard
  Q            - Quit

Examples:
  loopy menu
  loopy menu --fps 30
  loopy menu --db ./loopy.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{store: true, audio: true, logFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := tui.RunSession(a.deps(), runtimeConfig()); err != nil {
		return fmt.Errorf("running menu: %w", err)
	}
	return nil
}
