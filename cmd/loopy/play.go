package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/platform/tui"
	"github.com/vovakirdan/loopy/internal/progress"
)

var flagAnyLevel bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Start playing a level. Without an argument the highest unlocked
level is played.

Controls:
  WASD/Arrows  - Move
  Space        - Fire (tap) / hold shield (hold)
  X/Shift+Dir  - Dash
  G            - Glide
  Q/E          - Universe Bloom
  P/Esc        - Pause
  R            - Restart (after the run ends)
  Enter/B      - Back (after the run ends or while paused)
  Ctrl+S       - Screenshot
  Ctrl+C       - Quit

Difficulty options:
  easy   - Plays two levels softer
  normal - Level difficulty as designed
  hard   - Plays three levels harder
  fixed  - Every level at entry difficulty

Examples:
  loopy play
  loopy play 4
  loopy play 12 --any
  loopy play 2 --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagAnyLevel, "any", false, "Allow playing locked levels")
}

func runPlay(_ *cobra.Command, args []string) error {
	a, err := newApp(appOptions{store: true, audio: true, logFile: true})
	if err != nil {
		return err
	}
	defer a.Close()

	levelID, err := pickLevel(args, a.loadSave(), flagAnyLevel)
	if err != nil {
		return err
	}
	if !a.games.Exists(loopy.LevelKey(levelID)) {
		return fmt.Errorf("unknown level %d (run 'loopy levels' to see them)", levelID)
	}

	game, err := a.games.Create(loopy.LevelKey(levelID))
	if err != nil {
		return fmt.Errorf("creating level: %w", err)
	}

	a.log.Info("playing", "level", levelID, "difficulty", a.preset)
	if err := tui.Run(game, a.deps(), runtimeConfig()); err != nil {
		return fmt.Errorf("running level: %w", err)
	}
	return nil
}

// pickLevel resolves the level argument against the save. Locked levels
// are refused unless anyLevel is set.
func pickLevel(args []string, save progress.SaveState, anyLevel bool) (int, error) {
	if len(args) == 0 {
		return save.HighestUnlocked, nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("level must be a number, got %q", args[0])
	}
	if !anyLevel && !save.IsUnlocked(id) {
		return 0, fmt.Errorf("level %d is locked: clear level %d first (or pass --any)", id, save.HighestUnlocked)
	}
	return id, nil
}
