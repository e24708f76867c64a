// loopy is a terminal side-scroller: grow a loop of seeds, fill each
// level's quota and reach the exit gate.
//
// Usage:
//
//	loopy play [level]       - Play a level (default: highest unlocked)
//	loopy menu               - Level picker with scoreboard
//	loopy levels             - List levels with unlock state
//	loopy scores             - Best score and run stats per level
//	loopy sim                - Headless run, prints the debug snapshot
//	loopy save show|reset    - Inspect or wipe the save
//	loopy serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible runs
//	--db <path>           - Set database path (default: ~/.loopy/loopy.db)
//	--config <path>       - Balance YAML override
//	--levels <path>       - Level catalogue YAML override
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLevels     string
	flagDifficulty string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "loopy",
	Short: "Loopy - grow your loop, fill the quota, reach the gate",
	Long: `Loopy is a side-scrolling terminal game. Steer a loop of seeds
through nineteen levels, eat food to fill each level's quota and reach
the exit gate before your lives run out.

Available commands:
  play     - Play a level directly
  menu     - Interactive level picker
  levels   - List levels and unlock state
  scores   - Best scores and run history stats
  sim      - Headless simulation for debugging and tests
  save     - Inspect or reset the save
  serve    - Start SSH server for remote play

Examples:
  loopy play
  loopy play 3 --difficulty easy
  loopy menu
  loopy sim --level 1 --ms 5000
  loopy serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.loopy/loopy.db", "Path to save database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom balance YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to custom level catalogue YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(serveCmd)
}
