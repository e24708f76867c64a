package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/loopy/internal/storage"
)

var flagSaveYes bool

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Inspect or reset the save",
	Long: `Inspect or reset the persisted save: unlocked levels, best scores,
lifetime totals, settings and run history.

Examples:
  loopy save show
  loopy save reset --yes`,
}

var saveShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the save as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSaveShow,
}

var saveResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all progress and run history",
	Args:  cobra.NoArgs,
	RunE:  runSaveReset,
}

func init() {
	saveResetCmd.Flags().BoolVar(&flagSaveYes, "yes", false, "Confirm the reset")
	saveCmd.AddCommand(saveShowCmd)
	saveCmd.AddCommand(saveResetCmd)
}

func runSaveShow(cmd *cobra.Command, _ []string) error {
	a, err := newApp(appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	return showSave(cmd.OutOrStdout(), a.store)
}

// showSave prints the stored save, or a note when nothing is saved yet.
func showSave(w io.Writer, store *storage.Store) error {
	st, err := store.Stored()
	if errors.Is(err, storage.ErrNoSave) {
		fmt.Fprintln(w, "No save yet. Progress is stored once a level is cleared.")
		return nil
	}
	if err != nil {
		return err
	}
	return writeJSON(w, st)
}

func runSaveReset(cmd *cobra.Command, _ []string) error {
	if !flagSaveYes {
		return errors.New("refusing to reset without --yes")
	}

	a, err := newApp(appOptions{store: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Reset(); err != nil {
		return err
	}
	a.log.Info("save reset", "db", flagDBPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Save reset.")
	return nil
}
