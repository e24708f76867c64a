package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/loopy/internal/audio"
	"github.com/vovakirdan/loopy/internal/config"
	"github.com/vovakirdan/loopy/internal/core"
	"github.com/vovakirdan/loopy/internal/games/loopy"
	"github.com/vovakirdan/loopy/internal/platform/tui"
	"github.com/vovakirdan/loopy/internal/progress"
	"github.com/vovakirdan/loopy/internal/registry"
	"github.com/vovakirdan/loopy/internal/storage"
)

// appOptions selects the collaborators a command needs.
type appOptions struct {
	store   bool // open the save database
	audio   bool // start the speaker
	logFile bool // log to ~/.loopy/loopy.log instead of stderr
}

// app holds everything a command needs, built from the global flags.
type app struct {
	log     *log.Logger
	balance config.Balance
	catalog config.Catalog
	preset  config.DifficultyPreset
	store   *storage.Store
	games   *registry.Registry
	audio   *audio.Player
	logFile *os.File
}

// newLogger builds the CLI logger at the given level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "loopy",
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// newApp loads configuration and opens the requested collaborators.
func newApp(opts appOptions) (*app, error) {
	a := &app{}

	var out io.Writer = os.Stderr
	if opts.logFile {
		// The TUI owns the terminal, so logs go to a file.
		if f, err := openLogFile(); err == nil {
			a.logFile = f
			out = f
		} else {
			out = io.Discard
		}
	}
	lg, err := newLogger(out, flagLogLevel)
	if err != nil {
		return nil, err
	}
	a.log = lg

	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	a.preset = preset

	if a.balance, err = config.LoadBalance(flagConfig); err != nil {
		return nil, err
	}
	if a.catalog, err = config.LoadLevels(flagLevels); err != nil {
		return nil, err
	}

	if opts.store {
		store, err := storage.Open(flagDBPath, storage.WithLogger(lg))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
	}

	a.games = registry.New()
	if err := loopy.Register(a.games, a.catalog, a.levelOptions()...); err != nil {
		a.Close()
		return nil, err
	}

	if opts.audio {
		a.audio = audio.NewPlayer(a.loadSave().Settings, lg)
		if err := a.audio.Start(); err != nil {
			lg.Warn("audio disabled", "error", err)
		}
	}

	lg.Debug("app ready",
		"levels", len(a.catalog.Levels),
		"difficulty", a.preset,
		"db", flagDBPath,
	)
	return a, nil
}

// levelOptions returns the options every level is created with.
func (a *app) levelOptions() []loopy.Option {
	opts := []loopy.Option{
		loopy.WithLogger(a.log),
		loopy.WithPreset(a.preset),
		loopy.WithBalance(a.balance),
	}
	if a.store != nil {
		opts = append(opts, loopy.WithStore(a.store))
	}
	return opts
}

// loadSave returns the stored save, or defaults if none can be read.
func (a *app) loadSave() progress.SaveState {
	if a.store == nil {
		return progress.Defaults()
	}
	s, err := a.store.Load()
	if err != nil {
		a.log.Warn("could not load save", "error", err)
		return progress.Defaults()
	}
	return s
}

// deps returns the collaborators shared by TUI screens.
func (a *app) deps() tui.Deps {
	return tui.Deps{
		Games:   a.games,
		Catalog: a.catalog,
		Store:   a.store,
		Audio:   a.audio,
		Logger:  a.log,
	}
}

// Close releases the audio device, the database and the log file.
func (a *app) Close() {
	if a.audio != nil {
		a.audio.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.log != nil {
			a.log.Warn("could not close store", "error", err)
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// runtimeConfig builds the runtime config for the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".loopy")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "loopy.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //#nosec G304 -- fixed path under home
}
