package app

import (
	"errors"
	"fmt"

	"github.com/atomicstack/termext/internal/backend"
	"github.com/atomicstack/termext/internal/cache"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/extensions"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/manifest"
	"github.com/atomicstack/termext/internal/prefs"
	"github.com/atomicstack/termext/internal/theme"
	"github.com/atomicstack/termext/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Config describes user-provided application options.
type Config struct {
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	RootCommand   string
	ExtensionsDir string
	CachePath     string
	PrefsPath     string
	LogPath       string
}

// Registry returns the bundled extensions plus every manifest found in dir.
// Broken manifests are logged and skipped.
func Registry(dir string) (*ext.Registry, error) {
	reg := ext.NewRegistry()
	if err := extensions.Register(reg); err != nil {
		return nil, fmt.Errorf("register builtin extensions: %w", err)
	}
	found, errs := manifest.Discover(dir)
	for _, err := range errs {
		logging.Errorf("load manifest", err, zap.String("dir", dir))
	}
	for _, e := range found {
		if err := reg.Register(e); err != nil {
			logging.Errorf("register manifest", err, zap.String("extension", e.Name))
		}
	}
	return reg, nil
}

// openStore falls back to an in-memory cache when no path is configured or
// the database cannot be opened.
func openStore(path string) (cache.Store, func()) {
	if path == "" {
		return cache.NewMemory(), func() {}
	}
	db, err := cache.OpenSQLite(path)
	if err != nil {
		logging.Errorf("open cache, using memory", err, zap.String("path", path))
		return cache.NewMemory(), func() {}
	}
	return db, func() {
		if err := db.Close(); err != nil {
			logging.Error(err)
		}
	}
}

// applyPrefs activates the saved theme and returns the callback the UI uses
// to persist a new choice.
func applyPrefs(path string) func(string) error {
	p, err := prefs.Load(path)
	if err != nil {
		logging.Errorf("load prefs", err)
	}
	if _, err := theme.Set(p.Theme); err != nil {
		logging.Errorf("apply theme", err, zap.String("theme", p.Theme))
	}
	return func(name string) error {
		p.Theme = name
		return prefs.Save(path, p)
	}
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	saveTheme := applyPrefs(cfg.PrefsPath)
	registry, err := Registry(cfg.ExtensionsDir)
	if err != nil {
		return err
	}
	store, closeStore := openStore(cfg.CachePath)
	defer closeStore()

	watcher := backend.NewWatcher()
	defer watcher.Stop()
	model := ui.NewModel(ui.Options{
		Registry:    registry,
		Store:       store,
		Watcher:     watcher,
		Width:       cfg.Width,
		Height:      cfg.Height,
		ShowFooter:  cfg.ShowFooter,
		Verbose:     cfg.Verbose,
		RootCommand: cfg.RootCommand,
		LogPath:     cfg.LogPath,
		SaveTheme:   saveTheme,
	})
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
