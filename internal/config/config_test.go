package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	require.NoError(t, err)
	require.Zero(t, cfg.App.Width)
	require.False(t, cfg.App.ShowFooter)
	require.Empty(t, cfg.App.RootCommand)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".cache/termext/cache.db"), cfg.App.CachePath)
	require.Equal(t, filepath.Join(home, ".config/termext/prefs.toml"), cfg.App.PrefsPath)
}

func TestEnvironmentProvidesDefaults(t *testing.T) {
	env := []string{
		"TERMEXT_WIDTH=120",
		"TERMEXT_FOOTER=true",
		"TERMEXT_COMMAND=todo/list",
		"TERMEXT_CACHE=",
		"TERMEXT_WIDTH_IGNORED",
	}
	cfg, err := LoadArgs(nil, env)
	require.NoError(t, err)
	require.Equal(t, 120, cfg.App.Width)
	require.True(t, cfg.App.ShowFooter)
	require.Equal(t, "todo/list", cfg.App.RootCommand)
	require.Empty(t, cfg.App.CachePath)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := LoadArgs([]string{"--width", "80", "--trace", "-c", "fruits/browse"}, []string{"TERMEXT_WIDTH=120"})
	require.NoError(t, err)
	require.Equal(t, 80, cfg.App.Width)
	require.True(t, cfg.Logging.Trace)
	require.Equal(t, "fruits/browse", cfg.App.RootCommand)
	require.Equal(t, "80", cfg.Flags["width"])
}

func TestPositionalCommand(t *testing.T) {
	cfg, err := LoadArgs([]string{"--command", "a/b", "pkgs/search"}, nil)
	require.NoError(t, err)
	require.Equal(t, "pkgs/search", cfg.App.RootCommand)
	require.Equal(t, []string{"pkgs/search"}, cfg.Args)

	_, err = LoadArgs([]string{"one", "two"}, nil)
	require.Error(t, err)
}

func TestInvalidValues(t *testing.T) {
	_, err := LoadArgs([]string{"--height", "-1"}, nil)
	require.ErrorContains(t, err, "height must be >= 0")

	_, err = LoadArgs([]string{"--nope"}, nil)
	require.Error(t, err)

	cfg, err := LoadArgs(nil, []string{"TERMEXT_HEIGHT=tall"})
	require.NoError(t, err)
	require.Zero(t, cfg.App.Height)
}
