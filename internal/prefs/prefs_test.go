package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultTheme, p.Theme)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")
	require.NoError(t, Save(path, Prefs{Theme: "dracula"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "dracula")

	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "dracula", p.Theme)
}

func TestLoadMalformedFileReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = ["), 0o644))
	p, err := Load(path)
	require.Error(t, err)
	require.Equal(t, DefaultTheme, p.Theme)
}

func TestBlankThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte("theme = '  '\n"), 0o644))
	p, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultTheme, p.Theme)
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err := ExpandPath("~/x/prefs.toml")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "x", "prefs.toml"), got)
}
