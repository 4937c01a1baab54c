package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/termext/internal/app"
	"github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envWidth         = "TERMEXT_WIDTH"
	envHeight        = "TERMEXT_HEIGHT"
	envShowFooter    = "TERMEXT_FOOTER"
	envVerbose       = "TERMEXT_VERBOSE"
	envTrace         = "TERMEXT_TRACE"
	envLogFile       = "TERMEXT_LOG_FILE"
	envCommand       = "TERMEXT_COMMAND"
	envExtensionsDir = "TERMEXT_EXTENSIONS_DIR"
	envCache         = "TERMEXT_CACHE"
	envPrefs         = "TERMEXT_PREFS"
)

const (
	defaultExtensionsDir = "~/.config/termext/extensions"
	defaultCachePath     = "~/.cache/termext/cache.db"
	defaultPrefsPath     = "~/.config/termext/prefs.toml"
)

// Flags holds the values bound to a flag set. Environment variables
// provide the defaults; explicit flags win.
type Flags struct {
	width         *int
	height        *int
	footer        *bool
	trace         *bool
	verbose       *bool
	logFile       *string
	command       *string
	extensionsDir *string
	cachePath     *string
	prefsPath     *string
}

// Register binds every option to fs.
func Register(fs *pflag.FlagSet, environ []string) *Flags {
	env := parseEnv(environ)
	return &Flags{
		width:         fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:        fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		footer:        fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row"),
		trace:         fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		verbose:       fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions"),
		logFile:       fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		command:       fs.StringP("command", "c", envOrDefault(env, envCommand, ""), "open this command instead of the catalog"),
		extensionsDir: fs.String("extensions-dir", envOrDefault(env, envExtensionsDir, defaultExtensionsDir), "directory scanned for YAML extension manifests"),
		cachePath:     fs.String("cache", envOrDefault(env, envCache, defaultCachePath), "path to the extension cache database"),
		prefsPath:     fs.String("prefs", envOrDefault(env, envPrefs, defaultPrefsPath), "path to the preferences file"),
	}
}

// Config validates the parsed flags. args are the positional arguments; the
// first one, when present, names the command to open.
func (f *Flags) Config(args []string) (Config, error) {
	if *f.width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *f.width)
	}
	if *f.height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *f.height)
	}
	if len(args) > 1 {
		return Config{}, fmt.Errorf("expected at most one command, got %d", len(args))
	}
	command := *f.command
	if len(args) == 1 {
		command = args[0]
	}
	extDir, err := expandPath(*f.extensionsDir)
	if err != nil {
		return Config{}, fmt.Errorf("extensions dir: %w", err)
	}
	cachePath, err := expandPath(*f.cachePath)
	if err != nil {
		return Config{}, fmt.Errorf("cache: %w", err)
	}
	prefsPath, err := expandPath(*f.prefsPath)
	if err != nil {
		return Config{}, fmt.Errorf("prefs: %w", err)
	}

	cfg := Config{
		App: app.Config{
			Width:         *f.width,
			Height:        *f.height,
			ShowFooter:    *f.footer,
			Verbose:       *f.verbose,
			RootCommand:   command,
			ExtensionsDir: extDir,
			CachePath:     cachePath,
			PrefsPath:     prefsPath,
			LogPath:       *f.logFile,
		},
		Logging: Logging{
			FilePath: *f.logFile,
			Trace:    *f.trace,
		},
		Flags: map[string]string{
			"width":         strconv.Itoa(*f.width),
			"height":        strconv.Itoa(*f.height),
			"footer":        strconv.FormatBool(*f.footer),
			"trace":         strconv.FormatBool(*f.trace),
			"verbose":       strconv.FormatBool(*f.verbose),
			"logFile":       *f.logFile,
			"command":       command,
			"extensionsDir": extDir,
			"cache":         cachePath,
			"prefs":         prefsPath,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("termext", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	flags := Register(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return flags.Config(fs.Args())
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// expandPath resolves a leading ~. Empty paths stay empty and disable the
// feature they configure.
func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return trimmed, nil
}
