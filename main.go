package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/termext/internal/app"
	"github.com/atomicstack/termext/internal/config"
	"github.com/atomicstack/termext/internal/ext"
	"github.com/atomicstack/termext/internal/format/table"
	"github.com/atomicstack/termext/internal/logging"
	"github.com/atomicstack/termext/internal/logging/events"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

func main() {
	// a missing .env is fine
	_ = godotenv.Load()
	defer logging.Sync()

	if err := newRootCmd(os.Environ()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(environ []string) *cobra.Command {
	var flags *config.Flags
	root := &cobra.Command{
		Use:   "termext [command]",
		Short: "Run launcher extensions in the terminal",
		Long: `termext hosts launcher-style extensions in a terminal UI.

Without arguments it opens the command catalog. Pass a command ID such as
"todo/list" (or an unambiguous command name) to open it directly.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Config(args)
			if err != nil {
				return err
			}
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			traceStartup(cfg)
			if err := app.Run(cfg.App); err != nil {
				logging.Error(err)
				return err
			}
			return nil
		},
	}
	flags = config.Register(root.PersistentFlags(), environ)

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every available command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Config(nil)
			if err != nil {
				return err
			}
			reg, err := app.Registry(cfg.App.ExtensionsDir)
			if err != nil {
				return err
			}
			printCatalog(cmd.OutOrStdout(), reg)
			return nil
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "termext version %s\n", version)
		},
	})
	return root
}

func printCatalog(w io.Writer, reg *ext.Registry) {
	rows := [][]string{{"COMMAND", "TITLE", "KIND", "DESCRIPTION"}}
	for _, e := range reg.Extensions() {
		for _, c := range e.Commands {
			kind := "view"
			if c.View == nil {
				kind = "run"
			}
			rows = append(rows, []string{c.ID(), c.Title, kind, c.Subtitle})
		}
	}
	for _, line := range table.Format(rows, []table.Alignment{table.AlignLeft}) {
		fmt.Fprintln(w, line)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"config":  cfg,
		"version": version,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
