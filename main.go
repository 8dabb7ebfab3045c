package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// https://goreleaser.com/cookbooks/using-main.version/
var (
	name    = "kbhelper"
	version = "dev"
	date    = "unknown"
	commit  = "none"
)

var errNothingToDo = errors.New("nothing to do: --print=false without --exec, --raw or --watch")

// flags
type options struct {
	settingsPath string
	config       string
	descriptor   string
	exec         string
	output       string
	shell        string
	logPath      string
	tabWidth     int
	print        bool
	raw          bool
	watch        bool
	verbose      bool
}

// main parses the sxhkdrc and prints, dumps or executes keybinds; any error,
// an unbalanced keychain included, ends the process with status 1.
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   name,
		Short: "keybind helper - standalone sxhkd configuration parser and keystroke runner",
		Long: `Parses an sxhkd configuration into a table of (description, keystroke, command)
rows, unchaining keychains such as "super + {h,j,k,l}" into one row per key.

A keybind is recognized when it is documented like this:

  # Open a terminal
  super + Return
      alacritty

The sxhkdrc location defaults to $sxhkd_config, then ~/.config/sxhkd/sxhkdrc.
The description prefix defaults to $descriptor, then "# ".`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd, opts, os.Getenv)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), s, opts)
		},
	}
	cmd.SetVersionTemplate(versionString() + "\n")

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", defaultConfigPath(), "sxhkdrc location")
	f.StringVarP(&opts.descriptor, "descriptor", "d", DEFAULT_DESCRIPTOR, "comment descriptor marking keybind descriptions")
	f.StringVarP(&opts.exec, "exec", "e", "", "execute the commands bound to this keystroke")
	f.BoolVarP(&opts.print, "print", "p", true, "print the fully unpacked keybind table")
	f.BoolVarP(&opts.raw, "raw", "r", false, "print the raw configuration")
	f.StringVarP(&opts.output, "output", "o", DEFAULT_FORMAT, "table output format: table, json or yaml")
	f.IntVar(&opts.tabWidth, "tab-width", DEFAULT_TAB_WIDTH, "column width of the table output")
	f.StringVar(&opts.shell, "shell", DEFAULT_SHELL, "shell used to run commands")
	f.BoolVarP(&opts.watch, "watch", "w", false, "reprint the table whenever the sxhkdrc changes")
	f.StringVar(&opts.settingsPath, "settings", defaultSettingsPath(), "kbhelper settings file (TOML)")
	f.StringVar(&opts.logPath, "log", "", "append logs to this file instead of stderr")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("exec", "raw", "watch")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString())
		},
	})
	return cmd
}

func versionString() string {
	return fmt.Sprintf("%s %s, built on %s (commit: %s)", name, version, date, commit)
}

// resolveSettings layers defaults, the settings file, the environment and the
// flags set on the command line.
//
// Parameters:
//   - cmd: Command whose flags were parsed.
//   - opts: Parsed flag values.
//   - getenv: Environment lookup, os.Getenv outside tests.
//
// Returns:
//   - *Settings: The validated settings.
//   - error: Non-nil if the settings file is invalid or a value is out of range.
func resolveSettings(cmd *cobra.Command, opts *options, getenv func(string) string) (*Settings, error) {
	path, required := opts.settingsPath, cmd.Flags().Changed("settings")
	if !required {
		if v := getenv(SETTINGS_VAR); v != "" {
			path, required = v, true
		}
	}

	s, err := loadSettings(expandPath(path), required)
	if err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	s.applyEnv(getenv)

	changed := cmd.Flags().Changed
	if changed("config") {
		s.Config = expandPath(opts.config)
	}
	if changed("descriptor") {
		s.Descriptor = opts.descriptor
	}
	if changed("output") {
		s.Output.Format = opts.output
	}
	if changed("tab-width") {
		s.Output.TabWidth = opts.tabWidth
	}
	if changed("shell") {
		s.Exec.Shell = opts.shell
	}
	if changed("log") {
		s.LogPath = expandPath(opts.logPath)
	}
	if changed("verbose") {
		s.Verbose = opts.verbose
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// run loads the session once and performs the requested action.
func run(ctx context.Context, w io.Writer, s *Settings, opts *options) error {
	logFile, err := setupLogging(s.LogPath, s.Verbose)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	if logFile != nil {
		defer logFile.Close() //nolint:errcheck
	}

	session, err := Load(s.Config, s.Descriptor)
	if err != nil {
		return err
	}
	slog.Debug("Loaded keybinds", "count", len(session.Keybinds()), "path", session.Path())

	switch {
	case opts.exec != "":
		runner, err := newRunner(s.Exec.Shell)
		if err != nil {
			return err
		}
		_, err = execKeystroke(ctx, session.Keybinds(), opts.exec, runner)
		return err

	case opts.raw:
		return printRaw(w, session)

	case opts.watch:
		return watchKeybinds(ctx, w, s, session)

	case opts.print:
		return printKeybinds(w, session.Keybinds(), s.Output.Format, s.Output.TabWidth)

	default:
		return errNothingToDo
	}
}

// watchKeybinds prints the table, then prints it again after every change of
// the sxhkdrc until a shutdown signal arrives. A reload that fails keeps the
// previous table.
func watchKeybinds(ctx context.Context, w io.Writer, s *Settings, session *Session) error {
	if err := printKeybinds(w, session.Keybinds(), s.Output.Format, s.Output.TabWidth); err != nil {
		return err
	}

	reload := make(chan struct{}, 1)
	watcher, err := startConfigWatcherWithNotifier(s.Config, func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", s.Config, err)
	}
	defer watcher.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, shutdownSignals()...)
	defer stop()

	slog.Info("Watching for changes", "path", s.Config)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Exiting...")
			return nil
		case <-reload:
			next, err := Load(s.Config, s.Descriptor)
			if err != nil {
				slog.Error("Reload failed, keeping previous keybinds", "err", err)
				continue
			}
			session = next
			slog.Info("Reloaded keybinds", "count", len(session.Keybinds()), "path", session.Path())
			if err := printKeybinds(w, session.Keybinds(), s.Output.Format, s.Output.TabWidth); err != nil {
				return err
			}
		}
	}
}
