package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"

	"github.com/google/shlex"
)

var errNoMatch = errors.New("no keybind matches")

// commandRunner runs a single keybind command to completion.
type commandRunner interface {
	Run(ctx context.Context, command string) error
}

// Runner executes keybind commands through a shell, synchronously, with the
// current environment and standard streams.
type Runner struct {
	shell  []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// newRunner builds a Runner from a shell prefix such as "/bin/sh -c".
//
// Parameters:
//   - shell: Shell command line, split with POSIX quoting rules.
//
// Returns:
//   - *Runner: A runner attached to the process' standard streams.
//   - error: Non-nil if shell cannot be split or is empty.
func newRunner(shell string) (*Runner, error) {
	argv, err := shlex.Split(shell)
	if err != nil {
		return nil, fmt.Errorf("splitting shell %q: %w", shell, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("shell is empty")
	}
	return &Runner{
		shell:  argv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}, nil
}

// Run starts the shell with command as its last argument and waits for it.
func (r *Runner) Run(ctx context.Context, command string) error {
	args := append(slices.Clone(r.shell[1:]), command)
	c := exec.CommandContext(ctx, r.shell[0], args...)
	c.Stdin = r.Stdin
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to run command %q: %w", command, err)
	}
	return nil
}

// execKeystroke runs every command bound to keystroke, in table order. Command
// failures are logged and do not stop the remaining commands.
//
// Parameters:
//   - ctx: Context for the spawned processes.
//   - table: Keybind table to search.
//   - keystroke: Keystroke as written in the sxhkdrc, e.g. "super + Return".
//   - runner: Executes each matching command.
//
// Returns:
//   - int: Number of commands started.
//   - error: errNoMatch if no keybind uses keystroke.
func execKeystroke(ctx context.Context, table Table, keystroke string, runner commandRunner) (int, error) {
	cmds := table.Commands(keystroke)
	if len(cmds) == 0 {
		return 0, fmt.Errorf("%w %q", errNoMatch, keystroke)
	}
	for _, cmd := range cmds {
		slog.Debug("Executing command", "keystroke", keystroke, "command", cmd)
		if err := runner.Run(ctx, cmd); err != nil {
			slog.Warn("Command failed", "keystroke", keystroke, "err", err)
		}
	}
	return len(cmds), nil
}
