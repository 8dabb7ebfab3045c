package main

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	ran  []string
	fail map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, command string) error {
	f.ran = append(f.ran, command)
	if f.fail[command] {
		return errors.New("exit status 1")
	}
	return nil
}

func TestExecKeystroke(t *testing.T) {
	t.Parallel()

	table := Table{
		{"Browser", "super + r", "firefox"},
		{"Terminal", "super + Return", "alacritty"},
		{"Notify", "super + r", "notify-send browser"},
	}

	t.Run("runs every matching command", func(t *testing.T) {
		t.Parallel()

		r := &fakeRunner{}
		n, err := execKeystroke(context.Background(), table, "super + r", r)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"firefox", "notify-send browser"}, r.ran)
	})

	t.Run("failures do not stop later commands", func(t *testing.T) {
		t.Parallel()

		r := &fakeRunner{fail: map[string]bool{"firefox": true}}
		n, err := execKeystroke(context.Background(), table, "super + r", r)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"firefox", "notify-send browser"}, r.ran)
	})

	t.Run("unmatched keystroke runs nothing", func(t *testing.T) {
		t.Parallel()

		r := &fakeRunner{}
		n, err := execKeystroke(context.Background(), table, "super + x", r)
		require.ErrorIs(t, err, errNoMatch)
		assert.Zero(t, n)
		assert.Empty(t, r.ran)
	})
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	r, err := newRunner(`bash -o pipefail -c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"bash", "-o", "pipefail", "-c"}, r.shell)

	r, err = newRunner(`"/opt/my shell/sh" -c`)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/my shell/sh", "-c"}, r.shell)

	_, err = newRunner("")
	assert.Error(t, err)

	_, err = newRunner(`"unterminated`)
	assert.Error(t, err)
}

func TestRunnerRun(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires /bin/sh")
	}
	t.Parallel()

	t.Run("passes the command to the shell", func(t *testing.T) {
		t.Parallel()

		r, err := newRunner(DEFAULT_SHELL)
		require.NoError(t, err)
		var out bytes.Buffer
		r.Stdin, r.Stdout = nil, &out

		require.NoError(t, r.Run(context.Background(), "echo hello; echo world"))
		assert.Equal(t, "hello\nworld\n", out.String())
	})

	t.Run("reports exit status", func(t *testing.T) {
		t.Parallel()

		r, err := newRunner(DEFAULT_SHELL)
		require.NoError(t, err)
		r.Stdin, r.Stdout, r.Stderr = nil, nil, nil

		err = r.Run(context.Background(), "exit 3")
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 3, exitErr.ExitCode())
	})
}
