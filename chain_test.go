package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainPlacement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want Placement
	}{
		{"{a,b}", PlacementWhole},
		{"{super,alt} + r", PlacementPrefix},
		{"{super,alt}r", PlacementPrefix},
		{"super + {_,shift} + r", PlacementInfix},
		{"r + {1,2}", PlacementSuffix},
		{"super+{a,b}+x", PlacementInline},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			c, ok := findChain(tt.line)
			require.True(t, ok)
			assert.Equal(t, tt.want, c.placement(), "placement %s", c.placement())
		})
	}
}

func TestFindChain(t *testing.T) {
	t.Parallel()

	t.Run("no braces", func(t *testing.T) {
		t.Parallel()
		_, ok := findChain("super + Return")
		assert.False(t, ok)
	})

	t.Run("closing brace before opening", func(t *testing.T) {
		t.Parallel()
		_, ok := findChain("a } b {")
		assert.False(t, ok)
	})

	t.Run("spans first to last brace", func(t *testing.T) {
		t.Parallel()
		c, ok := findChain("x {a,b} y")
		require.True(t, ok)
		assert.Equal(t, "x ", c.before())
		assert.Equal(t, " y", c.after())
		assert.Equal(t, []string{"a", "b"}, c.alternatives())
	})
}

func TestExpandKeystroke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    []string
		chained bool
	}{
		{"unchained", "super + Return", []string{"super + Return"}, false},
		{"whole line", "{a,b}", []string{"a", "b"}, true},
		{"prefix", "{super,alt} + r", []string{"super + r", "alt + r"}, true},
		{"prefix without separator", "{super,alt}r", []string{"super + r", "alt + r"}, true},
		{"infix", "super + {ctrl,shift} + r", []string{"super + ctrl + r", "super + shift + r"}, true},
		{"suffix", "r + {1,2}", []string{"r + 1", "r + 2"}, true},
		{"inline", "super+{a,b}+x", []string{"super+a+x", "super+b+x"}, true},
		{"infix wildcard", "super + {_,shift} + r", []string{"super + r", "super + shift + r"}, true},
		{"prefix wildcard", "{_,ctrl} + x", []string{"x", "ctrl + x"}, true},
		{"whole wildcard", "{_,a}", []string{" ", "a"}, true},
		{"suffix wildcard", "super + {_,a}", []string{"super +  ", "super + a"}, true},
		{"alternatives are bare keys", "{ shift + , ctrl }", []string{"shift", "ctrl"}, true},
		{"whitespace inside chain", "super + {h, j}", []string{"super + h", "super + j"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, chained := expandKeystroke(tt.line)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.chained, chained)
		})
	}
}

func TestExpandCommand(t *testing.T) {
	t.Parallel()

	got, chained := expandCommand("bspc desktop -f {1, 2}")
	assert.True(t, chained)
	assert.Equal(t, []string{"bspc desktop -f 1", "bspc desktop -f 2"}, got)

	got, chained = expandCommand("mpc {toggle,next_song}")
	assert.True(t, chained)
	assert.Equal(t, []string{"mpc toggle", "mpc next_song"}, got, "underscores are not wildcards in commands")

	got, chained = expandCommand("notify-send ${HOME}")
	assert.False(t, chained, "shell braces are not a keychain")
	assert.Equal(t, []string{"notify-send ${HOME}"}, got)

	got, chained = expandCommand("firefox")
	assert.False(t, chained)
	assert.Equal(t, []string{"firefox"}, got)
}

func TestExpandBlock(t *testing.T) {
	t.Parallel()

	t.Run("unchained block yields one row", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Open terminal", "super + Return", "alacritty")
		require.NoError(t, err)
		assert.Equal(t, []Keybind{{"Open terminal", "super + Return", "alacritty"}}, rows)
	})

	t.Run("dual chains pair positionally", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Launch", "{super,alt} + r", "{a,b}")
		require.NoError(t, err)
		assert.Equal(t, []Keybind{
			{"Launch", "super + r", "a"},
			{"Launch", "alt + r", "b"},
		}, rows)
	})

	t.Run("keystroke chain broadcasts command", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Browser", "{super,alt} + r", "firefox")
		require.NoError(t, err)
		assert.Equal(t, []Keybind{
			{"Browser", "super + r", "firefox"},
			{"Browser", "alt + r", "firefox"},
		}, rows)
	})

	t.Run("single keystroke alternative broadcasts", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Desk", "super + {d}", "bspc desktop -f {1,2}")
		require.NoError(t, err)
		assert.Equal(t, []Keybind{
			{"Desk", "super + d", "bspc desktop -f 1"},
			{"Desk", "super + d", "bspc desktop -f 2"},
		}, rows)
	})

	t.Run("description is never expanded", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Focus {west,east}", "super + {h,l}", "bspc node -f {west,east}")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, "Focus {west,east}", row.Description)
		}
	})

	t.Run("command chain without keystroke chain aborts", func(t *testing.T) {
		t.Parallel()

		rows, err := expandBlock("Broken", "super + r", "{a,b}")
		require.Error(t, err)
		assert.Nil(t, rows)
		assert.True(t, errors.Is(err, ErrUnbalancedChain))

		var chainErr *ChainError
		require.True(t, errors.As(err, &chainErr))
		assert.Equal(t, 1, chainErr.Keys)
		assert.Equal(t, 2, chainErr.Commands)
		assert.Contains(t, err.Error(), "fix your sxhkdrc")
	})

	t.Run("mismatched chain lengths abort", func(t *testing.T) {
		t.Parallel()

		_, err := expandBlock("Broken", "super + {a,b,c}", "{x,y}")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrChainLength))
		assert.False(t, errors.Is(err, ErrUnbalancedChain))
	})
}
