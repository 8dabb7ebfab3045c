package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// Keybind is one fully unchained row of the keybind table.
type Keybind struct {
	Description string `json:"description" yaml:"description"`
	Keystroke   string `json:"keystroke" yaml:"keystroke"`
	Command     string `json:"command" yaml:"command"`
}

// Table holds keybinds in block order, then expansion order.
type Table []Keybind

// Lookup returns every row bound to keystroke, in table order. Whitespace runs
// are collapsed on both sides before comparing.
func (t Table) Lookup(keystroke string) []Keybind {
	want := normalizeKeystroke(keystroke)
	var out []Keybind
	for _, kb := range t {
		if normalizeKeystroke(kb.Keystroke) == want {
			out = append(out, kb)
		}
	}
	return out
}

// Commands returns the commands bound to keystroke.
func (t Table) Commands(keystroke string) []string {
	var out []string
	for _, kb := range t.Lookup(keystroke) {
		out = append(out, kb.Command)
	}
	return out
}

func normalizeKeystroke(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Parse extracts, normalizes and unchains every block of src.
//
// Parameters:
//   - src: sxhkdrc contents.
//   - descriptor: Prefix of description lines.
//
// Returns:
//   - Table: All keybinds; nil if an error occurred.
//   - error: *ChainError for the first block whose keychains cannot be paired.
func Parse(src, descriptor string) (Table, error) {
	var table Table
	for raw := range blocks(src, descriptor) {
		desc, keys, cmd := normalizeBlock(raw, descriptor)
		rows, err := expandBlock(desc, keys, cmd)
		if err != nil {
			return nil, err
		}
		table = append(table, rows...)
	}
	return table, nil
}

// Session owns a loaded sxhkdrc and the keybind table built from it.
type Session struct {
	path       string
	descriptor string
	raw        string
	table      Table
}

// Load reads the sxhkdrc at path once and parses it.
//
// Parameters:
//   - path: Path to the sxhkdrc.
//   - descriptor: Prefix of description lines.
//
// Returns:
//   - *Session: The loaded session.
//   - error: Non-nil if the file cannot be read or a keychain is unbalanced.
func Load(path, descriptor string) (*Session, error) {
	// #nosec G304 - path is chosen by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	table, err := Parse(string(data), descriptor)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Session{
		path:       path,
		descriptor: descriptor,
		raw:        string(data),
		table:      table,
	}, nil
}

func (s *Session) Path() string       { return s.path }
func (s *Session) Descriptor() string { return s.descriptor }

// Raw returns the sxhkdrc exactly as read.
func (s *Session) Raw() string { return s.raw }

// Keybinds returns a copy of the keybind table.
func (s *Session) Keybinds() Table { return slices.Clone(s.table) }
