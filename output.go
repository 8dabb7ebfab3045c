package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// printKeybinds writes the table in the requested format.
func printKeybinds(w io.Writer, table Table, format string, tabWidth int) error {
	switch format {
	case "json":
		return renderJSON(w, table)
	case "yaml":
		return renderYAML(w, table)
	default:
		return renderTable(w, table, tabWidth)
	}
}

// renderTable writes one "description keystroke command" line per keybind with
// columns aligned on tab stops every tabWidth cells.
func renderTable(w io.Writer, table Table, tabWidth int) error {
	for _, kb := range table {
		line := kb.Description + "\t" + kb.Keystroke + "\t" + kb.Command
		if _, err := fmt.Fprintln(w, expandTabs(line, tabWidth)); err != nil {
			return err
		}
	}
	return nil
}

func renderJSON(w io.Writer, table Table) error {
	if table == nil {
		table = Table{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(table)
}

func renderYAML(w io.Writer, table Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return err
	}
	return enc.Close()
}

// printRaw writes the sxhkdrc verbatim, preceded by its location.
func printRaw(w io.Writer, s *Session) error {
	_, err := fmt.Fprintf(w, "Config location: %s\n%s\n", s.Path(), s.Raw())
	return err
}

// expandTabs replaces each tab with spaces up to the next multiple of width,
// measuring columns in terminal cells. Newlines reset the column.
func expandTabs(s string, width int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col += runewidth.RuneWidth(r)
		}
	}
	return b.String()
}
