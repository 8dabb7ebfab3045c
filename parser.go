package main

import (
	"iter"
	"strings"
	"unicode"
)

// DEFAULT_DESCRIPTOR prefixes the comment line that describes a keybind.
const DEFAULT_DESCRIPTOR = "# "

// blockState tracks where the extractor is inside a candidate block.
type blockState int

const (
	seekDescription blockState = iota
	inKeystroke
	inCommand
	inContinuation
)

// blocks scans src line by line and yields every raw keybind block in source order.
//
// A block is a description line starting with descriptor, a keystroke line, one or
// more command lines (the first one indented) and an empty line. Candidates that
// break that shape are dropped without error and the offending line is examined
// again as a possible description.
//
// Parameters:
//   - src: Full sxhkdrc text.
//   - descriptor: Prefix of description lines (e.g. "# ").
//
// Returns:
//   - iter.Seq[string]: Raw blocks, each ending with "\n\n".
func blocks(src, descriptor string) iter.Seq[string] {
	return func(yield func(string) bool) {
		state := seekDescription
		var b strings.Builder

		for raw := range strings.Lines(src) {
			line := strings.TrimRight(raw, "\r\n")

			switch state {
			case inKeystroke:
				if isKeystrokeLine(line) {
					b.WriteString(line + "\n")
					state = inCommand
					continue
				}
			case inCommand:
				if isIndented(line) && isCommandLine(line) {
					b.WriteString(line + "\n")
					state = inContinuation
					continue
				}
			case inContinuation:
				if line == "" {
					b.WriteString("\n")
					if !yield(b.String()) {
						return
					}
					b.Reset()
					state = seekDescription
					continue
				}
				if isCommandLine(line) {
					b.WriteString(line + "\n")
					continue
				}
			}

			b.Reset()
			state = seekDescription
			if isDescriptionLine(line, descriptor) {
				b.WriteString(line + "\n")
				state = inKeystroke
			}
		}
	}
}

func isDescriptionLine(line, descriptor string) bool {
	rest, ok := strings.CutPrefix(line, descriptor)
	if !ok || rest == "" {
		return false
	}
	return onlyRunes(rest, "(),-/&{}")
}

func isKeystrokeLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	return onlyRunes(line, "+{}_-,;")
}

func isIndented(line string) bool {
	if line == "" || (line[0] != ' ' && line[0] != '\t') {
		return false
	}
	return strings.TrimSpace(line) != ""
}

func isCommandLine(line string) bool {
	return onlyRunes(line, `-_$'\~%{,!./()};"`)
}

// onlyRunes reports whether s holds nothing but word characters, whitespace and
// the runes in punct.
func onlyRunes(s, punct string) bool {
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', unicode.IsSpace(r):
		case strings.ContainsRune(punct, r):
		default:
			return false
		}
	}
	return true
}

// normalizeBlock strips indentation and line continuations from a raw block and
// splits it into its description, keystroke and command lines.
//
// Parameters:
//   - raw: A block produced by blocks.
//   - descriptor: Description prefix; its characters are trimmed from both ends of
//     the description.
//
// Returns:
//   - desc: Description text.
//   - keys: Keystroke line, possibly still chained.
//   - cmd: Command line with trailing whitespace removed, possibly still chained.
func normalizeBlock(raw, descriptor string) (desc, keys, cmd string) {
	text := collapseIndent(raw)
	text = strings.ReplaceAll(text, "\\\n", "")

	parts := strings.SplitN(text, "\n", 3)
	for len(parts) < 3 {
		parts = append(parts, "")
	}
	desc = strings.Trim(parts[0], descriptor)
	keys = parts[1]
	cmd = strings.TrimRightFunc(parts[2], unicode.IsSpace)
	return desc, keys, cmd
}

// collapseIndent replaces every newline followed by whitespace (further newlines
// included) with a single newline.
func collapseIndent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b.WriteByte(s[i])
		if s[i] != '\n' {
			continue
		}
		for i+1 < len(s) && isSpaceByte(s[i+1]) {
			i++
		}
	}
	return b.String()
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
