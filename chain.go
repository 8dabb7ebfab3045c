package main

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrUnbalancedChain is reported when the command line is chained but the
	// keystroke line is not.
	ErrUnbalancedChain = errors.New("unbalanced keychain")

	// ErrChainLength is reported when both lines are chained with different,
	// non-broadcastable segment counts.
	ErrChainLength = errors.New("keychain length mismatch")
)

// ChainError describes a block whose keychains cannot be paired.
type ChainError struct {
	Description string
	Keystroke   string
	Command     string
	Keys        int // keystroke segments
	Commands    int // command segments
	Err         error
}

func (e *ChainError) Error() string {
	if errors.Is(e.Err, ErrUnbalancedChain) {
		return fmt.Sprintf("%s in %q: command %q specifies %d segments but keystroke %q has no matching keychain, fix your sxhkdrc",
			e.Err, e.Description, e.Command, e.Commands, e.Keystroke)
	}
	return fmt.Sprintf("%s in %q: keystroke %q expands to %d segments, command %q to %d",
		e.Err, e.Description, e.Keystroke, e.Keys, e.Command, e.Commands)
}

func (e *ChainError) Unwrap() error { return e.Err }

// Placement locates a keychain inside a keystroke line and decides which
// delimiter the substituted key receives.
type Placement int

const (
	PlacementInline Placement = iota // touches other text, e.g. "super+{a,b}"
	PlacementWhole                   // "{a,b}"
	PlacementPrefix                  // "{super,alt} + r"
	PlacementInfix                   // "super + {_,shift} + r"
	PlacementSuffix                  // "super + {1,2}"
)

func (p Placement) String() string {
	switch p {
	case PlacementWhole:
		return "whole"
	case PlacementPrefix:
		return "prefix"
	case PlacementInfix:
		return "infix"
	case PlacementSuffix:
		return "suffix"
	default:
		return "inline"
	}
}

// segment returns the text that takes the place of the keychain for key.
// A key containing '_' is a wildcard and drops the modifier slot entirely.
func (p Placement) segment(key string) string {
	if strings.Contains(key, "_") {
		return " "
	}
	switch p {
	case PlacementPrefix:
		return key + " + "
	case PlacementInfix:
		return " " + key + " + "
	default:
		return key
	}
}

// chain is the single brace group of a line: from the first '{' to the last '}'.
type chain struct {
	line      string
	open, end int
}

func findChain(line string) (chain, bool) {
	open := strings.IndexByte(line, '{')
	if open < 0 {
		return chain{}, false
	}
	end := strings.LastIndexByte(line, '}')
	if end < open {
		return chain{}, false
	}
	return chain{line: line, open: open, end: end}, true
}

func (c chain) before() string { return c.line[:c.open] }
func (c chain) after() string  { return c.line[c.end+1:] }

func (c chain) alternatives() []string {
	return strings.Split(c.line[c.open+1:c.end], ",")
}

func (c chain) placement() Placement {
	before, after := c.before(), c.after()
	switch {
	case before == "" && after == "":
		return PlacementWhole
	case before == "":
		return PlacementPrefix
	case endsWithSpace(before) && startsWithSpace(after):
		return PlacementInfix
	case after == "":
		return PlacementSuffix
	default:
		return PlacementInline
	}
}

// surroundings returns the text kept left and right of the keychain. Prefix and
// infix placements bring their own " + ", so the separator that followed the
// chain in the source is consumed.
func (c chain) surroundings(p Placement) (left, right string) {
	left, right = c.before(), c.after()
	switch p {
	case PlacementPrefix:
		right = trimSeparator(right)
	case PlacementInfix:
		left = strings.TrimRightFunc(left, unicode.IsSpace)
		right = trimSeparator(right)
	}
	return left, right
}

// expandKeystroke unchains a keystroke line.
//
// Parameters:
//   - line: Keystroke line, e.g. "super + {h,j,k,l}".
//
// Returns:
//   - []string: One keystroke per alternative, or the line itself if unchained.
//   - bool: True if the line held a keychain.
func expandKeystroke(line string) ([]string, bool) {
	c, ok := findChain(line)
	if !ok {
		return []string{line}, false
	}
	p := c.placement()
	left, right := c.surroundings(p)

	alts := c.alternatives()
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		kb := left + p.segment(bareKey(alt)) + right
		if p == PlacementPrefix {
			// a leading wildcard leaves nothing in front of the rest
			kb = strings.TrimLeftFunc(kb, unicode.IsSpace)
		}
		out = append(out, kb)
	}
	return out, true
}

// expandCommand unchains a command line. Alternatives are substituted as is,
// without delimiters. Braces without a comma, as in "${HOME}" or
// "awk '{print $1}'", belong to the shell and leave the line unchained.
func expandCommand(line string) ([]string, bool) {
	c, ok := findChain(line)
	if !ok {
		return []string{line}, false
	}
	alts := c.alternatives()
	if len(alts) < 2 {
		return []string{line}, false
	}
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		out = append(out, c.before()+strings.TrimSpace(alt)+c.after())
	}
	return out, true
}

// expandBlock turns one normalized block into keybind rows. Keystroke segment i
// pairs with command segment i; a side with a single segment is reused for every
// row. The description is never expanded.
//
// Parameters:
//   - desc: Description line.
//   - keys: Keystroke line.
//   - cmd: Command line.
//
// Returns:
//   - []Keybind: Rows in expansion order.
//   - error: *ChainError if the keychains cannot be paired.
func expandBlock(desc, keys, cmd string) ([]Keybind, error) {
	keyList, keyChained := expandKeystroke(keys)
	cmdList, cmdChained := expandCommand(cmd)

	chainErr := func(err error) error {
		return &ChainError{
			Description: desc,
			Keystroke:   keys,
			Command:     cmd,
			Keys:        len(keyList),
			Commands:    len(cmdList),
			Err:         err,
		}
	}

	switch {
	case !keyChained && !cmdChained:
		return []Keybind{{Description: desc, Keystroke: keys, Command: cmd}}, nil
	case cmdChained && !keyChained:
		return nil, chainErr(ErrUnbalancedChain)
	case len(keyList) != len(cmdList) && len(keyList) != 1 && len(cmdList) != 1:
		return nil, chainErr(ErrChainLength)
	}

	n := max(len(keyList), len(cmdList))
	rows := make([]Keybind, 0, n)
	for i := range n {
		rows = append(rows, Keybind{
			Description: desc,
			Keystroke:   pick(keyList, i),
			Command:     pick(cmdList, i),
		})
	}
	return rows, nil
}

func pick(list []string, i int) string {
	if len(list) == 1 {
		return list[0]
	}
	return list[i]
}

// bareKey strips whitespace and '+' from a keystroke alternative.
func bareKey(alt string) string {
	return strings.Map(func(r rune) rune {
		if r == '+' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, alt)
}

func trimSeparator(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return r == '+' || unicode.IsSpace(r)
	})
}

func endsWithSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}

func startsWithSpace(s string) bool {
	return strings.TrimLeftFunc(s, unicode.IsSpace) != s
}
