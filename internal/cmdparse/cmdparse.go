// Package cmdparse provides lightweight command-line parsing for the xaheen
// shell and dispatcher. It splits input lines on chain operators, tokenizes
// each command with shell-style quoting, and turns "domain action" word pairs
// into canonical "domain:action" input.
package cmdparse

import (
	"errors"
	"fmt"
	"strings"
)

// Chain operators recorded on Segment.Op.
const (
	OpNone = ""   // first segment
	OpSeq  = ";"  // always run
	OpAnd  = "&&" // run if previous succeeded
	OpOr   = "||" // run if previous failed
)

// ErrUnterminatedQuote is returned when a quote is opened but never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Segment represents one command in a chain.
type Segment struct {
	Op    string   // operator joining this segment to the previous one
	Args  []string // unquoted tokens, including the command itself
	Raw   string   // original text of this segment (trimmed)
	Start int      // byte offset of Raw in the full line
	End   int      // byte offset end (exclusive)
}

// ShouldRun reports whether the segment runs given the previous outcome.
func (s Segment) ShouldRun(prevFailed bool) bool {
	switch s.Op {
	case OpAnd:
		return !prevFailed
	case OpOr:
		return prevFailed
	default:
		return true
	}
}

// Parse splits a line into Segments on &&, || and ;. It respects single and
// double quotes and backslash escapes. Pipes are rejected since commands
// write directly to the terminal. Empty segments are skipped.
func Parse(line string) ([]Segment, error) {
	parts, err := splitOperators(line)
	if err != nil {
		return nil, err
	}
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p.text)
		if trimmed == "" {
			continue
		}
		leading := len(p.text) - len(strings.TrimLeft(p.text, " \t"))
		start := p.start + leading

		args, err := Tokenize(trimmed)
		if err != nil {
			return nil, err
		}
		op := p.op
		if len(segs) == 0 {
			op = OpNone
		}
		segs = append(segs, Segment{
			Op:    op,
			Args:  args,
			Raw:   trimmed,
			Start: start,
			End:   start + len(trimmed),
		})
	}
	return segs, nil
}

// Split turns raw arguments into a command input and its remaining arguments.
// "make:model User" and "make model User" both yield ("make:model", ["User"])
// when isDomain("make") holds. Anything else uses the first word as input so
// aliases and typos reach the matcher unchanged.
func Split(args []string, isDomain func(string) bool) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	first := args[0]
	if strings.Contains(first, ":") || len(args) < 2 {
		return first, args[1:]
	}
	second := args[1]
	if isDomain != nil && isDomain(strings.ToLower(first)) && !strings.HasPrefix(second, "-") {
		return first + ":" + second, args[2:]
	}
	return first, args[1:]
}

// part is an internal type for split results.
type part struct {
	text  string
	op    string
	start int
}

// splitOperators splits on unquoted &&, || and ; while preserving offsets.
func splitOperators(line string) ([]part, error) {
	var parts []part
	inSingle := false
	inDouble := false
	escaped := false
	segStart := 0
	op := OpNone

	cut := func(i, width int, next string) {
		parts = append(parts, part{text: line[segStart:i], op: op, start: segStart})
		segStart = i + width
		op = next
	}

	i := 0
	for i < len(line) {
		ch := line[i]
		if escaped {
			escaped = false
			i++
			continue
		}
		if ch == '\\' && !inSingle {
			escaped = true
			i++
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			i++
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			i++
			continue
		}
		if inSingle || inDouble {
			i++
			continue
		}

		switch {
		case ch == ';':
			cut(i, 1, OpSeq)
			i++
		case ch == '|' && i+1 < len(line) && line[i+1] == '|':
			cut(i, 2, OpOr)
			i += 2
		case ch == '|':
			return nil, fmt.Errorf("pipes are not supported at offset %d", i)
		case ch == '&' && i+1 < len(line) && line[i+1] == '&':
			cut(i, 2, OpAnd)
			i += 2
		default:
			i++
		}
	}
	if inSingle || inDouble {
		return nil, ErrUnterminatedQuote
	}
	parts = append(parts, part{text: line[segStart:], op: op, start: segStart})
	return parts, nil
}

// Tokenize splits a single command into arguments, removing quotes and
// resolving backslash escapes the way a POSIX shell would for plain words.
func Tokenize(s string) ([]string, error) {
	var tokens []string
	var current strings.Builder
	inSingle := false
	inDouble := false
	escaped := false
	// started tracks quoted empty strings like "" so they yield a token.
	started := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			// Inside double quotes a backslash only escapes " and \.
			if inDouble && ch != '"' && ch != '\\' {
				current.WriteByte('\\')
			}
			current.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && !inSingle {
			escaped = true
			started = true
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			started = true
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			started = true
			continue
		}
		if (ch == ' ' || ch == '\t') && !inSingle && !inDouble {
			if started {
				tokens = append(tokens, current.String())
				current.Reset()
				started = false
			}
			continue
		}
		current.WriteByte(ch)
		started = true
	}
	if inSingle || inDouble {
		return nil, ErrUnterminatedQuote
	}
	if escaped {
		current.WriteByte('\\')
	}
	if started {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
