// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package source locates declarations in raw HCL text and recovers the
// verbatim, unparsed source of individual property expressions.
//
// The structured parser collapses formatting (multi-line expressions,
// heredocs, comments, nested objects) into plain values; the documentation
// output must preserve the original source formatting exactly as authored.
// This package re-finds each declaration by regex anchor, slices out its
// block, and scans property values with a small bracket/quote/heredoc
// state machine instead of a grammar-aware parser.
package source

import (
	"regexp"
	"strings"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
)

// Anchor is the 1-based line number where a declaration's start pattern matched.
type Anchor struct {
	Line    int
	Pattern string
}

// Block is a contiguous vertical slice of a source file, inclusive of the
// matched start line and the matched end line.
type Block struct {
	StartLine int
	Text      string
}

// DefaultEndPattern matches a line consisting solely of a closing brace,
// the textual convention that terminates a top-level declaration.
var DefaultEndPattern = regexp.MustCompile(`^}$`)

// Scanner locates blocks and property spans in raw source text. It holds no
// state between calls; the logger is the only injected collaborator.
type Scanner struct {
	log *logging.Logger
}

// NewScanner creates a Scanner reporting diagnostics to log.
// A nil log falls back to the default logger.
func NewScanner(log *logging.Logger) *Scanner {
	if log == nil {
		log = logging.Default()
	}
	return &Scanner{log: log.WithComponent("source")}
}

// LocateAll finds every line where startPattern matches, in top-to-bottom
// order. The pattern must be compiled in multi-line mode so it anchors to
// line starts. Zero matches is an error: every lookup is for a declaration
// the structured parse already proved to exist.
func (s *Scanner) LocateAll(text string, startPattern *regexp.Regexp) ([]Anchor, error) {
	locs := startPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, errors.Attr(
			errors.Errorf(errors.KindNotFound, "pattern %s not found in file", startPattern),
			"pattern", startPattern.String())
	}

	anchors := make([]Anchor, 0, len(locs))
	for _, loc := range locs {
		line := strings.Count(text[:loc[0]], "\n") + 1
		s.log.Debug("located anchor", "pattern", startPattern.String(), "line", line)
		anchors = append(anchors, Anchor{Line: line, Pattern: startPattern.String()})
	}
	return anchors, nil
}

// ExtractBlocks slices out the block starting at each anchor line and
// running through the first line matching endPattern, inclusive. A nil
// endPattern means DefaultEndPattern.
//
// The extractor is deliberately not bracket-aware: it serves top-level
// declarations whose closing brace sits alone on its own line. Nested
// same-shaped constructs are the property scanner's job, one level down.
func (s *Scanner) ExtractBlocks(text string, anchors []Anchor, startPattern, endPattern *regexp.Regexp) ([]Block, error) {
	if len(anchors) == 0 {
		return nil, errors.New(errors.KindEmptyInput, "no anchors given")
	}
	if endPattern == nil {
		endPattern = DefaultEndPattern
	}

	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(anchors))

	for _, anchor := range anchors {
		idx := anchor.Line - 1
		if idx < 0 || idx >= len(lines) {
			return nil, errors.Attr(
				errors.Errorf(errors.KindInvalidAnchor, "line %d is outside the file", anchor.Line),
				"line", anchor.Line)
		}
		if !startPattern.MatchString(lines[idx]) {
			return nil, errors.Attr(errors.Attr(
				errors.Errorf(errors.KindInvalidAnchor,
					"line %d does not match %s: %q", anchor.Line, startPattern, lines[idx]),
				"line", anchor.Line), "pattern", startPattern.String())
		}

		terminated := false
		var body []string
		for _, line := range lines[idx:] {
			body = append(body, line)
			if endPattern.MatchString(line) {
				terminated = true
				break
			}
		}
		if !terminated {
			return nil, errors.Attr(
				errors.Errorf(errors.KindUnterminatedBlock,
					"no line matching %s after line %d", endPattern, anchor.Line),
				"line", anchor.Line)
		}

		s.log.Debug("extracted block", "start_line", anchor.Line, "lines", len(body))
		blocks = append(blocks, Block{StartLine: anchor.Line, Text: strings.Join(body, "\n")})
	}

	return blocks, nil
}
