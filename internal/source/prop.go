// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package source

import (
	"regexp"
	"strings"

	"grimm.is/tfdocs/internal/errors"
)

var closingBrackets = map[byte]byte{
	'}': '{',
	']': '[',
	')': '(',
}

var heredocOpener = regexp.MustCompile(`^<<-?(\w+)`)

// scanState is the transient bookkeeping for one ScanProperty call.
type scanState struct {
	brackets    []byte // open brackets awaiting their matching close
	inQuoted    bool
	inHeredoc   bool
	heredocName string
	lineEnded   bool
	escaped     bool // previous character was an unescaped backslash
}

func (st *scanState) inText() bool {
	return st.inQuoted || st.inHeredoc
}

// ScanProperty returns the exact original substring of a property's
// right-hand-side expression inside block, including internal newlines,
// nested structures, comments, and string contents. Only the leading
// "name =" prefix and surrounding whitespace are stripped.
//
// When the property name matches more than one line (a nested object
// declaring a same-named field), the least-indented occurrence wins. The
// outer declaration's property is assumed to always be the least indented;
// that is a heuristic, not a grammar fact, so a warning is logged whenever
// it is applied.
func (s *Scanner) ScanProperty(block, property string) (string, error) {
	nameRE, err := regexp.Compile(`(?m)^[ \t]*` + regexp.QuoteMeta(property) + `[ \t]*=`)
	if err != nil {
		return "", errors.Wrapf(err, errors.KindInternal, "bad property name %q", property)
	}

	matches := nameRE.FindAllStringIndex(block, -1)
	if len(matches) == 0 {
		return "", errors.Attr(
			errors.Errorf(errors.KindNotFound, "property %s not found in block", property),
			"property", property)
	}

	start := matches[0]
	if len(matches) > 1 {
		s.log.Warn("multiple matches for property in block, picking least indented",
			"property", property, "matches", len(matches))
		for _, m := range matches[1:] {
			if matchIndent(block, m) < matchIndent(block, start) {
				start = m
			}
		}
	}

	raw, err := scanValue(block[start[0]:], property)
	if err != nil {
		return "", errors.Attr(err, "line", strings.Count(block[:start[0]], "\n")+1)
	}

	s.log.Debug("scanned property", "property", property, "len", len(raw))

	prefixRE := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(property) + `\s*=\s*`)
	return strings.TrimSpace(prefixRE.ReplaceAllString(raw, "")), nil
}

// matchIndent returns the leading-whitespace width of a name match.
func matchIndent(block string, m []int) int {
	matched := block[m[0]:m[1]]
	return len(matched) - len(strings.TrimLeft(matched, " \t"))
}

// scanValue walks text character by character from the start of the
// assignment and returns the span up to and including the expression's
// structural end. Termination, checked after each character in priority
// order: a heredoc close after the assignment line already ended; a bracket
// stack emptied after the line ended; a bare newline with no open state.
func scanValue(text, property string) (string, error) {
	var st scanState
	var out strings.Builder

	idx := 0
	for idx < len(text) {
		c := text[idx]
		out.WriteByte(c)

		switch {
		case c == '"' && !st.inHeredoc && !st.escaped:
			st.inQuoted = !st.inQuoted

		case c == '<' && !st.inText() && heredocOpener.MatchString(text[idx:]):
			opener := heredocOpener.FindStringSubmatch(text[idx:])
			st.inHeredoc = true
			st.heredocName = opener[1]
			// Emit the opener verbatim; the first '<' is already written.
			out.WriteString(opener[0][1:])
			idx += len(opener[0]) - 1

		case st.inHeredoc && !st.inQuoted && heredocTerminates(text, idx, st.heredocName):
			// c is the terminator's first character; emit the rest.
			out.WriteString(st.heredocName[1:])
			idx += len(st.heredocName) - 1
			st.inHeredoc = false
			if idx+1 < len(text) && text[idx+1] == '\n' {
				idx++
			}
			if st.lineEnded {
				return out.String(), nil
			}

		case !st.inText() && (c == '{' || c == '[' || c == '('):
			st.brackets = append(st.brackets, c)

		case !st.inText() && (c == '}' || c == ']' || c == ')'):
			if len(st.brackets) == 0 || st.brackets[len(st.brackets)-1] != closingBrackets[c] {
				return "", errors.Attr(
					errors.Errorf(errors.KindUnmatchedBracket,
						"unmatched %q in %s value", c, property),
					"property", property)
			}
			st.brackets = st.brackets[:len(st.brackets)-1]
			if st.lineEnded && len(st.brackets) == 0 {
				return out.String(), nil
			}

		case c == '\n':
			st.lineEnded = true
			if !st.inText() && len(st.brackets) == 0 {
				return out.String(), nil
			}
		}

		st.escaped = c == '\\' && !st.escaped
		idx++
	}

	if len(st.brackets) > 0 {
		return "", errors.Attr(
			errors.Errorf(errors.KindUnmatchedBracket,
				"brackets left open at end of %s value", property),
			"property", property)
	}
	return out.String(), nil
}

// heredocTerminates reports whether idx sits at the start of a line that
// consists of exactly the heredoc terminator name.
func heredocTerminates(text string, idx int, name string) bool {
	if name == "" || idx == 0 || text[idx-1] != '\n' {
		return false
	}
	if !strings.HasPrefix(text[idx:], name) {
		return false
	}
	rest := idx + len(name)
	return rest == len(text) || text[rest] == '\n'
}
