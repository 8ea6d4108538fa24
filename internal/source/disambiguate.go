// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package source

import (
	"sort"

	"grimm.is/tfdocs/internal/errors"
)

// Candidate is one possible location for a declaration that may legitimately
// appear more than once in a scope, e.g. several locals blocks contributing
// fragments of the same merged aggregate.
type Candidate struct {
	Line   int
	Text   string
	Indent int // leading-whitespace width of the inner property match
}

// Disambiguate picks the structurally authoritative candidate: the least
// indented one, on the assumption that the outermost definition is the one
// the documentation should describe. Ties at the minimum indentation resolve
// to the first candidate in document order; that is a defined tie-break,
// not an error. The heuristic is observable: a warning is logged whenever
// more than one candidate existed.
func (s *Scanner) Disambiguate(name string, candidates []Candidate) (Candidate, error) {
	if len(candidates) == 0 {
		return Candidate{}, errors.Attr(
			errors.Errorf(errors.KindNotFound, "%s not found in file", name),
			"name", name)
	}

	if len(candidates) > 1 {
		s.log.Warn("multiple candidates found, picking least indented",
			"name", name, "candidates", len(candidates))
	}

	picked := make([]Candidate, len(candidates))
	copy(picked, candidates)
	sort.SliceStable(picked, func(i, j int) bool {
		return picked[i].Indent < picked[j].Indent
	})

	return picked[0], nil
}
