// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package errors

import (
	"errors"
	"testing"
)

func TestError(t *testing.T) {
	err := New(KindNotFound, "variable not found")
	if err.Error() != "variable not found" {
		t.Errorf("expected 'variable not found', got '%s'", err.Error())
	}

	wrapped := Wrap(err, KindInternal, "failed to scan block")
	if wrapped.Error() != "failed to scan block: variable not found" {
		t.Errorf("expected 'failed to scan block: variable not found', got '%s'", wrapped.Error())
	}
}

func TestGetKind(t *testing.T) {
	err := New(KindUnmatchedBracket, "unmatched bracket")
	if GetKind(err) != KindUnmatchedBracket {
		t.Errorf("expected KindUnmatchedBracket, got %v", GetKind(err))
	}

	wrapped := Wrap(err, KindInternal, "failed")
	if GetKind(wrapped) != KindInternal {
		t.Errorf("expected KindInternal, got %v", GetKind(wrapped))
	}

	if GetKind(errors.New("std error")) != KindUnknown {
		t.Errorf("expected KindUnknown, got %v", GetKind(errors.New("std error")))
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNotFound:          "not_found",
		KindInvalidAnchor:     "invalid_anchor",
		KindUnterminatedBlock: "unterminated_block",
		KindUnmatchedBracket:  "unmatched_bracket",
		KindEmptyInput:        "empty_input",
		KindUnknown:           "unknown",
	}
	for kind, want := range cases {
		if kind.String() != want {
			t.Errorf("expected %s, got %s", want, kind.String())
		}
	}
}

func TestAttributes(t *testing.T) {
	err := New(KindNotFound, "property not found")
	err = Attr(err, "property", "default")
	err = Attr(err, "line", 14)

	attrs := GetAttributes(err)
	if attrs["property"] != "default" {
		t.Errorf("expected default, got %v", attrs["property"])
	}
	if attrs["line"] != 14 {
		t.Errorf("expected 14, got %v", attrs["line"])
	}

	wrapped := Wrap(err, KindInternal, "failed")
	wrapped = Attr(wrapped, "declaration", "variable.subnet")

	allAttrs := GetAttributes(wrapped)
	if allAttrs["property"] != "default" || allAttrs["declaration"] != "variable.subnet" {
		t.Errorf("missing attributes: %v", allAttrs)
	}
}
