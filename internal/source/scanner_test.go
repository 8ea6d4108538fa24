// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package source

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
)

func testScanner() *Scanner {
	return NewScanner(logging.New(logging.Config{Level: logging.LevelError, Output: &bytes.Buffer{}}))
}

func TestLocateAllLineCounting(t *testing.T) {
	// Target sits on line 7: six preceding newlines.
	text := "a\nb\nc\nd\ne\nf\nvariable \"subnet\" {\n  type = string\n}\n"
	re := regexp.MustCompile(`(?m)^variable "subnet" {$`)

	anchors, err := testScanner().LocateAll(text, re)
	if err != nil {
		t.Fatalf("LocateAll failed: %v", err)
	}
	if len(anchors) != 1 {
		t.Fatalf("expected 1 anchor, got %d", len(anchors))
	}
	if anchors[0].Line != 7 {
		t.Errorf("expected line 7, got %d", anchors[0].Line)
	}
}

func TestLocateAllOrdering(t *testing.T) {
	text := "locals {\n}\n\nx = 1\n\nlocals {\n}\n"
	re := regexp.MustCompile(`(?m)^locals {$`)

	anchors, err := testScanner().LocateAll(text, re)
	if err != nil {
		t.Fatalf("LocateAll failed: %v", err)
	}
	if len(anchors) != 2 {
		t.Fatalf("expected 2 anchors, got %d", len(anchors))
	}
	if anchors[0].Line != 1 || anchors[1].Line != 6 {
		t.Errorf("expected lines 1 and 6, got %d and %d", anchors[0].Line, anchors[1].Line)
	}
}

func TestLocateAllNotFound(t *testing.T) {
	_, err := testScanner().LocateAll("x = 1\n", regexp.MustCompile(`(?m)^variable "missing" {$`))
	if errors.GetKind(err) != errors.KindNotFound {
		t.Errorf("expected KindNotFound, got %v (%v)", errors.GetKind(err), err)
	}
}

func TestExtractBlocks(t *testing.T) {
	text := `variable "subnet" {
  type    = string
  default = "10.0.0.0/24"
}

output "subnet" {
  value = var.subnet
}
`
	re := regexp.MustCompile(`(?m)^variable "subnet" {$`)
	s := testScanner()

	anchors, err := s.LocateAll(text, re)
	if err != nil {
		t.Fatalf("LocateAll failed: %v", err)
	}

	blocks, err := s.ExtractBlocks(text, anchors, re, nil)
	if err != nil {
		t.Fatalf("ExtractBlocks failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}

	want := "variable \"subnet\" {\n  type    = string\n  default = \"10.0.0.0/24\"\n}"
	if blocks[0].Text != want {
		t.Errorf("block text mismatch:\ngot:  %q\nwant: %q", blocks[0].Text, want)
	}
	if blocks[0].StartLine != 1 {
		t.Errorf("expected start line 1, got %d", blocks[0].StartLine)
	}
}

func TestExtractBlocksInvalidAnchor(t *testing.T) {
	text := "x = 1\ny = 2\n"
	re := regexp.MustCompile(`(?m)^variable "subnet" {$`)

	_, err := testScanner().ExtractBlocks(text, []Anchor{{Line: 2}}, re, nil)
	if errors.GetKind(err) != errors.KindInvalidAnchor {
		t.Errorf("expected KindInvalidAnchor, got %v (%v)", errors.GetKind(err), err)
	}

	_, err = testScanner().ExtractBlocks(text, []Anchor{{Line: 99}}, re, nil)
	if errors.GetKind(err) != errors.KindInvalidAnchor {
		t.Errorf("expected KindInvalidAnchor for out-of-range line, got %v", errors.GetKind(err))
	}
}

func TestExtractBlocksUnterminated(t *testing.T) {
	text := "variable \"subnet\" {\n  type = string\n"
	re := regexp.MustCompile(`(?m)^variable "subnet" {$`)

	_, err := testScanner().ExtractBlocks(text, []Anchor{{Line: 1}}, re, nil)
	if errors.GetKind(err) != errors.KindUnterminatedBlock {
		t.Errorf("expected KindUnterminatedBlock, got %v (%v)", errors.GetKind(err), err)
	}
}

func TestExtractBlocksEmptyInput(t *testing.T) {
	re := regexp.MustCompile(`(?m)^variable "subnet" {$`)

	_, err := testScanner().ExtractBlocks("variable \"subnet\" {\n}\n", nil, re, nil)
	if errors.GetKind(err) != errors.KindEmptyInput {
		t.Errorf("expected KindEmptyInput, got %v (%v)", errors.GetKind(err), err)
	}
}

func TestExtractBlocksMultipleAnchors(t *testing.T) {
	text := "locals {\n  a = 1\n}\n\nlocals {\n  b = 2\n}\n"
	re := regexp.MustCompile(`(?m)^locals {$`)
	s := testScanner()

	anchors, err := s.LocateAll(text, re)
	if err != nil {
		t.Fatalf("LocateAll failed: %v", err)
	}

	blocks, err := s.ExtractBlocks(text, anchors, re, nil)
	if err != nil {
		t.Fatalf("ExtractBlocks failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if !strings.Contains(blocks[0].Text, "a = 1") || !strings.Contains(blocks[1].Text, "b = 2") {
		t.Errorf("block contents wrong: %q / %q", blocks[0].Text, blocks[1].Text)
	}
}
