// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package hclmod loads an OpenTofu/Terraform module directory, parses its
// declarations with hashicorp/hcl, and pairs every declaration with the
// verbatim source block it came from.
//
// The structured parse supplies names and evaluated scalar attributes; the
// raw block (relocated independently through internal/source) is what the
// renderer scans for formatting-preserving expressions like types and
// defaults. The parser's own location information is deliberately not
// reused for that.
package hclmod

import "fmt"

// Kind identifies what a declaration is. The set is closed: rendering
// switches over it exhaustively, so there is no "no row model registered"
// failure mode at run time.
type Kind int

const (
	KindResource Kind = iota
	KindLocal
	KindVariable
	KindOutput
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindLocal:
		return "local"
	case KindVariable:
		return "variable"
	case KindOutput:
		return "output"
	case KindValidation:
		return "validation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Check represents one validation / precondition / postcondition block.
type Check struct {
	Condition    string
	ErrorMessage string
}

// Declaration is one documented construct paired with its raw source block.
type Declaration struct {
	Kind Kind
	Name string

	// File is the path the declaration came from; Line is the 1-based line
	// of its anchor in that file.
	File string
	Line int

	// Block is the verbatim source from the start pattern through the
	// matching closing brace, for on-demand property scanning.
	Block string

	// Structured fields from the parse.
	Description string
	Required    bool // variables only: no default attribute present
	HasType     bool // variables only: type attribute present
	HasValue    bool // outputs only: value attribute present

	Validations    []Check // variables
	Preconditions  []Check // outputs
	Postconditions []Check // outputs

	// Resources only.
	ResourceType string
	ResourceName string
}

// Provider returns the provider prefix of a resource type name,
// e.g. "aws" for aws_subnet.
func (d *Declaration) Provider() string {
	for i := 0; i < len(d.ResourceType); i++ {
		if d.ResourceType[i] == '_' {
			return d.ResourceType[:i]
		}
	}
	return d.ResourceType
}
