// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package hclmod

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/source"
)

// File is one parsed .tf file with its declarations located in raw source.
type File struct {
	Path  string
	Text  string
	Decls []*Declaration
}

// ParseFile reads and parses one .tf file.
func ParseFile(path string, opts Options, sc *source.Scanner, log *logging.Logger) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "failed to read %s", path)
	}
	return ParseBytes(path, data, opts, sc, log)
}

// ParseBytes parses .tf source and relocates every declaration in the raw
// text. filename is used in diagnostics and in rendered source links.
func ParseBytes(filename string, data []byte, opts Options, sc *source.Scanner, log *logging.Logger) (*File, error) {
	if log == nil {
		log = logging.Default()
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, errors.KindValidation, "failed to parse %s", filename)
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.Errorf(errors.KindInternal, "unexpected body type for %s", filename)
	}

	f := &File{Path: filename, Text: string(data)}

	for _, block := range body.Blocks {
		switch block.Type {
		case "variable":
			if len(block.Labels) != 1 {
				continue
			}
			decl, err := f.parseVariable(block)
			if err != nil {
				return nil, err
			}
			log.Debug("found declaration", "kind", decl.Kind.String(), "name", decl.Name, "line", decl.Line)
			f.Decls = append(f.Decls, decl)

		case "output":
			if len(block.Labels) != 1 {
				continue
			}
			decl, err := f.parseOutput(block, opts)
			if err != nil {
				return nil, err
			}
			if decl == nil {
				continue
			}
			log.Debug("found declaration", "kind", decl.Kind.String(), "name", decl.Name, "line", decl.Line)
			f.Decls = append(f.Decls, decl)

		case "locals":
			decls, err := f.parseLocals(block, sc)
			if err != nil {
				return nil, err
			}
			for _, decl := range decls {
				log.Debug("found declaration", "kind", decl.Kind.String(), "name", decl.Name, "line", decl.Line)
			}
			f.Decls = append(f.Decls, decls...)

		case "resource":
			if len(block.Labels) != 2 {
				continue
			}
			decl := f.parseResource(block, opts)
			log.Debug("found declaration", "kind", decl.Kind.String(), "name", decl.Name, "line", decl.Line)
			f.Decls = append(f.Decls, decl)
		}
	}

	// Relocate through the raw-text scanner; the structured parser's own
	// ranges are not trusted for this.
	for _, decl := range f.Decls {
		if decl.Kind == KindLocal {
			continue // located during parse, merged blocks need disambiguation
		}
		if err := f.locate(decl, sc); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// startPattern returns the anchor regex for a declaration.
func startPattern(decl *Declaration) *regexp.Regexp {
	switch decl.Kind {
	case KindResource:
		return regexp.MustCompile(fmt.Sprintf(`(?m)^resource "%s" "%s" {`,
			regexp.QuoteMeta(decl.ResourceType), regexp.QuoteMeta(decl.ResourceName)))
	case KindValidation:
		return regexp.MustCompile(fmt.Sprintf(`(?m)^output "%s" {$`, regexp.QuoteMeta(decl.Name)))
	default:
		return regexp.MustCompile(fmt.Sprintf(`(?m)^%s "%s" {$`, decl.Kind, regexp.QuoteMeta(decl.Name)))
	}
}

// locate finds a declaration's anchor line and raw block in the file text.
func (f *File) locate(decl *Declaration, sc *source.Scanner) error {
	startRE := startPattern(decl)

	anchors, err := sc.LocateAll(f.Text, startRE)
	if err != nil {
		return errors.Attr(err, "declaration", decl.Name)
	}
	if len(anchors) != 1 {
		return errors.Attr(
			errors.Errorf(errors.KindValidation, "found %d matches for %s %s in %s",
				len(anchors), decl.Kind, decl.Name, f.Path),
			"declaration", decl.Name)
	}

	blocks, err := sc.ExtractBlocks(f.Text, anchors, startRE, nil)
	if err != nil {
		return errors.Attr(err, "declaration", decl.Name)
	}

	decl.Line = anchors[0].Line
	decl.Block = blocks[0].Text
	return nil
}

var localsStart = regexp.MustCompile(`(?m)^locals {$`)

// parseLocals splits a merged locals block into one declaration per local
// and picks each one's defining block via least-indent disambiguation.
func (f *File) parseLocals(block *hclsyntax.Block, sc *source.Scanner) ([]*Declaration, error) {
	anchors, err := sc.LocateAll(f.Text, localsStart)
	if err != nil {
		return nil, err
	}
	blocks, err := sc.ExtractBlocks(f.Text, anchors, localsStart, nil)
	if err != nil {
		return nil, err
	}

	var decls []*Declaration
	for _, name := range attributeNames(block.Body) {
		nameRE, err := regexp.Compile(`(?m)^([ \t]*)` + regexp.QuoteMeta(name) + `[ \t]*=`)
		if err != nil {
			return nil, errors.Wrapf(err, errors.KindInternal, "bad local name %q", name)
		}

		var candidates []source.Candidate
		for _, b := range blocks {
			locs := nameRE.FindAllStringSubmatchIndex(b.Text, -1)
			if len(locs) == 0 {
				continue
			}
			best := locs[0]
			for _, m := range locs[1:] {
				if m[3]-m[2] < best[3]-best[2] {
					best = m
				}
			}
			candidates = append(candidates, source.Candidate{
				Line:   b.StartLine + strings.Count(b.Text[:best[0]], "\n"),
				Text:   b.Text,
				Indent: best[3] - best[2],
			})
		}

		picked, err := sc.Disambiguate(name, candidates)
		if err != nil {
			return nil, errors.Attr(err, "declaration", name)
		}

		decls = append(decls, &Declaration{
			Kind:  KindLocal,
			Name:  name,
			File:  f.Path,
			Line:  picked.Line,
			Block: picked.Text,
		})
	}

	return decls, nil
}

func (f *File) parseVariable(block *hclsyntax.Block) (*Declaration, error) {
	attrs := block.Body.Attributes

	_, hasDefault := attrs["default"]
	_, hasType := attrs["type"]
	decl := &Declaration{
		Kind:        KindVariable,
		Name:        block.Labels[0],
		File:        f.Path,
		Description: stringAttr(attrs, "description"),
		Required:    !hasDefault,
		HasType:     hasType,
	}

	for _, sub := range block.Body.Blocks {
		if sub.Type != "validation" {
			continue
		}
		decl.Validations = append(decl.Validations, parseCheck(sub, f.Text))
	}

	return decl, nil
}

// validationPrefixes mark outputs that exist only to assert module
// invariants; they can be removed or documented separately.
var validationPrefixes = []string{"validate_", "validation_"}

func isValidationOutput(name string) bool {
	for _, prefix := range validationPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (f *File) parseOutput(block *hclsyntax.Block, opts Options) (*Declaration, error) {
	attrs := block.Body.Attributes

	_, hasValue := attrs["value"]
	decl := &Declaration{
		Kind:        KindOutput,
		Name:        block.Labels[0],
		File:        f.Path,
		Description: stringAttr(attrs, "description"),
		HasValue:    hasValue,
	}

	for _, sub := range block.Body.Blocks {
		switch sub.Type {
		case "precondition":
			decl.Preconditions = append(decl.Preconditions, parseCheck(sub, f.Text))
		case "postcondition":
			decl.Postconditions = append(decl.Postconditions, parseCheck(sub, f.Text))
		}
	}

	if isValidationOutput(decl.Name) {
		if opts.ValidationSeparate {
			decl.Kind = KindValidation
		} else if opts.ValidationRemove {
			return nil, nil
		}
	}

	return decl, nil
}

func (f *File) parseResource(block *hclsyntax.Block, opts Options) *Declaration {
	name := block.Labels[0]
	if opts.AddResourceIdentifier {
		name = block.Labels[0] + "." + block.Labels[1]
	}

	return &Declaration{
		Kind:         KindResource,
		Name:         name,
		File:         f.Path,
		ResourceType: block.Labels[0],
		ResourceName: block.Labels[1],
	}
}

// parseCheck extracts a validation-style block. The condition expression is
// sliced verbatim from source (it references variables, so it cannot be
// evaluated); the error message is a literal string.
func parseCheck(block *hclsyntax.Block, text string) Check {
	check := Check{
		ErrorMessage: stringAttr(block.Body.Attributes, "error_message"),
	}
	if cond, ok := block.Body.Attributes["condition"]; ok {
		rng := cond.Expr.Range()
		if rng.Start.Byte >= 0 && rng.End.Byte <= len(text) && rng.Start.Byte <= rng.End.Byte {
			check.Condition = strings.TrimSpace(text[rng.Start.Byte:rng.End.Byte])
		}
	}
	return check
}

// stringAttr evaluates a literal string attribute, returning "" when the
// attribute is absent or not a constant string.
func stringAttr(attrs hclsyntax.Attributes, name string) string {
	attr, ok := attrs[name]
	if !ok {
		return ""
	}
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || !val.Type().Equals(cty.String) {
		return ""
	}
	return val.AsString()
}

// attributeNames returns a body's attribute names in source order.
func attributeNames(body *hclsyntax.Body) []string {
	names := make([]string, 0, len(body.Attributes))
	for name := range body.Attributes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return body.Attributes[names[i]].SrcRange.Start.Byte < body.Attributes[names[j]].SrcRange.Start.Byte
	})
	return names
}
