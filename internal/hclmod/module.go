// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package hclmod

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/source"
)

// Options controls parsing and declaration processing.
type Options struct {
	// AddResourceIdentifier names resources "type.name" instead of "type".
	// When disabled, duplicate resource types across files are tolerated.
	AddResourceIdentifier bool

	// SkipAuto skips files named auto.* (generated files).
	SkipAuto bool

	// ValidationRemove drops validate_*/validation_* outputs entirely.
	ValidationRemove bool

	// ValidationSeparate moves validate_*/validation_* outputs into their
	// own section instead of dropping them. Takes precedence over
	// ValidationRemove.
	ValidationSeparate bool
}

// DefaultOptions mirrors the default documentation settings.
func DefaultOptions() Options {
	return Options{
		AddResourceIdentifier: true,
		SkipAuto:              true,
		ValidationRemove:      true,
	}
}

// Module is a set of parsed .tf files with declarations merged across them.
type Module struct {
	Path  string
	Files []*File

	// Decls holds merged declarations per kind, in encounter order.
	Decls map[Kind][]*Declaration
}

// LoadModule parses every .tf file in dir and merges their declarations.
// Duplicate definitions of the same name are an error, except resources
// when AddResourceIdentifier is disabled.
func LoadModule(dir string, opts Options, sc *source.Scanner, log *logging.Logger) (*Module, error) {
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("hclmod")

	paths, err := filepath.Glob(filepath.Join(dir, "*.tf"))
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "failed to glob %s", dir)
	}
	sort.Strings(paths)

	m := &Module{
		Path:  dir,
		Decls: make(map[Kind][]*Declaration),
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if opts.SkipAuto && strings.HasPrefix(filepath.Base(path), "auto.") {
			log.Info("skipping auto-generated file", "path", path)
			continue
		}

		log.Info("parsing file", "path", path)
		f, err := ParseFile(path, opts, sc, log)
		if err != nil {
			return nil, err
		}
		m.Files = append(m.Files, f)
	}

	seen := make(map[Kind]map[string]int)
	for _, f := range m.Files {
		for _, decl := range f.Decls {
			if seen[decl.Kind] == nil {
				seen[decl.Kind] = make(map[string]int)
			}
			if idx, dup := seen[decl.Kind][decl.Name]; dup {
				// Resources without the type.name identifier may repeat
				// across files; the last definition wins.
				if decl.Kind == KindResource && !opts.AddResourceIdentifier {
					m.Decls[decl.Kind][idx] = decl
					continue
				}
				return nil, errors.Attr(errors.Attr(
					errors.Errorf(errors.KindValidation, "already defined: %s %s", decl.Kind, decl.Name),
					"declaration", decl.Name), "file", decl.File)
			}
			seen[decl.Kind][decl.Name] = len(m.Decls[decl.Kind])
			m.Decls[decl.Kind] = append(m.Decls[decl.Kind], decl)
		}
	}

	return m, nil
}
