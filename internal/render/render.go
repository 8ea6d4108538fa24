// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package render turns a loaded module's declarations into markdown tables.
//
// Table cells that must preserve original source formatting (type
// expressions, default values, output values) are pulled verbatim from the
// declaration's raw block through the source scanner, one scan per cell.
package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"grimm.is/tfdocs/internal/hclmod"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/source"
)

// Config controls section selection and table formatting.
type Config struct {
	Heading      string
	HeadingLevel int

	CollapsibleSections bool

	CollapsibleLongValues      bool
	CollapsibleLongTypes       bool
	CollapsibleLongDefaults    bool
	CollapsibleLongDescription bool
	CollapsibleLongThreshold   int

	SortAlpha          bool
	RemoveEmptyColumns bool

	RequiredVariablesFirst bool
	AddOutputValue         bool

	IncludeResources bool
	IncludeLocals    bool
	IncludeVariables bool
	IncludeOutputs   bool
}

// DefaultConfig mirrors the default documentation settings.
func DefaultConfig() Config {
	return Config{
		Heading:                    "API Documentation",
		HeadingLevel:               2,
		CollapsibleSections:        true,
		CollapsibleLongValues:      true,
		CollapsibleLongTypes:       true,
		CollapsibleLongDefaults:    true,
		CollapsibleLongDescription: true,
		CollapsibleLongThreshold:   25,
		SortAlpha:                  true,
		RemoveEmptyColumns:         true,
		RequiredVariablesFirst:     true,
		IncludeResources:           true,
		IncludeLocals:              true,
		IncludeVariables:           true,
		IncludeOutputs:             true,
	}
}

// Renderer renders module documentation as markdown.
type Renderer struct {
	cfg Config
	sc  *source.Scanner
	log *logging.Logger
}

// New creates a Renderer. The scanner supplies verbatim property text for
// formatting-preserving cells.
func New(cfg Config, sc *source.Scanner, log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.Default()
	}
	return &Renderer{cfg: cfg, sc: sc, log: log.WithComponent("render")}
}

// Render produces the full markdown document for a module.
func (r *Renderer) Render(m *hclmod.Module) (string, error) {
	var sb strings.Builder

	heading := strings.Repeat("#", r.cfg.HeadingLevel)
	sb.WriteString(fmt.Sprintf("%s %s\n\n", heading, r.cfg.Heading))
	sb.WriteString("<!-- markdownlint-disable -->\n")

	if r.cfg.IncludeResources {
		if err := r.section(&sb, m, "Resources", m.Decls[hclmod.KindResource], nil); err != nil {
			return "", err
		}
	}
	if r.cfg.IncludeLocals {
		if err := r.section(&sb, m, "Locals", m.Decls[hclmod.KindLocal], nil); err != nil {
			return "", err
		}
	}

	if r.cfg.IncludeVariables {
		vars := m.Decls[hclmod.KindVariable]
		if r.cfg.RequiredVariablesFirst {
			var required, optional []*hclmod.Declaration
			for _, v := range vars {
				if v.Required {
					required = append(required, v)
				} else {
					optional = append(optional, v)
				}
			}
			if err := r.section(&sb, m, "Required Variables", required, []string{"Default"}); err != nil {
				return "", err
			}
			if err := r.section(&sb, m, "Optional Variables", optional, nil); err != nil {
				return "", err
			}
		} else {
			if err := r.section(&sb, m, "Variables", vars, nil); err != nil {
				return "", err
			}
		}
	}

	if r.cfg.IncludeOutputs {
		var skip []string
		if !r.cfg.AddOutputValue {
			skip = []string{"Value"}
		}
		if err := r.section(&sb, m, "Outputs", m.Decls[hclmod.KindOutput], skip); err != nil {
			return "", err
		}
		if err := r.section(&sb, m, "Validation", m.Decls[hclmod.KindValidation], skip); err != nil {
			return "", err
		}
	}

	sb.WriteString("<!-- markdownlint-enable -->\n")
	return sb.String(), nil
}

// section writes one documentation section; empty sections are omitted.
func (r *Renderer) section(sb *strings.Builder, m *hclmod.Module, name string, decls []*hclmod.Declaration, skipColumns []string) error {
	if len(decls) == 0 {
		return nil
	}

	r.log.Debug("rendering section", "section", name, "rows", len(decls))

	table, err := r.makeTable(m, decls, skipColumns)
	if err != nil {
		return err
	}

	heading := strings.Repeat("#", r.cfg.HeadingLevel+1)
	if r.cfg.CollapsibleSections {
		sb.WriteString("<details>\n")
		sb.WriteString(fmt.Sprintf("<summary>%s</summary>\n\n", name))
	}
	sb.WriteString(fmt.Sprintf("%s %s\n\n", heading, name))
	writeTable(sb, table)
	if r.cfg.CollapsibleSections {
		sb.WriteString("\n</details>\n")
	}
	sb.WriteString("\n\n")
	return nil
}

// makeTable builds header and data rows for a homogeneous declaration set.
func (r *Renderer) makeTable(m *hclmod.Module, decls []*hclmod.Declaration, skipColumns []string) ([][]string, error) {
	full := columns(decls[0].Kind)
	skip := make([]bool, len(full))
	for i, h := range full {
		for _, s := range skipColumns {
			if h == s {
				skip[i] = true
			}
		}
	}
	header := filterColumns(full, skip)

	rows := make([][]string, 0, len(decls))
	for _, decl := range decls {
		r.log.Debug("formatting row", "name", decl.Name)
		row, err := r.row(m, decl)
		if err != nil {
			return nil, err
		}
		rows = append(rows, filterColumns(row, skip))
	}

	if r.cfg.RemoveEmptyColumns {
		header, rows = removeEmptyColumns(header, rows)
	}
	if r.cfg.SortAlpha {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	}

	table := append([][]string{header}, rows...)

	if r.cfg.CollapsibleLongValues {
		collapseColumn(table, "Value", false, r.cfg.CollapsibleLongThreshold)
	}
	if r.cfg.CollapsibleLongTypes {
		collapseColumn(table, "Type", false, r.cfg.CollapsibleLongThreshold)
	}
	if r.cfg.CollapsibleLongDefaults {
		collapseColumn(table, "Default", false, r.cfg.CollapsibleLongThreshold)
	}
	if r.cfg.CollapsibleLongDescription {
		collapseColumn(table, "Description", true, r.cfg.CollapsibleLongThreshold)
	}

	return table, nil
}

// columns returns the table header for a declaration kind.
func columns(kind hclmod.Kind) []string {
	switch kind {
	case hclmod.KindResource:
		return []string{"Name", "Provider", "Documentation"}
	case hclmod.KindLocal:
		return []string{"Name"}
	case hclmod.KindVariable:
		return []string{"Name", "Type", "Description", "Default", "Validation"}
	case hclmod.KindOutput, hclmod.KindValidation:
		return []string{"Name", "Description", "Value", "Precondition", "Postcondition"}
	default:
		return []string{"Name"}
	}
}

// row renders one declaration's cells, scanning the raw block for the
// formatting-preserving ones.
func (r *Renderer) row(m *hclmod.Module, decl *hclmod.Declaration) ([]string, error) {
	name := r.nameCell(m, decl)

	switch decl.Kind {
	case hclmod.KindResource:
		return []string{name, decl.Provider(), registryLink(decl)}, nil

	case hclmod.KindLocal:
		return []string{name}, nil

	case hclmod.KindVariable:
		typeCell := ""
		if decl.HasType {
			raw, err := r.sc.ScanProperty(decl.Block, "type")
			if err != nil {
				return nil, err
			}
			typeCell = preformat(raw)
		}

		defaultCell := "**required**"
		if !decl.Required {
			raw, err := r.sc.ScanProperty(decl.Block, "default")
			if err != nil {
				return nil, err
			}
			defaultCell = preformat(raw)
		}

		return []string{
			name,
			typeCell,
			formatDescription(decl.Description),
			defaultCell,
			formatChecks(decl.Validations),
		}, nil

	case hclmod.KindOutput, hclmod.KindValidation:
		valueCell := ""
		if decl.HasValue {
			raw, err := r.sc.ScanProperty(decl.Block, "value")
			if err != nil {
				return nil, err
			}
			valueCell = preformat(raw)
		}

		return []string{
			name,
			formatDescription(decl.Description),
			valueCell,
			formatChecks(decl.Preconditions),
			formatChecks(decl.Postconditions),
		}, nil

	default:
		return []string{name}, nil
	}
}

// nameCell links a declaration to its source line.
func (r *Renderer) nameCell(m *hclmod.Module, decl *hclmod.Declaration) string {
	rel, err := filepath.Rel(m.Path, decl.File)
	if err != nil {
		rel = decl.File
	}
	return fmt.Sprintf("[%s](/%s#L%d)", decl.Name, filepath.ToSlash(rel), decl.Line)
}

const registryURL = "https://registry.terraform.io/providers/hashicorp/%s/latest/docs/resources/%s"

// registryLink points a resource row at its provider documentation.
func registryLink(decl *hclmod.Declaration) string {
	name := strings.TrimPrefix(decl.ResourceType, decl.Provider()+"_")
	return fmt.Sprintf("[%s](%s)", name, fmt.Sprintf(registryURL, decl.Provider(), name))
}

// preformat wraps verbatim source in a pre block with HTML line breaks so
// it survives a markdown table cell.
func preformat(raw string) string {
	return "<pre>" + strings.ReplaceAll(raw, "\n", "<br/>") + "</pre>"
}
