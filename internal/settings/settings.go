// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package settings loads tool configuration from a YAML file with
// environment variable overrides.
package settings

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/hclmod"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/render"
)

// DefaultFile is the per-module settings file name.
const DefaultFile = ".tfdocs.yml"

// EnvPrefix is prepended to every environment override. Nested keys use
// a double underscore, e.g. TFDOCS_FORMAT__SKIP_AUTO=false.
const EnvPrefix = "TFDOCS_"

// Sort orders accepted by FormatSettings.SortOrder.
const (
	SortAlphaAsc = "alpha-asc"
	SortNone     = "none"
)

// Insert positions accepted by TargetSettings.InsertPosition.
const (
	InsertBottom = "bottom"
)

// TargetSettings controls where and how the generated documentation is
// placed in the target file.
type TargetSettings struct {
	Marker         string `yaml:"marker"`
	InsertPosition string `yaml:"insert_position"`

	HeadingLevel int    `yaml:"heading_level"`
	Heading      string `yaml:"heading"`
	EmptyHeader  string `yaml:"empty_header"`
}

// FormatSettings controls the shape of the generated documentation.
type FormatSettings struct {
	CollapsibleSections bool `yaml:"collapsible_sections"`

	CollapsibleLongValues      bool `yaml:"collapsible_long_values"`
	CollapsibleLongTypes       bool `yaml:"collapsible_long_types"`
	CollapsibleLongDefaults    bool `yaml:"collapsible_long_defaults"`
	CollapsibleLongDescription bool `yaml:"collapsible_long_description"`

	CollapsibleLongThreshold int `yaml:"collapsible_long_threshold"`

	SkipAuto  bool   `yaml:"skip_auto"`
	SortOrder string `yaml:"sort_order"`

	RemoveValidation   bool `yaml:"remove_validation"`
	RemoveEmptyColumns bool `yaml:"remove_empty_columns"`

	RequiredVariablesFirst bool `yaml:"required_variables_first"`
	AddResourceIdentifier  bool `yaml:"add_resource_identifier"`
	AddOutputValue         bool `yaml:"add_output_value"`

	IncludeResources bool `yaml:"include_resources"`
	IncludeLocals    bool `yaml:"include_locals"`
	IncludeVariables bool `yaml:"include_variables"`
	IncludeOutputs   bool `yaml:"include_outputs"`
}

// Settings is the full tool configuration.
type Settings struct {
	Debug bool `yaml:"debug"`

	Target       string         `yaml:"target"`
	TargetConfig TargetSettings `yaml:"target_config"`
	Format       FormatSettings `yaml:"format"`
}

const defaultEmptyHeader = `# {module}

## Description

[tbd]

## Usage

tbd

## Examples

tbd

## Notes

tbd

`

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Target: "README.md",
		TargetConfig: TargetSettings{
			Marker:         "TFDOCS",
			InsertPosition: InsertBottom,
			HeadingLevel:   2,
			Heading:        "API Documentation",
			EmptyHeader:    defaultEmptyHeader,
		},
		Format: FormatSettings{
			CollapsibleSections:        true,
			CollapsibleLongValues:      true,
			CollapsibleLongTypes:       true,
			CollapsibleLongDefaults:    true,
			CollapsibleLongDescription: true,
			CollapsibleLongThreshold:   25,
			SkipAuto:                   true,
			SortOrder:                  SortAlphaAsc,
			RemoveValidation:           true,
			RemoveEmptyColumns:         true,
			RequiredVariablesFirst:     true,
			AddResourceIdentifier:      true,
			AddOutputValue:             false,
			IncludeResources:           true,
			IncludeLocals:              true,
			IncludeVariables:           true,
			IncludeOutputs:             true,
		},
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist. Environment overrides are applied either way.
func Load(path string, log *logging.Logger) (Settings, error) {
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("settings")

	s := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		log.Info("settings file not found, using defaults", "path", path)
	case err != nil:
		return s, errors.Wrapf(err, errors.KindInternal, "reading settings file %s", path)
	default:
		log.Info("loading settings", "path", path)
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, errors.Wrapf(err, errors.KindValidation, "parsing settings file %s", path)
		}
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// Validate checks enum-valued fields.
func (s *Settings) Validate() error {
	switch s.TargetConfig.InsertPosition {
	case InsertBottom:
	default:
		return errors.Errorf(errors.KindValidation, "invalid insert position %q", s.TargetConfig.InsertPosition)
	}
	switch s.Format.SortOrder {
	case SortAlphaAsc, SortNone:
	default:
		return errors.Errorf(errors.KindValidation, "invalid sort order %q", s.Format.SortOrder)
	}
	if s.TargetConfig.HeadingLevel < 1 || s.TargetConfig.HeadingLevel > 5 {
		return errors.Errorf(errors.KindValidation, "invalid heading level %d", s.TargetConfig.HeadingLevel)
	}
	return nil
}

// applyEnv overlays TFDOCS_* environment variables onto s.
func (s *Settings) applyEnv() error {
	overrides := map[string]func(string) error{
		"DEBUG":  boolVar(&s.Debug),
		"TARGET": stringVar(&s.Target),

		"TARGET_CONFIG__MARKER":          stringVar(&s.TargetConfig.Marker),
		"TARGET_CONFIG__INSERT_POSITION": stringVar(&s.TargetConfig.InsertPosition),
		"TARGET_CONFIG__HEADING":         stringVar(&s.TargetConfig.Heading),
		"TARGET_CONFIG__HEADING_LEVEL":   intVar(&s.TargetConfig.HeadingLevel),

		"FORMAT__COLLAPSIBLE_SECTIONS":       boolVar(&s.Format.CollapsibleSections),
		"FORMAT__COLLAPSIBLE_LONG_THRESHOLD": intVar(&s.Format.CollapsibleLongThreshold),
		"FORMAT__SKIP_AUTO":                  boolVar(&s.Format.SkipAuto),
		"FORMAT__SORT_ORDER":                 stringVar(&s.Format.SortOrder),
		"FORMAT__REMOVE_VALIDATION":          boolVar(&s.Format.RemoveValidation),
		"FORMAT__REMOVE_EMPTY_COLUMNS":       boolVar(&s.Format.RemoveEmptyColumns),
		"FORMAT__REQUIRED_VARIABLES_FIRST":   boolVar(&s.Format.RequiredVariablesFirst),
		"FORMAT__ADD_RESOURCE_IDENTIFIER":    boolVar(&s.Format.AddResourceIdentifier),
		"FORMAT__ADD_OUTPUT_VALUE":           boolVar(&s.Format.AddOutputValue),
		"FORMAT__INCLUDE_RESOURCES":          boolVar(&s.Format.IncludeResources),
		"FORMAT__INCLUDE_LOCALS":             boolVar(&s.Format.IncludeLocals),
		"FORMAT__INCLUDE_VARIABLES":          boolVar(&s.Format.IncludeVariables),
		"FORMAT__INCLUDE_OUTPUTS":            boolVar(&s.Format.IncludeOutputs),
	}

	for key, set := range overrides {
		val, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		if err := set(val); err != nil {
			return errors.Wrapf(err, errors.KindValidation, "invalid value for %s%s", EnvPrefix, key)
		}
	}
	return nil
}

func stringVar(dst *string) func(string) error {
	return func(val string) error {
		*dst = val
		return nil
	}
}

func boolVar(dst *bool) func(string) error {
	return func(val string) error {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}

func intVar(dst *int) func(string) error {
	return func(val string) error {
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// Dump serializes the settings as YAML, suitable for seeding a
// settings file.
func (s Settings) Dump() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInternal, "marshaling settings")
	}
	return data, nil
}

// ModuleOptions maps the settings onto module loader options.
func (s Settings) ModuleOptions() hclmod.Options {
	return hclmod.Options{
		AddResourceIdentifier: s.Format.AddResourceIdentifier,
		SkipAuto:              s.Format.SkipAuto,
		ValidationRemove:      s.Format.RemoveValidation,
		ValidationSeparate:    !s.Format.RemoveValidation,
	}
}

// RenderConfig maps the settings onto renderer configuration.
func (s Settings) RenderConfig() render.Config {
	return render.Config{
		Heading:      s.TargetConfig.Heading,
		HeadingLevel: s.TargetConfig.HeadingLevel,

		CollapsibleSections:        s.Format.CollapsibleSections,
		CollapsibleLongValues:      s.Format.CollapsibleLongValues,
		CollapsibleLongTypes:       s.Format.CollapsibleLongTypes,
		CollapsibleLongDefaults:    s.Format.CollapsibleLongDefaults,
		CollapsibleLongDescription: s.Format.CollapsibleLongDescription,
		CollapsibleLongThreshold:   s.Format.CollapsibleLongThreshold,

		SortAlpha:          s.Format.SortOrder == SortAlphaAsc,
		RemoveEmptyColumns: s.Format.RemoveEmptyColumns,

		RequiredVariablesFirst: s.Format.RequiredVariablesFirst,
		AddOutputValue:         s.Format.AddOutputValue,

		IncludeResources: s.Format.IncludeResources,
		IncludeLocals:    s.Format.IncludeLocals,
		IncludeVariables: s.Format.IncludeVariables,
		IncludeOutputs:   s.Format.IncludeOutputs,
	}
}
