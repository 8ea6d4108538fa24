// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package writer places generated documentation into its target file
// between marker comments, leaving the rest of the file untouched.
package writer

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/settings"
)

// Config controls target resolution and block placement.
type Config struct {
	// Target is a file path or one of the stdout/stderr pseudo-targets.
	Target string
	// ModulePath anchors bare relative targets.
	ModulePath string

	Marker         string
	InsertPosition string
	// EmptyHeader seeds a newly created target. The {module} placeholder
	// is replaced with the target file's base name.
	EmptyHeader string

	// Stdout and Stderr receive pseudo-target output. Defaults are the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Writer writes documentation to a resolved target.
type Writer struct {
	cfg Config
	log *logging.Logger

	target   string
	isStream bool
	created  bool
	changed  bool

	original string
	updated  string
}

var stdoutTargets = map[string]bool{
	"-":               true,
	"stdout":          true,
	"/dev/stdout":     true,
	"/dev/fd/1":       true,
	"/proc/self/fd/1": true,
}

var stderrTargets = map[string]bool{
	"stderr":          true,
	"/dev/stderr":     true,
	"/dev/fd/2":       true,
	"/proc/self/fd/2": true,
}

// New resolves the target and creates it when missing. Pseudo-targets
// resolve to the process streams and are never created.
func New(cfg Config, log *logging.Logger) (*Writer, error) {
	if log == nil {
		log = logging.Default()
	}
	log = log.WithComponent("writer")

	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	w := &Writer{cfg: cfg, log: log}

	if stdoutTargets[cfg.Target] || stderrTargets[cfg.Target] {
		w.isStream = true
		return w, nil
	}

	target := cfg.Target
	if !filepath.IsAbs(target) && !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
		target = filepath.Join(cfg.ModulePath, target)
		if cfg.Target != settings.Default().Target {
			log.Warn("target path is not absolute, resolving against module", "target", cfg.Target, "resolved", target)
		}
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "resolving target %s", target)
	}
	w.target = abs

	log.Info("writing to target", "target", abs)

	if _, err := os.Stat(abs); os.IsNotExist(err) {
		log.Info("creating target", "target", abs)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, errors.Wrapf(err, errors.KindInternal, "creating directory for %s", abs)
		}
		stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		header := strings.ReplaceAll(cfg.EmptyHeader, "{module}", stem)
		if err := os.WriteFile(abs, []byte(header), 0o644); err != nil {
			return nil, errors.Wrapf(err, errors.KindInternal, "creating %s", abs)
		}
		w.created = true
		w.changed = true
	} else if err != nil {
		return nil, errors.Wrapf(err, errors.KindInternal, "checking target %s", abs)
	}

	return w, nil
}

// Target returns the resolved target path. Empty for pseudo-targets.
func (w *Writer) Target() string {
	return w.target
}

// Changed reports whether Write modified or created the target.
func (w *Writer) Changed() bool {
	return w.changed
}

// Created reports whether the target file was newly created.
func (w *Writer) Created() bool {
	return w.created
}

// Write places doc in the target. For pseudo-targets the document goes
// to the corresponding stream verbatim.
func (w *Writer) Write(doc string) error {
	if w.isStream {
		out := w.cfg.Stdout
		if stderrTargets[w.cfg.Target] {
			w.log.Info("writing to stderr")
			out = w.cfg.Stderr
		} else {
			w.log.Info("writing to stdout")
		}
		_, err := fmt.Fprintln(out, doc)
		return err
	}

	data, err := os.ReadFile(w.target)
	if err != nil {
		return errors.Wrapf(err, errors.KindInternal, "reading %s", w.target)
	}
	w.original = string(data)

	lines, err := w.insertMarked(strings.Split(w.original, "\n"), doc)
	if err != nil {
		return err
	}

	w.updated = strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
	w.changed = w.created || w.original != w.updated

	if w.original != w.updated {
		w.log.Info("updating target", "target", w.target, "lines", len(strings.Split(doc, "\n")))
		if err := os.WriteFile(w.target, []byte(w.updated), 0o644); err != nil {
			return errors.Wrapf(err, errors.KindInternal, "writing %s", w.target)
		}
	}
	return nil
}

func (w *Writer) marker(kind string) string {
	return fmt.Sprintf("<!-- %s %s -->", w.cfg.Marker, kind)
}

// insertMarked splices doc between the START and END markers. A target
// without markers gets the marked block appended at the bottom.
func (w *Writer) insertMarked(content []string, doc string) ([]string, error) {
	startMarker := w.marker("START")
	endMarker := w.marker("END")

	start := indexOf(content, startMarker)
	end := indexOf(content, endMarker)

	docLines := strings.Split(doc, "\n")

	if start == -1 && end == -1 {
		if w.cfg.InsertPosition != settings.InsertBottom {
			return nil, errors.Errorf(errors.KindValidation, "invalid insert position %q", w.cfg.InsertPosition)
		}
		out := append([]string{}, content...)
		out = append(out, startMarker)
		out = append(out, docLines...)
		out = append(out, endMarker)
		return out, nil
	}

	if start == -1 || end == -1 || start > end {
		return nil, errors.Errorf(errors.KindValidation, "invalid marker positions in %s", w.target)
	}

	out := append([]string{}, content[:start+1]...)
	out = append(out, docLines...)
	out = append(out, content[end:]...)
	return out, nil
}

func indexOf(lines []string, want string) int {
	for i, line := range lines {
		if line == want {
			return i
		}
	}
	return -1
}

// Diff returns a unified diff of the change, or "" when nothing changed.
func (w *Writer) Diff() (string, error) {
	if !w.changed || w.original == w.updated {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(w.original),
		B:        difflib.SplitLines(w.updated),
		FromFile: w.target,
		ToFile:   w.target,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Wrap(err, errors.KindInternal, "generating diff")
	}
	return text, nil
}

// GitAdd stages the target in its enclosing repository.
func (w *Writer) GitAdd(ctx context.Context) error {
	if w.isStream {
		return nil
	}

	w.log.Info("staging target in git", "target", w.target)

	cmd := exec.CommandContext(ctx, "git", "add", filepath.Base(w.target))
	cmd.Dir = filepath.Dir(w.target)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, errors.KindInternal, "git add failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
