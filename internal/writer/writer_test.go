// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package writer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"grimm.is/tfdocs/internal/errors"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/settings"
)

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logging.LevelError, Output: &bytes.Buffer{}})
}

func testConfig(dir, target string) Config {
	def := settings.Default()
	return Config{
		Target:         target,
		ModulePath:     dir,
		Marker:         def.TargetConfig.Marker,
		InsertPosition: def.TargetConfig.InsertPosition,
		EmptyHeader:    def.TargetConfig.EmptyHeader,
	}
}

func TestWriteCreatesTarget(t *testing.T) {
	dir := t.TempDir()

	w, err := New(testConfig(dir, "README.md"), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !w.Created() {
		t.Error("expected target to be created")
	}

	if err := w.Write("## API Documentation\n\ndocs body"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !w.Changed() {
		t.Error("expected change on creation")
	}

	data, err := os.ReadFile(filepath.Join(dir, "README.md"))
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	// The empty-header template names the target file.
	if !strings.HasPrefix(got, "# README\n") {
		t.Errorf("missing header template:\n%s", got)
	}
	if !strings.Contains(got, "<!-- TFDOCS START -->\n## API Documentation\n\ndocs body\n<!-- TFDOCS END -->") {
		t.Errorf("marked block not appended:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("output should end with a newline")
	}
}

func TestWriteReplacesMarkedBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	content := "# My Module\n\nintro\n\n<!-- TFDOCS START -->\nold docs\n<!-- TFDOCS END -->\n\ntrailer\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(testConfig(dir, "README.md"), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write("new docs"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !w.Changed() {
		t.Error("expected change")
	}

	data, _ := os.ReadFile(path)
	got := string(data)

	if strings.Contains(got, "old docs") {
		t.Errorf("old block not replaced:\n%s", got)
	}
	if !strings.Contains(got, "<!-- TFDOCS START -->\nnew docs\n<!-- TFDOCS END -->") {
		t.Errorf("new block missing:\n%s", got)
	}
	// Content around the markers survives.
	if !strings.Contains(got, "intro") || !strings.Contains(got, "trailer") {
		t.Errorf("surrounding content lost:\n%s", got)
	}
}

func TestWriteUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	content := "# My Module\n\n<!-- TFDOCS START -->\nsame docs\n<!-- TFDOCS END -->\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(testConfig(dir, "README.md"), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write("same docs"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.Changed() {
		t.Error("identical content should not report a change")
	}

	diff, err := w.Diff()
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("expected empty diff, got:\n%s", diff)
	}
}

func TestWriteInvalidMarkers(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing end", "<!-- TFDOCS START -->\n"},
		{"missing start", "<!-- TFDOCS END -->\n"},
		{"reversed", "<!-- TFDOCS END -->\n<!-- TFDOCS START -->\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(tc.content), 0o644); err != nil {
				t.Fatal(err)
			}

			w, err := New(testConfig(dir, "README.md"), quietLogger())
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}

			err = w.Write("docs")
			if errors.GetKind(err) != errors.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestWriteStdout(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig(t.TempDir(), "-")
	cfg.Stdout = &out

	w, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if w.Target() != "" {
		t.Errorf("pseudo-target should not resolve to a path, got %q", w.Target())
	}
	if err := w.Write("docs body"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.String() != "docs body\n" {
		t.Errorf("stdout = %q", out.String())
	}
	if w.Changed() {
		t.Error("stream targets never report changes")
	}
}

func TestWriteStderr(t *testing.T) {
	var out bytes.Buffer
	cfg := testConfig(t.TempDir(), "stderr")
	cfg.Stderr = &out

	w, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write("docs body"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.String() != "docs body\n" {
		t.Errorf("stderr = %q", out.String())
	}
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")
	content := "# My Module\n\n<!-- TFDOCS START -->\nold line\n<!-- TFDOCS END -->\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(testConfig(dir, "README.md"), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := w.Write("new line"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	diff, err := w.Diff()
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if !strings.Contains(diff, "-old line") || !strings.Contains(diff, "+new line") {
		t.Errorf("unexpected diff:\n%s", diff)
	}
}

func TestRelativeDotTargetNotResolvedAgainstModule(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "mod")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	// An explicit ./ prefix is taken relative to the working directory,
	// not the module path.
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	w, err := New(testConfig(sub, "./OUT.md"), quietLogger())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want, _ := filepath.Abs(filepath.Join(dir, "OUT.md"))
	if w.Target() != want {
		t.Errorf("target = %q, want %q", w.Target(), want)
	}
}
