// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// tfdocs generates Markdown documentation from OpenTofu source code and
// keeps it up to date inside a marker-delimited block of the target file.
//
// Usage:
//
//	tfdocs -module ./modules/network
//	tfdocs -module ./modules/network -target -
//	tfdocs -module ./modules/network -dump-config
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"grimm.is/tfdocs/internal/hclmod"
	"grimm.is/tfdocs/internal/logging"
	"grimm.is/tfdocs/internal/render"
	"grimm.is/tfdocs/internal/settings"
	"grimm.is/tfdocs/internal/source"
	"grimm.is/tfdocs/internal/writer"
)

func main() {
	modulePath := flag.String("module", ".", "Path to the module")
	configFile := flag.String("config", "", "Path to the settings file (default: <module>/"+settings.DefaultFile+")")
	target := flag.String("target", "", "Target file, overrides the settings file (use '-' for stdout)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	dumpConfig := flag.Bool("dump-config", false, "Write the default settings to the settings file and exit")
	dumpOverwrite := flag.Bool("dump-overwrite", false, "Allow -dump-config to overwrite an existing settings file")
	showDiff := flag.Bool("diff", false, "Print a unified diff when the target changes")
	gitAdd := flag.Bool("git-add", false, "Stage the target in git when it changes")
	flag.Parse()

	log := logging.New(logging.Config{Level: logging.LevelInfo, Output: os.Stderr})
	logging.SetDefault(log)

	cfgPath := *configFile
	if cfgPath == "" {
		cfgPath = filepath.Join(*modulePath, settings.DefaultFile)
	}

	if *dumpConfig {
		if err := dumpSettings(cfgPath, *dumpOverwrite, log); err != nil {
			log.Fatal("dumping settings failed", "error", err)
		}
		return
	}

	s, err := settings.Load(cfgPath, log)
	if err != nil {
		log.Fatal("loading settings failed", "error", err)
	}

	if *target != "" {
		s.Target = *target
	}
	if *debug {
		s.Debug = true
	}
	if s.Debug {
		log = logging.New(logging.Config{Level: logging.LevelDebug, Output: os.Stderr})
		logging.SetDefault(log)
		log.Debug("debug mode is enabled")
	}

	log.Info("generating documentation", "module", *modulePath)

	sc := source.NewScanner(log)

	mod, err := hclmod.LoadModule(*modulePath, s.ModuleOptions(), sc, log)
	if err != nil {
		log.Fatal("loading module failed", "error", err)
	}

	doc, err := render.New(s.RenderConfig(), sc, log).Render(mod)
	if err != nil {
		log.Fatal("rendering documentation failed", "error", err)
	}

	w, err := writer.New(writer.Config{
		Target:         s.Target,
		ModulePath:     *modulePath,
		Marker:         s.TargetConfig.Marker,
		InsertPosition: s.TargetConfig.InsertPosition,
		EmptyHeader:    s.TargetConfig.EmptyHeader,
	}, log)
	if err != nil {
		log.Fatal("resolving target failed", "error", err)
	}

	if err := w.Write(doc); err != nil {
		log.Fatal("writing documentation failed", "error", err)
	}

	if !w.Changed() {
		log.Info("documentation is up to date")
		return
	}

	if w.Created() {
		log.Warn("target file was created")
	} else {
		log.Warn("documentation was changed")
	}

	if *showDiff || s.Debug {
		diff, err := w.Diff()
		if err != nil {
			log.Fatal("generating diff failed", "error", err)
		}
		if diff != "" {
			fmt.Print(diff)
		}
	}

	if *gitAdd {
		if err := w.GitAdd(context.Background()); err != nil {
			log.Fatal("staging target failed", "error", err)
		}
	}
}

// dumpSettings writes the default settings file, refusing to clobber an
// existing one unless asked to.
func dumpSettings(path string, overwrite bool, log *logging.Logger) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("settings file %s already exists", path)
	}

	data, err := settings.Default().Dump()
	if err != nil {
		return err
	}

	log.Info("dumping settings", "path", path)
	return os.WriteFile(path, data, 0o644)
}
