package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jjn00189/DocuRuleFix/internal/config"
	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/engine"
	"github.com/jjn00189/DocuRuleFix/internal/processor"
	"github.com/jjn00189/DocuRuleFix/internal/rules"
)

// buildProcessor wires the loader, rule set and engine from config plus the
// CLI's title-mode override.
func buildProcessor(cfg config.Config, mode string, log *slog.Logger) (*processor.Processor, error) {
	if mode == "" {
		mode = cfg.TitleMode
	}
	ruleSet, err := rules.Build([]rules.Config{
		{Type: "structure", Enabled: true, TitleMode: rules.TitleMode(mode)},
	})
	if err != nil {
		return nil, err
	}
	eng := engine.New(log)
	for _, r := range ruleSet {
		eng.Register(r)
	}
	loader := docio.NewLoader(log)
	backups := &docio.Backups{Dir: cfg.BackupDir}
	return processor.New(eng, loader, backups, log), nil
}

// collectDocx expands the path arguments into an ordered list of .docx
// files. Directories are walked recursively; Word lock files (~$ prefix)
// and backup directories are skipped.
func collectDocx(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var inDir []string
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "backups" {
					return filepath.SkipDir
				}
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, "~$") || strings.ToLower(filepath.Ext(name)) != ".docx" {
				return nil
			}
			inDir = append(inDir, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(inDir)
		paths = append(paths, inDir...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .docx files found")
	}
	return paths, nil
}

// openOutput returns the report destination: stdout when path is empty.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
