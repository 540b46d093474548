package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jjn00189/DocuRuleFix/internal/config"
	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/processor"
	"github.com/jjn00189/DocuRuleFix/internal/report"
)

var fixCmd = &cobra.Command{
	Use:   "fix <path>...",
	Short: "Validate documents and apply safe fixes in place",
	Long:  "Applies fixable violations (ordinal renumbering, whitespace stripping, separator normalization) and writes the documents back. A backup copy is taken before each write unless --backup=false.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

var (
	fixMode          string
	fixSkipCorrupted bool
	fixBackup        bool
	fixFormat        string
	fixOut           string
	fixWorkers       int
	fixPrune         bool
)

func init() {
	fixCmd.Flags().StringVar(&fixMode, "mode", "", "title mode: strict or simple (default from config)")
	fixCmd.Flags().BoolVar(&fixSkipCorrupted, "skip-corrupted", false, "skip documents that cannot be parsed")
	fixCmd.Flags().BoolVar(&fixBackup, "backup", true, "create a backup before writing")
	fixCmd.Flags().StringVar(&fixFormat, "format", "markdown", "report format: json, csv, markdown, html")
	fixCmd.Flags().StringVarP(&fixOut, "out", "o", "", "write the report to a file instead of stdout")
	fixCmd.Flags().IntVar(&fixWorkers, "workers", 0, "parallel workers for batch runs (default from config)")
	fixCmd.Flags().BoolVar(&fixPrune, "prune-backups", false, "prune old backups after fixing, keeping KEEP_BACKUPS")

	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	proc, err := buildProcessor(cfg, fixMode, log)
	if err != nil {
		return err
	}
	paths, err := collectDocx(args)
	if err != nil {
		return err
	}
	workers := fixWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}

	opts := processor.Options{
		FixErrors:     true,
		CreateBackup:  fixBackup,
		SkipCorrupted: fixSkipCorrupted,
	}
	results, summary := proc.ProcessAll(context.Background(), paths, opts, workers)

	if fixPrune {
		backups := &docio.Backups{Dir: cfg.BackupDir}
		for _, p := range paths {
			if n, err := backups.Prune(p, cfg.KeepBackups); err != nil {
				log.Warn("backup prune failed", "path", p, "error", err)
			} else if n > 0 {
				log.Info("pruned backups", "path", p, "removed", n)
			}
		}
	}

	out, closeOut, err := openOutput(fixOut)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := report.New(results).Write(out, fixFormat); err != nil {
		return err
	}

	unfixed := summary.Violations - summary.Fixed
	if unfixed > 0 || summary.Failed > 0 {
		return errViolations
	}
	return nil
}
