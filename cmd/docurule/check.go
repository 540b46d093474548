package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jjn00189/DocuRuleFix/internal/config"
	"github.com/jjn00189/DocuRuleFix/internal/processor"
	"github.com/jjn00189/DocuRuleFix/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Validate documents without modifying them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var (
	checkMode          string
	checkSkipCorrupted bool
	checkFormat        string
	checkOut           string
	checkWorkers       int
)

func init() {
	checkCmd.Flags().StringVar(&checkMode, "mode", "", "title mode: strict or simple (default from config)")
	checkCmd.Flags().BoolVar(&checkSkipCorrupted, "skip-corrupted", false, "skip documents that cannot be parsed")
	checkCmd.Flags().StringVar(&checkFormat, "format", "markdown", "report format: json, csv, markdown, html")
	checkCmd.Flags().StringVarP(&checkOut, "out", "o", "", "write the report to a file instead of stdout")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "parallel workers for batch runs (default from config)")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	proc, err := buildProcessor(cfg, checkMode, log)
	if err != nil {
		return err
	}
	paths, err := collectDocx(args)
	if err != nil {
		return err
	}
	workers := checkWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}

	opts := processor.Options{SkipCorrupted: checkSkipCorrupted}
	results, summary := proc.ProcessAll(context.Background(), paths, opts, workers)

	out, closeOut, err := openOutput(checkOut)
	if err != nil {
		return err
	}
	defer closeOut()
	if err := report.New(results).Write(out, checkFormat); err != nil {
		return err
	}

	if summary.Violations > 0 || summary.Failed > 0 {
		return errViolations
	}
	return nil
}
