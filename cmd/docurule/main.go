// Package main is the docurule CLI: validate and repair .docx documents
// that follow the repeating title/URL/image three-line structure.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errViolations signals that validation found problems; the process exits 1
// instead of 2 so scripts can tell findings from failures.
var errViolations = errors.New("violations found")

var rootCmd = &cobra.Command{
	Use:           "docurule",
	Short:         "Validate and repair three-line-group .docx documents",
	Long:          "docurule checks .docx documents against the title/URL/image three-line group structure, optionally fixes what can be fixed safely, and reports the rest.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errViolations) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
