package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/jjn00189/DocuRuleFix/internal/config"
	"github.com/jjn00189/DocuRuleFix/internal/docio"
	"github.com/jjn00189/DocuRuleFix/internal/rules"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.docx>",
	Short: "Parse a document's groups into structured JSON",
	Long:  "Extracts every complete three-line group as {ordinal, channel, source, title, url, has_image} records without validating or modifying the document.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var extractMode string

func init() {
	extractCmd.Flags().StringVar(&extractMode, "mode", "", "title mode: strict or simple (default from config)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	mode := extractMode
	if mode == "" {
		mode = cfg.TitleMode
	}

	m, err := docio.NewLoader(log).Load(args[0])
	if err != nil {
		return err
	}
	groups := rules.ExtractGroups(m, rules.TitleMode(mode))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(groups)
}
