// Package report serializes processing results: JSON, CSV
// (record-per-violation), Markdown, and HTML rendered from the Markdown.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/jjn00189/DocuRuleFix/internal/processor"
)

// Report bundles per-file results with the batch summary.
type Report struct {
	Summary processor.BatchSummary    `json:"summary"`
	Results []processor.ProcessResult `json:"results"`
}

func New(results []processor.ProcessResult) Report {
	return Report{Summary: processor.Summarize(results), Results: results}
}

// WriteJSON writes the full report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one record per violation. Skipped and failed files get a
// single record with an empty kind so they stay visible in the export.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "group", "line", "rule", "kind", "severity", "fixable", "fixed", "message"}); err != nil {
		return err
	}
	for _, res := range r.Results {
		if len(res.Violations) == 0 {
			if res.Corrupted || !res.Success {
				if err := cw.Write([]string{res.Path, "", "", "", "", "", "", "", res.Message}); err != nil {
					return err
				}
			}
			continue
		}
		for _, v := range res.Violations {
			rec := []string{
				res.Path,
				strconv.Itoa(v.Group),
				strconv.Itoa(v.Line),
				v.Rule,
				string(v.Kind),
				string(v.Severity),
				strconv.FormatBool(v.Fixable),
				strconv.FormatBool(v.Fixed),
				v.Message,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders the report as a human-readable Markdown document.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Validation report\n\n")
	fmt.Fprintf(&b, "Processed %d, fixed %d, violations %d, skipped %d, failed %d.\n\n",
		r.Summary.Processed, r.Summary.Fixed, r.Summary.Violations, r.Summary.Skipped, r.Summary.Failed)

	for _, res := range r.Results {
		fmt.Fprintf(&b, "## %s\n\n", res.Path)
		switch {
		case res.Corrupted:
			b.WriteString("Skipped: document could not be parsed.\n\n")
			continue
		case !res.Success:
			fmt.Fprintf(&b, "Failed: %s\n\n", res.Message)
			continue
		case len(res.Violations) == 0:
			b.WriteString("No violations.\n\n")
			continue
		}
		for _, v := range res.Violations {
			status := ""
			if v.Fixed {
				status = " (fixed)"
			} else if v.Fixable {
				status = " (fixable)"
			}
			fmt.Fprintf(&b, "- line %d, %s/%s: %s%s\n", v.Line, v.Kind, v.Severity, v.Message, status)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteHTML converts the Markdown rendering to HTML.
func (r Report) WriteHTML(w io.Writer) error {
	return goldmark.New().Convert([]byte(r.Markdown()), w)
}

// Write renders the report in the named format: json, csv, markdown or html.
func (r Report) Write(w io.Writer, format string) error {
	switch format {
	case "json", "":
		return r.WriteJSON(w)
	case "csv":
		return r.WriteCSV(w)
	case "markdown", "md":
		_, err := io.WriteString(w, r.Markdown())
		return err
	case "html":
		return r.WriteHTML(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
