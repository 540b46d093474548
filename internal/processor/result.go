package processor

import (
	"fmt"

	"github.com/jjn00189/DocuRuleFix/internal/rules"
)

// ValidationResult is the immutable report of one validate-only run.
type ValidationResult struct {
	Path       string            `json:"path"`
	Success    bool              `json:"success"`
	Corrupted  bool              `json:"corrupted"`
	Violations []rules.Violation `json:"violations"`
	Fixed      int               `json:"fixed"`
	Unfixed    int               `json:"unfixed"`
	Message    string            `json:"message"`
}

// ProcessResult extends ValidationResult with persistence outcome.
type ProcessResult struct {
	ValidationResult
	BackupPath string `json:"backup_path,omitempty"`
	Persisted  bool   `json:"persisted"`
}

// BatchSummary aggregates a batch run.
type BatchSummary struct {
	Processed  int `json:"processed"`
	Fixed      int `json:"fixed"`
	Violations int `json:"violations"`
	Skipped    int `json:"skipped_corrupted"`
	Failed     int `json:"failed"`
}

func (s BatchSummary) String() string {
	return fmt.Sprintf("processed %d, fixed %d, violations %d, skipped %d, failed %d",
		s.Processed, s.Fixed, s.Violations, s.Skipped, s.Failed)
}

// Summarize builds a batch summary from per-file results.
func Summarize(results []ProcessResult) BatchSummary {
	var s BatchSummary
	for _, r := range results {
		switch {
		case r.Corrupted:
			s.Skipped++
		case !r.Success:
			s.Failed++
		default:
			s.Processed++
		}
		s.Fixed += r.Fixed
		s.Violations += len(r.Violations)
	}
	return s
}

func newValidationResult(path string, vs []rules.Violation, corrupted bool) ValidationResult {
	res := ValidationResult{
		Path:       path,
		Success:    !corrupted,
		Corrupted:  corrupted,
		Violations: vs,
	}
	for _, v := range vs {
		if v.Fixed {
			res.Fixed++
		} else {
			res.Unfixed++
		}
	}
	switch {
	case corrupted:
		res.Message = "document could not be parsed; skipped as corrupted"
	case len(vs) == 0:
		res.Message = "no violations found"
	case res.Fixed > 0:
		res.Message = fmt.Sprintf("%d violation(s) found, %d fixed", len(vs), res.Fixed)
	default:
		res.Message = fmt.Sprintf("%d violation(s) found", len(vs))
	}
	return res
}
