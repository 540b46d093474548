package rules

import "github.com/jjn00189/DocuRuleFix/internal/docio"

// Rule is the capability contract every document check implements.
//
// Validate is pure inspection: it must not mutate the model and must be
// deterministic for the same model contents. Fix applies every fixable
// finding in place and returns the full set of violations with the applied
// ones marked Fixed; running Fix on an already-fixed model mutates nothing
// and reports no fixed violations.
type Rule interface {
	// ID is the stable identifier used for registration and reports.
	ID() string
	// Name is the human-readable rule name.
	Name() string
	Validate(m *docio.DocumentModel) []Violation
	Fix(m *docio.DocumentModel) []Violation
}
