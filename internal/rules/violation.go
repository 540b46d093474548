// Package rules defines the validation/fix capability contract and the
// structural three-line-group rule.
package rules

import "fmt"

// Severity classifies how serious a violation is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Kind identifies the specific class of a violation.
type Kind string

const (
	KindIncompleteGroup Kind = "incomplete-trailing-group"

	KindTitleEmpty     Kind = "title-empty"
	KindTitleFormat    Kind = "title-format"
	KindTitleOrdinal   Kind = "title-ordinal"
	KindTitleSeparator Kind = "title-separator"

	KindMissingChannelMarker Kind = "missing-channel-marker"
	KindMissingSourceMarker  Kind = "missing-source-marker"
	KindMissingTitleMarker   Kind = "missing-title-marker"
	KindMarkerOrder          Kind = "marker-order"

	KindURLEmpty   Kind = "url-empty"
	KindURLInvalid Kind = "url-invalid"

	KindImageMissing    Kind = "image-missing"
	KindImageMultiple   Kind = "image-multiple"
	KindImageStrayText  Kind = "image-stray-text"
	KindImageWhitespace Kind = "image-whitespace"
)

// Violation is an immutable report of one rule finding. Line is the 0-based
// document line index, Group the 0-based group index.
type Violation struct {
	Group    int      `json:"group"`
	Line     int      `json:"line"`
	Rule     string   `json:"rule"`
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Fixable  bool     `json:"fixable"`
	Fixed    bool     `json:"fixed"`
}

func (v Violation) String() string {
	return fmt.Sprintf("group %d line %d [%s/%s] %s", v.Group+1, v.Line, v.Kind, v.Severity, v.Message)
}
