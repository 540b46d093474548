package rules

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"

	"github.com/jjn00189/DocuRuleFix/internal/docio"
)

// TitleMode selects how title lines are parsed.
type TitleMode string

const (
	// ModeStrict requires '.', '_' and '：' delimiters splitting the title
	// into ordinal, channel, source and title segments.
	ModeStrict TitleMode = "strict"
	// ModeSimple requires only ordinal + separator + content.
	ModeSimple TitleMode = "simple"
)

// titleRe matches "ordinal + separator + content". Separators are '.', ','
// and ')'; ',' and ')' are normalized to '.' in simple mode.
var titleRe = regexp.MustCompile(`^(\d+)([.,)])(.*)$`)

// StructuralGroupRule validates the repeating three-line structure: a title
// line, a URL line and an image-only line per group.
type StructuralGroupRule struct {
	mode TitleMode
}

// NewStructuralGroupRule builds the rule for the given title mode. An empty
// mode defaults to strict.
func NewStructuralGroupRule(mode TitleMode) (*StructuralGroupRule, error) {
	switch mode {
	case "":
		mode = ModeStrict
	case ModeStrict, ModeSimple:
	default:
		return nil, fmt.Errorf("unknown title mode %q", mode)
	}
	return &StructuralGroupRule{mode: mode}, nil
}

func (r *StructuralGroupRule) ID() string   { return "structure.three-line-group" }
func (r *StructuralGroupRule) Name() string { return "Three-line group structure" }

// Mode returns the configured title mode.
func (r *StructuralGroupRule) Mode() TitleMode { return r.mode }

func (r *StructuralGroupRule) Validate(m *docio.DocumentModel) []Violation {
	return r.run(m, false)
}

func (r *StructuralGroupRule) Fix(m *docio.DocumentModel) []Violation {
	return r.run(m, true)
}

func (r *StructuralGroupRule) run(m *docio.DocumentModel, fix bool) []Violation {
	var vs []Violation
	for _, g := range m.Groups() {
		vs = append(vs, r.titleViolations(m, g.Index, *g.Title, fix)...)
		vs = append(vs, r.urlViolations(g.Index, *g.URL)...)
		vs = append(vs, r.imageViolations(m, g.Index, *g.Image, fix)...)
	}
	vs = append(vs, r.remainderViolations(m, fix)...)
	return vs
}

// remainderViolations handles a trailing partial group: the lines that exist
// still get their per-line checks, plus a single incomplete-group violation
// that is never auto-fixed.
func (r *StructuralGroupRule) remainderViolations(m *docio.DocumentModel, fix bool) []Violation {
	rem := m.Len() % 3
	if rem == 0 {
		return nil
	}
	gi := m.Len() / 3
	start := m.Len() - rem

	var vs []Violation
	if title, ok := m.Line(start); ok {
		vs = append(vs, r.titleViolations(m, gi, title, fix)...)
	}
	if rem > 1 {
		if u, ok := m.Line(start + 1); ok {
			vs = append(vs, r.urlViolations(gi, u)...)
		}
	}
	vs = append(vs, Violation{
		Group:    gi,
		Line:     start,
		Rule:     r.ID(),
		Kind:     KindIncompleteGroup,
		Severity: SeverityError,
		Message:  fmt.Sprintf("line count %d is not a multiple of 3; %d trailing line(s) do not form a complete group", m.Len(), rem),
	})
	return vs
}

func (r *StructuralGroupRule) titleViolations(m *docio.DocumentModel, gi int, line docio.Line, fix bool) []Violation {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return []Violation{{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindTitleEmpty, Severity: SeverityError,
			Message: fmt.Sprintf("group %d title line is empty", gi+1),
		}}
	}

	var vs []Violation
	match := titleRe.FindStringSubmatch(text)
	if match == nil {
		vs = append(vs, Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindTitleFormat, Severity: SeverityError,
			Message: fmt.Sprintf("group %d title must start with an ordinal followed by '.', ',' or ')', got %q", gi+1, clip(text, 50)),
		})
	} else {
		ord, ordErr := strconv.Atoi(match[1])
		sep, rest := match[2], match[3]
		emptyContent := strings.TrimSpace(rest) == ""
		if emptyContent {
			vs = append(vs, Violation{
				Group: gi, Line: line.Index, Rule: r.ID(),
				Kind: KindTitleFormat, Severity: SeverityError,
				Message: fmt.Sprintf("group %d title has no content after the separator", gi+1),
			})
		}

		want := gi + 1
		wantSep := sep
		fixSep := false
		if r.mode == ModeSimple && sep != "." {
			wantSep = "."
			fixSep = !emptyContent
			vs = append(vs, Violation{
				Group: gi, Line: line.Index, Rule: r.ID(),
				Kind: KindTitleSeparator, Severity: SeverityWarning,
				Message: fmt.Sprintf("group %d title uses separator %q instead of '.'", gi+1, sep),
				Fixable: fixSep,
			})
		}

		fixOrd := false
		if ordErr != nil || ord != want {
			// Renumbering a title with no content would fabricate structure;
			// that fix conflict downgrades to an unfixed violation.
			fixOrd = !emptyContent
			vs = append(vs, Violation{
				Group: gi, Line: line.Index, Rule: r.ID(),
				Kind: KindTitleOrdinal, Severity: SeverityError,
				Message: fmt.Sprintf("group %d title ordinal is %s, expected %d", gi+1, match[1], want),
				Fixable: fixOrd,
			})
		}

		if fix && (fixOrd || fixSep) {
			if m.SetText(line.Index, fmt.Sprintf("%d%s%s", want, wantSep, rest)) {
				for i := range vs {
					if vs[i].Line == line.Index && vs[i].Fixable {
						vs[i].Fixed = true
					}
				}
			}
		}
	}

	if r.mode == ModeStrict {
		vs = append(vs, r.markerViolations(gi, line.Index, text)...)
	}
	return vs
}

// markerViolations checks the strict-mode delimiters on the full title text.
// The ordinal's own '.' doubles as the channel delimiter.
func (r *StructuralGroupRule) markerViolations(gi, lineIdx int, text string) []Violation {
	dot := strings.Index(text, ".")
	und := strings.Index(text, "_")
	col := strings.Index(text, "：")

	mk := func(kind Kind, msg string) Violation {
		return Violation{
			Group: gi, Line: lineIdx, Rule: r.ID(),
			Kind: kind, Severity: SeverityError,
			Message: fmt.Sprintf("group %d title %s", gi+1, msg),
		}
	}

	var vs []Violation
	if dot < 0 {
		vs = append(vs, mk(KindMissingChannelMarker, "is missing the '.' delimiter before the channel segment"))
	}
	if und < 0 {
		vs = append(vs, mk(KindMissingSourceMarker, "is missing the '_' delimiter before the source segment"))
	}
	if col < 0 {
		vs = append(vs, mk(KindMissingTitleMarker, "is missing the '：' delimiter before the title segment"))
	}
	if len(vs) == 0 && !(dot < und && und < col) {
		vs = append(vs, mk(KindMarkerOrder, "delimiters must appear in the order '.', '_', '：'"))
	}
	return vs
}

func (r *StructuralGroupRule) urlViolations(gi int, line docio.Line) []Violation {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return []Violation{{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindURLEmpty, Severity: SeverityError,
			Message: fmt.Sprintf("group %d URL line is empty", gi+1),
		}}
	}

	u, err := url.Parse(text)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return []Violation{{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindURLInvalid, Severity: SeverityError,
			Message: fmt.Sprintf("group %d URL line is not a well-formed http(s) URL: %q", gi+1, clip(text, 80)),
		}}
	}

	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil || host == "localhost" {
		return nil
	}
	suffix, icann := publicsuffix.PublicSuffix(host)
	known := icann || strings.Contains(suffix, ".")
	if !known || host == suffix {
		return []Violation{{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindURLInvalid, Severity: SeverityWarning,
			Message: fmt.Sprintf("group %d URL host %q does not look like a registrable domain", gi+1, host),
		}}
	}
	return nil
}

func (r *StructuralGroupRule) imageViolations(m *docio.DocumentModel, gi int, line docio.Line, fix bool) []Violation {
	var vs []Violation

	trimmed := strings.TrimSpace(line.Text)
	switch {
	case trimmed != "":
		vs = append(vs, Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindImageStrayText, Severity: SeverityError,
			Message: fmt.Sprintf("group %d image line contains text content: %q", gi+1, clip(trimmed, 50)),
		})
	case line.Text != "":
		v := Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindImageWhitespace, Severity: SeverityWarning,
			Message: fmt.Sprintf("group %d image line contains whitespace-only text", gi+1),
			Fixable: true,
		}
		if fix && m.SetText(line.Index, "") {
			v.Fixed = true
		}
		vs = append(vs, v)
	}

	switch {
	case line.ImageCount == 0 && line.CorruptImage:
		vs = append(vs, Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindImageMissing, Severity: SeverityWarning,
			Message: fmt.Sprintf("group %d image reference is corrupt and was treated as absent", gi+1),
		})
	case line.ImageCount == 0:
		vs = append(vs, Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindImageMissing, Severity: SeverityError,
			Message: fmt.Sprintf("group %d image line has no embedded image", gi+1),
		})
	case line.ImageCount > 1:
		vs = append(vs, Violation{
			Group: gi, Line: line.Index, Rule: r.ID(),
			Kind: KindImageMultiple, Severity: SeverityError,
			Message: fmt.Sprintf("group %d image line has %d embedded images, expected exactly one", gi+1, line.ImageCount),
		})
	}
	return vs
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
