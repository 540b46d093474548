package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jjn00189/DocuRuleFix/internal/docio"
)

// TitleParts are the segments of a parsed title line. Channel and Source
// are only populated in strict mode.
type TitleParts struct {
	Ordinal int    `json:"ordinal"`
	Channel string `json:"channel,omitempty"`
	Source  string `json:"source,omitempty"`
	Title   string `json:"title"`
}

// ParseTitle decomposes a title line. In strict mode the first '.', '_' and
// '：' of the full text delimit the ordinal, channel, source and title
// segments; the ordinal's own '.' doubles as the channel delimiter.
func ParseTitle(text string, mode TitleMode) (TitleParts, error) {
	text = strings.TrimSpace(text)
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return TitleParts{}, fmt.Errorf("title %q has no ordinal/separator prefix", clip(text, 50))
	}
	ord, err := strconv.Atoi(m[1])
	if err != nil {
		return TitleParts{}, fmt.Errorf("title ordinal %q: %w", m[1], err)
	}
	p := TitleParts{Ordinal: ord}

	if mode != ModeStrict {
		p.Title = strings.TrimSpace(m[3])
		return p, nil
	}

	dot := strings.Index(text, ".")
	und := strings.Index(text, "_")
	col := strings.Index(text, "：")
	if dot < 0 || und < 0 || col < 0 || !(dot < und && und < col) {
		return p, fmt.Errorf("title %q is missing or misorders the '.', '_', '：' delimiters", clip(text, 50))
	}
	p.Channel = strings.TrimSpace(text[dot+1 : und])
	p.Source = strings.TrimSpace(text[und+1 : col])
	p.Title = strings.TrimSpace(text[col+len("："):])
	return p, nil
}

// GroupExtract is the parsed content of one three-line group, used by
// report export.
type GroupExtract struct {
	Index    int         `json:"group"`
	Title    string      `json:"title"`
	Parts    *TitleParts `json:"parts,omitempty"`
	URL      string      `json:"url"`
	HasImage bool        `json:"has_image"`
}

// ExtractGroups parses every complete group of the model into report
// records. Titles that fail to parse leave Parts nil.
func ExtractGroups(m *docio.DocumentModel, mode TitleMode) []GroupExtract {
	groups := m.Groups()
	out := make([]GroupExtract, 0, len(groups))
	for _, g := range groups {
		e := GroupExtract{
			Index:    g.Index,
			Title:    strings.TrimSpace(g.Title.Text),
			URL:      strings.TrimSpace(g.URL.Text),
			HasImage: g.Image.ImageCount > 0,
		}
		if parts, err := ParseTitle(g.Title.Text, mode); err == nil {
			e.Parts = &parts
		}
		out = append(out, e)
	}
	return out
}
