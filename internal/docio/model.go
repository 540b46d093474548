// Package docio loads, mutates and persists .docx documents as ordered
// sequences of body-level lines. The loader tolerates a known class of
// corrupt media relationships (targets pointing at NULL) by flagging the
// affected images as absent instead of failing the whole document.
package docio

// Line is one body-level paragraph of a document.
type Line struct {
	// Index is the 0-based position of the paragraph in the document body.
	Index int
	// Text is the concatenated run text of the paragraph.
	Text string
	// ImageCount is the number of resolvable embedded images.
	ImageCount int
	// CorruptImage is set when at least one image reference in this
	// paragraph was tolerated as corrupt and treated as absent.
	CorruptImage bool
}

// LineGroup is a triple of consecutive lines interpreted as title, URL and
// image. Group N covers document lines 3N..3N+2.
type LineGroup struct {
	Index int
	Title *Line
	URL   *Line
	Image *Line
}

// DocumentModel is the in-memory representation of one document for the
// duration of a single processing run. It is owned by that run and must not
// be shared across goroutines.
type DocumentModel struct {
	path  string
	lines []Line
	dirty bool
	edits map[int]string
	src   *pkgSource // nil for models not loaded from a file
}

// NewModel builds a synthetic model from pre-extracted lines. Models built
// this way can be validated and fixed but not saved; rule tests and report
// extraction use this.
func NewModel(path string, lines []Line) *DocumentModel {
	ls := make([]Line, len(lines))
	copy(ls, lines)
	for i := range ls {
		ls[i].Index = i
	}
	return &DocumentModel{path: path, lines: ls}
}

// Path returns the file path this model was loaded from.
func (m *DocumentModel) Path() string { return m.path }

// Len returns the number of body-level lines.
func (m *DocumentModel) Len() int { return len(m.lines) }

// Line returns the line at index i.
func (m *DocumentModel) Line(i int) (Line, bool) {
	if i < 0 || i >= len(m.lines) {
		return Line{}, false
	}
	return m.lines[i], true
}

// Lines returns a copy of all lines in document order.
func (m *DocumentModel) Lines() []Line {
	out := make([]Line, len(m.lines))
	copy(out, m.lines)
	return out
}

// Groups derives the complete three-line groups from the current line
// sequence. A trailing remainder (Len()%3 != 0) is not included; use
// Remainder to inspect it.
func (m *DocumentModel) Groups() []LineGroup {
	n := len(m.lines) / 3
	groups := make([]LineGroup, 0, n)
	for g := 0; g < n; g++ {
		groups = append(groups, LineGroup{
			Index: g,
			Title: &m.lines[3*g],
			URL:   &m.lines[3*g+1],
			Image: &m.lines[3*g+2],
		})
	}
	return groups
}

// Remainder returns the trailing lines that do not form a complete group.
func (m *DocumentModel) Remainder() []Line {
	rem := len(m.lines) % 3
	if rem == 0 {
		return nil
	}
	out := make([]Line, rem)
	copy(out, m.lines[len(m.lines)-rem:])
	return out
}

// Complete reports whether the line count is an exact multiple of 3.
func (m *DocumentModel) Complete() bool { return len(m.lines)%3 == 0 }

// SetText replaces the text content of line i and marks the model dirty.
// Setting a line to the text it already has is a no-op. Returns false when
// i is out of range.
func (m *DocumentModel) SetText(i int, text string) bool {
	if i < 0 || i >= len(m.lines) {
		return false
	}
	if m.lines[i].Text == text {
		return true
	}
	m.lines[i].Text = text
	if m.edits == nil {
		m.edits = make(map[int]string)
	}
	m.edits[i] = text
	m.dirty = true
	return true
}

// Dirty reports whether any fix has mutated the model since load.
func (m *DocumentModel) Dirty() bool { return m.dirty }
