// Package doctest builds .docx fixtures for tests: simple text documents
// through go-docx, and hand-assembled packages when a test needs image
// references or deliberately corrupt relationship entries.
package doctest

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

// WriteTextDocx creates a document at path with one paragraph per line.
// Empty strings become empty paragraphs.
func WriteTextDocx(t *testing.T, path string, lines ...string) {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	for _, line := range lines {
		p := w.AddParagraph()
		if line != "" {
			p.AddText(line)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if _, err := w.WriteTo(f); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// RawLine describes one paragraph of a hand-assembled document.
type RawLine struct {
	Text      string
	ImageRefs []string // relationship IDs referenced via a:blip r:embed
}

// RawRel is one relationship entry of the document part.
type RawRel struct {
	ID     string
	Target string
}

// WriteRawDocx assembles a minimal .docx package with full control over
// paragraph content and the relationship table.
func WriteRawDocx(t *testing.T, path string, lines []RawLine, rels []RawRel) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	entries := map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  rootRelsXML,
		"word/document.xml":            DocumentXML(lines),
		"word/_rels/document.xml.rels": relsXML(rels),
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml", "word/_rels/document.xml.rels"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

// DocumentXML renders lines as a word/document.xml part.
func DocumentXML(lines []RawLine) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
		` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"><w:body>`)
	for _, line := range lines {
		b.WriteString("<w:p>")
		if line.Text != "" {
			b.WriteString(`<w:r><w:t xml:space="preserve">`)
			xml.EscapeText(&b, []byte(line.Text))
			b.WriteString(`</w:t></w:r>`)
		}
		for _, rid := range line.ImageRefs {
			fmt.Fprintf(&b, `<w:r><w:drawing><wp:inline><a:graphic><a:graphicData><pic:pic><pic:blipFill><a:blip r:embed=%q/></pic:blipFill></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`, rid)
		}
		b.WriteString("</w:p>")
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func relsXML(rels []RawRel) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id=%q Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target=%q/>`, r.ID, r.Target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
