package docio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjn00189/DocuRuleFix/internal/doctest"
)

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	doctest.WriteRawDocx(t, path,
		[]doctest.RawLine{
			{Text: "9.a_b：c"},
			{Text: "https://example.com/1"},
			{ImageRefs: []string{"rId10"}},
		},
		[]doctest.RawRel{{ID: "rId10", Target: "media/image1.png"}},
	)

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !m.SetText(0, "1.a_b：c") {
		t.Fatal("SetText failed")
	}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if m.Dirty() {
		t.Error("model should be clean after save")
	}

	re, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	l0, _ := re.Line(0)
	if l0.Text != "1.a_b：c" {
		t.Errorf("edited text not persisted: %q", l0.Text)
	}
	l1, _ := re.Line(1)
	if l1.Text != "https://example.com/1" {
		t.Errorf("untouched line changed: %q", l1.Text)
	}
	l2, _ := re.Line(2)
	if l2.ImageCount != 1 {
		t.Errorf("image lost on save: %+v", l2)
	}
}

func TestSave_CleanModelIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	doctest.WriteTextDocx(t, path, "a", "b", "c")
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("saving a clean model must not rewrite the file")
	}
}

func TestSave_EscapesSpecialCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	doctest.WriteTextDocx(t, path, "plain")

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	const edited = `1.a<b>&"c"_d：e`
	m.SetText(0, edited)
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	re, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	l0, _ := re.Line(0)
	if l0.Text != edited {
		t.Errorf("escaped round-trip mismatch: got %q", l0.Text)
	}
}

func TestSave_PreservesOtherPackageEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	doctest.WriteRawDocx(t, path,
		[]doctest.RawLine{{Text: "x"}},
		[]doctest.RawRel{{ID: "rId10", Target: "media/image1.png"}},
	)

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.SetText(0, "y")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"[Content_Types].xml", "_rels/.rels", "word/_rels/document.xml.rels"} {
		if !bytes.Contains(data, []byte(name)) {
			t.Errorf("package entry %s lost on save", name)
		}
	}
}

func TestScanDocument_SkipsTableParagraphs(t *testing.T) {
	doc := []byte(`<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>before</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>after</w:t></w:r></w:p>` +
		`</w:body></w:document>`)

	lines, paras, err := scanDocument(doc, nil)
	if err != nil {
		t.Fatalf("scanDocument: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 body lines, got %d", len(lines))
	}
	if lines[0].Text != "before" || lines[1].Text != "after" {
		t.Errorf("unexpected lines: %q %q", lines[0].Text, lines[1].Text)
	}
	if len(paras) != len(lines) {
		t.Errorf("span count %d does not match line count %d", len(paras), len(lines))
	}
	// The recorded spans must reproduce the paragraph markup exactly.
	for i, sp := range paras {
		block := doc[sp.start:sp.end]
		if !bytes.HasPrefix(block, []byte("<w:p>")) || !bytes.HasSuffix(block, []byte("</w:p>")) {
			t.Errorf("span %d is not a full paragraph block: %q", i, block)
		}
	}
}

func TestRewriteParagraph(t *testing.T) {
	block := []byte(`<w:p><w:r><w:t xml:space="preserve">old text</w:t></w:r>` +
		`<w:r><w:tab/><w:t>tail</w:t></w:r>` +
		`<w:r><w:drawing><pic/></w:drawing></w:r></w:p>`)

	got := string(rewriteParagraph(block, "new"))
	want := `<w:p><w:r><w:t xml:space="preserve">new</w:t></w:r>` +
		`<w:r><w:tab/><w:t/></w:r>` +
		`<w:r><w:drawing><pic/></w:drawing></w:r></w:p>`
	if got != want {
		t.Errorf("rewriteParagraph:\n got %s\nwant %s", got, want)
	}
}

func TestRewriteParagraph_EmptyTextEmptiesAll(t *testing.T) {
	block := []byte(`<w:p><w:r><w:t> </w:t></w:r><w:r><w:t/></w:r></w:p>`)
	got := string(rewriteParagraph(block, ""))
	want := `<w:p><w:r><w:t/></w:r><w:r><w:t/></w:r></w:p>`
	if got != want {
		t.Errorf("rewriteParagraph:\n got %s\nwant %s", got, want)
	}
}
