package docio

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjn00189/DocuRuleFix/internal/doctest"
)

func TestLoad_TextDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.docx")
	doctest.WriteTextDocx(t, path,
		"1.chan_src：headline",
		"https://example.com/1",
		"",
	)

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("expected 3 lines, got %d", m.Len())
	}
	l0, _ := m.Line(0)
	if l0.Text != "1.chan_src：headline" {
		t.Errorf("line 0: got %q", l0.Text)
	}
	l2, _ := m.Line(2)
	if l2.Text != "" || l2.ImageCount != 0 {
		t.Errorf("line 2: expected empty paragraph, got %+v", l2)
	}
	if !m.Complete() {
		t.Error("3 lines should be a complete grouping")
	}
	if m.Dirty() {
		t.Error("freshly loaded model must be clean")
	}
}

func TestLoad_ImagesAndCorruptRelationships(t *testing.T) {
	path := filepath.Join(t.TempDir(), "images.docx")
	doctest.WriteRawDocx(t, path,
		[]doctest.RawLine{
			{Text: "1.a_b：c"},
			{Text: "https://example.com/1"},
			{ImageRefs: []string{"rId10"}},
			{Text: "2.d_e：f"},
			{Text: "https://example.com/2"},
			{ImageRefs: []string{"rId11"}}, // target NULL, tolerated
			{Text: "3.g_h：i"},
			{Text: "https://example.com/3"},
			{ImageRefs: []string{"rId10", "rId12"}},
		},
		[]doctest.RawRel{
			{ID: "rId10", Target: "media/image1.png"},
			{ID: "rId11", Target: "NULL"},
			{ID: "rId12", Target: "../NULL"},
		},
	)

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Len() != 9 {
		t.Fatalf("expected 9 lines, got %d", m.Len())
	}

	l2, _ := m.Line(2)
	if l2.ImageCount != 1 || l2.CorruptImage {
		t.Errorf("line 2: expected one sound image, got %+v", l2)
	}
	l5, _ := m.Line(5)
	if l5.ImageCount != 0 || !l5.CorruptImage {
		t.Errorf("line 5: expected corrupt-only image reference, got %+v", l5)
	}
	l8, _ := m.Line(8)
	if l8.ImageCount != 1 || !l8.CorruptImage {
		t.Errorf("line 8: expected one sound + one corrupt, got %+v", l8)
	}
}

func TestLoad_GroupsAndRemainder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.docx")
	doctest.WriteTextDocx(t, path, "a", "b", "c", "d")

	m, err := NewLoader(nil).Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	groups := m.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 complete group, got %d", len(groups))
	}
	if groups[0].Title.Text != "a" || groups[0].URL.Text != "b" {
		t.Errorf("group 0 lines: %q %q", groups[0].Title.Text, groups[0].URL.Text)
	}
	rem := m.Remainder()
	if len(rem) != 1 || rem[0].Text != "d" {
		t.Errorf("expected remainder [d], got %+v", rem)
	}
	if m.Complete() {
		t.Error("4 lines must not be complete")
	}
}

func TestLoad_NotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.docx")
	if err := os.WriteFile(path, []byte("PK\x03\x04 not really a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(nil).Load(path)
	if err == nil {
		t.Fatal("expected load error")
	}
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
	if le.Path != path {
		t.Errorf("LoadError.Path: got %q", le.Path)
	}
}

func TestLoad_MissingDocumentPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("word/other.xml")
	w.Write([]byte("<x/>"))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, err = NewLoader(nil).Load(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError for missing document part, got %v", err)
	}
}

func TestLoad_NonexistentFile(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "nope.docx"))
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
}

func TestNewModel_SyntheticIsNotPersistable(t *testing.T) {
	m := NewModel("synthetic.docx", []Line{{Text: "x"}})
	if !m.SetText(0, "y") {
		t.Fatal("SetText failed")
	}
	if err := m.Save("anywhere.docx"); err != ErrNotPersistable {
		t.Errorf("expected ErrNotPersistable, got %v", err)
	}
}

func TestSetText_Bounds(t *testing.T) {
	m := NewModel("b.docx", []Line{{Text: "x"}})
	if m.SetText(-1, "y") || m.SetText(1, "y") {
		t.Error("out-of-range SetText must return false")
	}
	if m.Dirty() {
		t.Error("failed edits must not dirty the model")
	}
	if !m.SetText(0, "x") {
		t.Error("no-op SetText should succeed")
	}
	if m.Dirty() {
		t.Error("setting identical text must not dirty the model")
	}
}
