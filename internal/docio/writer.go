package docio

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotPersistable is returned when saving a model that was not loaded
// from a file.
var ErrNotPersistable = errors.New("document model has no backing file")

// Save writes the mutated document back to path. The new package is built in
// a temp file in the same directory and moved into place, so a failed write
// leaves the previous file intact. Saving a clean model is a no-op.
func (m *DocumentModel) Save(path string) error {
	if !m.dirty {
		return nil
	}
	if m.src == nil {
		return ErrNotPersistable
	}

	newXML, err := m.src.apply(m.edits)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".docurule-*.docx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}

	zr, err := zip.NewReader(bytes.NewReader(m.src.file), int64(len(m.src.file)))
	if err != nil {
		return fail(fmt.Errorf("reopen package: %w", err))
	}
	zw := zip.NewWriter(tmp)
	for _, f := range zr.File {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate})
		if err != nil {
			return fail(fmt.Errorf("write %s: %w", f.Name, err))
		}
		if f.Name == "word/document.xml" {
			if _, err := w.Write(newXML); err != nil {
				return fail(fmt.Errorf("write %s: %w", f.Name, err))
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fail(fmt.Errorf("read %s: %w", f.Name, err))
		}
		_, err = io.Copy(w, rc)
		rc.Close()
		if err != nil {
			return fail(fmt.Errorf("copy %s: %w", f.Name, err))
		}
	}
	if err := zw.Close(); err != nil {
		return fail(fmt.Errorf("finalize package: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	m.dirty = false
	m.edits = nil
	return nil
}

// apply rewrites the edited paragraph blocks inside document.xml, leaving
// every other byte of the original markup untouched.
func (s *pkgSource) apply(edits map[int]string) ([]byte, error) {
	if len(edits) == 0 {
		return s.docXML, nil
	}
	idxs := make([]int, 0, len(edits))
	for i := range edits {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	var buf bytes.Buffer
	prev := 0
	for _, i := range idxs {
		if i < 0 || i >= len(s.paras) {
			return nil, fmt.Errorf("paragraph %d out of range", i)
		}
		sp := s.paras[i]
		buf.Write(s.docXML[prev:sp.start])
		buf.Write(rewriteParagraph(s.docXML[sp.start:sp.end], edits[i]))
		prev = sp.end
	}
	buf.Write(s.docXML[prev:])
	return buf.Bytes(), nil
}

// rewriteParagraph replaces the text elements of one paragraph block: the
// first w:t receives the new text, the rest are emptied. Drawings and run
// properties are preserved as-is.
func rewriteParagraph(block []byte, text string) []byte {
	var out bytes.Buffer
	rest := block
	first := true
	for {
		i := indexWT(rest)
		if i < 0 {
			out.Write(rest)
			break
		}
		j := bytes.IndexByte(rest[i:], '>')
		if j < 0 {
			out.Write(rest)
			break
		}
		j += i
		closeEnd := j + 1
		if rest[j-1] != '/' {
			k := bytes.Index(rest[j+1:], []byte("</w:t>"))
			if k < 0 {
				out.Write(rest)
				break
			}
			closeEnd = j + 1 + k + len("</w:t>")
		}
		out.Write(rest[:i])
		if first && text != "" {
			out.WriteString(`<w:t xml:space="preserve">`)
			escapeXML(&out, text)
			out.WriteString(`</w:t>`)
		} else {
			out.WriteString(`<w:t/>`)
		}
		first = false
		rest = rest[closeEnd:]
	}
	return out.Bytes()
}

// indexWT finds the next opening w:t tag, rejecting prefixes of longer tag
// names like w:tab, w:tbl or w:tc.
func indexWT(b []byte) int {
	off := 0
	for {
		i := bytes.Index(b[off:], []byte("<w:t"))
		if i < 0 {
			return -1
		}
		i += off
		if n := i + 4; n < len(b) && (b[n] == '>' || b[n] == ' ' || b[n] == '/') {
			return i
		}
		off = i + 4
	}
}

func escapeXML(buf *bytes.Buffer, s string) {
	if err := xml.EscapeText(buf, []byte(s)); err != nil {
		// EscapeText only fails on writer errors; bytes.Buffer cannot.
		buf.WriteString(strings.ReplaceAll(s, "<", "&lt;"))
	}
}
