package docio

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const wordMLNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// LoadError means a document could not be parsed at all. It is fatal for
// that file unless the caller opted into skipping corrupted documents.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// span marks the byte range of one body paragraph inside word/document.xml.
type span struct {
	start int
	end   int
}

// pkgSource retains the original package bytes and paragraph offsets so a
// mutated model can be written back without disturbing untouched markup.
type pkgSource struct {
	file   []byte
	docXML []byte
	paras  []span
}

// Loader reads .docx packages into DocumentModels.
type Loader struct {
	log       *slog.Logger
	tolerated map[string]bool
}

// NewLoader returns a loader with the default relationship tolerance policy.
func NewLoader(log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{log: log, tolerated: ToleratedTargets}
}

// Load reads the document at path. Relationship entries with tolerated
// corrupt targets are skipped; images referencing them are flagged on their
// line instead of failing the load.
func (l *Loader) Load(path string) (*DocumentModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("open package: %w", err)}
	}

	var docXML, relsXML []byte
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			docXML, err = readZipFile(f)
		case "word/_rels/document.xml.rels":
			relsXML, err = readZipFile(f)
		}
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("read %s: %w", f.Name, err)}
		}
	}
	if docXML == nil {
		return nil, &LoadError{Path: path, Err: errors.New("word/document.xml missing")}
	}

	corrupt, err := corruptRelIDs(relsXML, l.tolerated)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(corrupt) > 0 {
		l.log.Warn("tolerating corrupt media relationships", "path", path, "count", len(corrupt))
	}

	lines, paras, err := scanDocument(docXML, corrupt)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return &DocumentModel{
		path:  path,
		lines: lines,
		src:   &pkgSource{file: data, docXML: docXML, paras: paras},
	}, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// scanDocument walks word/document.xml and extracts body-level paragraphs
// with their text, image counts and byte offsets. Paragraphs inside tables
// are skipped, matching how the grouped structure is authored.
func scanDocument(raw []byte, corrupt map[string]bool) ([]Line, []span, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))

	var (
		lines    []Line
		paras    []span
		tblDepth int
		pDepth   int
		inText   bool
		cur      Line
		curStart int64
		text     strings.Builder
	)

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "tbl" && t.Name.Space == wordMLNS:
				tblDepth++
			case t.Name.Local == "p" && t.Name.Space == wordMLNS:
				if tblDepth > 0 {
					continue
				}
				if pDepth == 0 {
					cur = Line{Index: len(lines)}
					curStart = off
					text.Reset()
				}
				pDepth++
			case t.Name.Local == "t" && t.Name.Space == wordMLNS:
				if pDepth > 0 {
					inText = true
				}
			case t.Name.Local == "blip":
				countImage(&cur, t, "embed", corrupt, pDepth)
			case t.Name.Local == "imagedata":
				countImage(&cur, t, "id", corrupt, pDepth)
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == "tbl" && t.Name.Space == wordMLNS:
				if tblDepth > 0 {
					tblDepth--
				}
			case t.Name.Local == "p" && t.Name.Space == wordMLNS:
				if tblDepth > 0 || pDepth == 0 {
					continue
				}
				pDepth--
				if pDepth == 0 {
					cur.Text = text.String()
					lines = append(lines, cur)
					paras = append(paras, span{start: int(curStart), end: int(dec.InputOffset())})
				}
			case t.Name.Local == "t" && t.Name.Space == wordMLNS:
				inText = false
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	return lines, paras, nil
}

// countImage records one image reference on the current line, checking the
// relationship attribute against the tolerated-corrupt set.
func countImage(cur *Line, el xml.StartElement, attr string, corrupt map[string]bool, pDepth int) {
	if pDepth == 0 {
		return
	}
	for _, a := range el.Attr {
		if a.Name.Local != attr {
			continue
		}
		if corrupt[a.Value] {
			cur.CorruptImage = true
		} else {
			cur.ImageCount++
		}
		return
	}
}
