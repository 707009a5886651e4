// Package docx reads and writes the subset of WordprocessingML the bot
// needs: paragraphs, text runs, run colors and tables, inside and outside
// table cells. A .docx file is a zip container; only word/document.xml is
// parsed, every other entry is carried through unchanged on save.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
)

const (
	documentPath = "word/document.xml"

	// Namespace of the wordprocessingml main schema.
	NamespaceW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// Document is an in-memory .docx file.
type Document struct {
	names []string          // zip entry order, preserved on save
	files map[string][]byte // entries other than word/document.xml
	XML   *etree.Document   // parsed word/document.xml
}

// Open reads a .docx file from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a .docx file from raw bytes.
func OpenBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx container: %w", err)
	}

	doc := &Document{files: make(map[string][]byte)}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}

		doc.names = append(doc.names, f.Name)
		if f.Name == documentPath {
			xmlDoc := etree.NewDocument()
			if err := xmlDoc.ReadFromBytes(content); err != nil {
				return nil, fmt.Errorf("parse %s: %w", documentPath, err)
			}
			doc.XML = xmlDoc
		} else {
			doc.files[f.Name] = content
		}
	}

	if doc.XML == nil {
		return nil, fmt.Errorf("not a docx file: %s entry missing", documentPath)
	}
	return doc, nil
}

// Bytes serializes the document back into a .docx container.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, name := range d.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create entry %s: %w", name, err)
		}
		if name == documentPath {
			out, err := d.XML.WriteToBytes()
			if err != nil {
				return nil, fmt.Errorf("serialize %s: %w", documentPath, err)
			}
			if _, err := w.Write(out); err != nil {
				return nil, fmt.Errorf("write entry %s: %w", name, err)
			}
			continue
		}
		if _, err := w.Write(d.files[name]); err != nil {
			return nil, fmt.Errorf("write entry %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx container: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFile writes the document to a fresh file. The source template is
// never mutated in place.
func (d *Document) SaveFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Paragraphs returns every w:p element in document order, including
// paragraphs nested inside table cells.
func (d *Document) Paragraphs() []*etree.Element {
	return d.XML.FindElements("//w:p")
}

// Body returns the w:body element.
func (d *Document) Body() *etree.Element {
	return d.XML.FindElement("//w:body")
}

// Runs returns the w:r children of a paragraph.
func Runs(p *etree.Element) []*etree.Element {
	return p.SelectElements("w:r")
}

// RunText returns the text of a run, empty if the run has no w:t.
func RunText(r *etree.Element) string {
	if t := r.SelectElement("w:t"); t != nil {
		return t.Text()
	}
	return ""
}

// SetRunText replaces the text of a run, creating w:t when missing.
// xml:space is set to preserve so leading/trailing spaces survive.
func SetRunText(r *etree.Element, text string) {
	t := r.SelectElement("w:t")
	if t == nil {
		t = r.CreateElement("w:t")
	}
	t.SetText(text)
	t.CreateAttr("xml:space", "preserve")
}

// RunColor returns the run's rPr color value in upper case ("FF0000"),
// or empty when the run carries no explicit color.
func RunColor(r *etree.Element) string {
	rPr := r.SelectElement("w:rPr")
	if rPr == nil {
		return ""
	}
	c := rPr.SelectElement("w:color")
	if c == nil {
		return ""
	}
	return strings.ToUpper(c.SelectAttrValue("w:val", ""))
}

// ParagraphText joins the text of all runs in a paragraph.
func ParagraphText(p *etree.Element) string {
	var b strings.Builder
	for _, r := range Runs(p) {
		b.WriteString(RunText(r))
	}
	return b.String()
}
