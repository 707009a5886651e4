package docx

import "github.com/beevik/etree"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Run describes a text run to be added to a built paragraph.
type Run struct {
	Text  string
	Color string // hex color for rPr, e.g. "FF0000"; empty for default
}

// New creates a minimal empty document. Used by the inspector tool to
// author fixtures and by tests to build templates programmatically.
func New() *Document {
	xmlDoc := etree.NewDocument()
	xmlDoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := xmlDoc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", NamespaceW)
	root.CreateElement("w:body")

	return &Document{
		names: []string{"[Content_Types].xml", "_rels/.rels", documentPath},
		files: map[string][]byte{
			"[Content_Types].xml": []byte(contentTypesXML),
			"_rels/.rels":         []byte(relsXML),
		},
		XML: xmlDoc,
	}
}

// AddParagraph appends a paragraph of runs to the document body.
func (d *Document) AddParagraph(runs ...Run) *etree.Element {
	return addParagraph(d.Body(), runs...)
}

// AddTable appends a table to the document body and returns it. Cells are
// filled with plain paragraphs, one per cell string.
func (d *Document) AddTable(rows [][]string) *etree.Element {
	tbl := d.Body().CreateElement("w:tbl")
	for _, row := range rows {
		tr := tbl.CreateElement("w:tr")
		for _, cell := range row {
			tc := tr.CreateElement("w:tc")
			addParagraph(tc, Run{Text: cell})
		}
	}
	return tbl
}

// AddCellParagraph appends a paragraph of runs to an existing table cell.
func AddCellParagraph(tc *etree.Element, runs ...Run) *etree.Element {
	return addParagraph(tc, runs...)
}

func addParagraph(parent *etree.Element, runs ...Run) *etree.Element {
	p := parent.CreateElement("w:p")
	for _, run := range runs {
		r := p.CreateElement("w:r")
		if run.Color != "" {
			rPr := r.CreateElement("w:rPr")
			color := rPr.CreateElement("w:color")
			color.CreateAttr("w:val", run.Color)
		}
		SetRunText(r, run.Text)
	}
	return p
}
