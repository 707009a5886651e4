package filler

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"docbot/internal/docx"
)

// BlockRow is one collected data block rendered as a table row.
type BlockRow struct {
	Vehicle   string
	Documents string
	Product   string
}

// Header of the generated block table. Fixed three columns.
var blockTableHeader = []string{"Транспортное средство", "Документы", "Продукция"}

// ErrPlaceholderNotFound is returned when the template has no paragraph
// containing the table placeholder.
type ErrPlaceholderNotFound struct {
	Placeholder string
}

func (e *ErrPlaceholderNotFound) Error() string {
	return fmt.Sprintf("table placeholder %q not found in template", e.Placeholder)
}

// InsertBlockTable locates the placeholder paragraph, removes it, and
// puts a generated table in its place: fixed header row, one body row
// per collected block.
func InsertBlockTable(doc *docx.Document, placeholder string, rows []BlockRow) error {
	var target *etree.Element
	for _, p := range doc.Paragraphs() {
		if strings.Contains(docx.ParagraphText(p), placeholder) {
			target = p
			break
		}
	}
	if target == nil {
		return &ErrPlaceholderNotFound{Placeholder: placeholder}
	}

	parent := target.Parent()
	idx := target.Index()

	tbl := buildBlockTable(rows)
	parent.InsertChildAt(idx, tbl)
	parent.RemoveChild(target)
	return nil
}

func buildBlockTable(rows []BlockRow) *etree.Element {
	tbl := etree.NewElement("w:tbl")

	tblPr := tbl.CreateElement("w:tblPr")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		b := borders.CreateElement("w:" + side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
	}

	grid := tbl.CreateElement("w:tblGrid")
	for range blockTableHeader {
		grid.CreateElement("w:gridCol")
	}

	appendRow(tbl, blockTableHeader, true)
	for _, row := range rows {
		appendRow(tbl, []string{row.Vehicle, row.Documents, row.Product}, false)
	}
	return tbl
}

func appendRow(tbl *etree.Element, cells []string, bold bool) {
	tr := tbl.CreateElement("w:tr")
	for _, text := range cells {
		tc := tr.CreateElement("w:tc")
		p := tc.CreateElement("w:p")
		r := p.CreateElement("w:r")
		if bold {
			rPr := r.CreateElement("w:rPr")
			rPr.CreateElement("w:b")
		}
		docx.SetRunText(r, text)
	}
}
