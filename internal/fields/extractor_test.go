package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbot/internal/docx"
	"docbot/pkg/registry"
)

func buildTemplate() *docx.Document {
	doc := docx.New()
	doc.AddParagraph(
		docx.Run{Text: "Отправитель: "},
		docx.Run{Text: "Наименование отправителя", Color: "FF0000"},
	)
	doc.AddParagraph(
		docx.Run{Text: "Продукция: "},
		docx.Run{Text: " Наименование продукции ", Color: "FF0000"},
	)
	// Repeated label inside a table cell: must collapse into one field.
	tbl := doc.AddTable([][]string{{""}})
	tc := tbl.FindElement("w:tr/w:tc")
	docx.AddCellParagraph(tc, docx.Run{Text: "Наименование продукции", Color: "FF0000"})
	docx.AddCellParagraph(tc, docx.Run{Text: "Вес нетто", Color: "FF0000"})
	// Black text is never a field.
	doc.AddParagraph(docx.Run{Text: "Подпись"})
	return doc
}

func TestExtractRed(t *testing.T) {
	labels := ExtractRed(buildTemplate())

	assert.Equal(t, []string{
		"Наименование отправителя",
		"Наименование продукции",
		"Вес нетто",
	}, labels)
}

func TestExtractRedIdempotent(t *testing.T) {
	doc := buildTemplate()

	first := ExtractRed(doc)
	second := ExtractRed(doc)
	assert.Equal(t, first, second)
}

func TestExtractRedEmptyDocument(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "только чёрный текст"})

	assert.Empty(t, ExtractRed(doc))
}

func TestExtractMarkers(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "Дата: {{DATE}}, место: {{PLACE}}"})
	// Marker split across runs.
	doc.AddParagraph(
		docx.Run{Text: "{{VEH"},
		docx.Run{Text: "ICLE}}"},
	)
	doc.AddParagraph(docx.Run{Text: "Повтор: {{DATE}}"})

	assert.Equal(t, []string{"{{DATE}}", "{{PLACE}}", "{{VEHICLE}}"}, ExtractMarkers(doc))
}

func TestExtractMarkerConvention(t *testing.T) {
	tpl := &registry.Template{
		Convention: registry.ConventionMarker,
		Questions: []registry.Question{
			{Label: "{{VEHICLE}}", Prompt: "ТС?", Kind: "text"},
			{Label: "{{PRODUCT}}", Prompt: "Продукция?", Kind: "text"},
		},
	}

	labels := Extract(docx.New(), tpl)
	require.Equal(t, []string{"{{VEHICLE}}", "{{PRODUCT}}"}, labels)
}

func TestExtractRedRunConventionDelegatesToScan(t *testing.T) {
	tpl := &registry.Template{Convention: registry.ConventionRedRun}

	labels := Extract(buildTemplate(), tpl)
	assert.Len(t, labels, 3)
}
