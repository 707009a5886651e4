package filler

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docbot/internal/docx"
	"docbot/pkg/registry"
)

func TestFillRedRunConvention(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(
		docx.Run{Text: "Отправитель: "},
		docx.Run{Text: "Наименование отправителя", Color: "FF0000"},
	)
	doc.AddParagraph(
		docx.Run{Text: "Продукция: "},
		docx.Run{Text: "Наименование продукции", Color: "FF0000"},
	)

	answers := map[string]string{
		"Наименование отправителя": "ООО РОМАШКА",
		"Наименование продукции":   "Лук свежий",
	}
	Fill(doc, answers, registry.ConventionRedRun)

	paras := doc.Paragraphs()
	assert.Equal(t, "Отправитель: ООО РОМАШКА", docx.ParagraphText(paras[0]))
	assert.Equal(t, "Продукция: Лук свежий", docx.ParagraphText(paras[1]))
}

func TestFillCoversEveryLabel(t *testing.T) {
	doc := docx.New()
	labels := []string{"Поле А", "Поле Б", "Поле В"}
	for _, l := range labels {
		doc.AddParagraph(docx.Run{Text: l, Color: "FF0000"})
	}
	// Same label appears again inside a table cell.
	tbl := doc.AddTable([][]string{{""}})
	tc := tbl.FindElement("w:tr/w:tc")
	docx.AddCellParagraph(tc, docx.Run{Text: "Поле А", Color: "FF0000"})

	answers := map[string]string{
		"Поле А": "значение А",
		"Поле Б": "значение Б",
		"Поле В": "значение В",
	}
	Fill(doc, answers, registry.ConventionRedRun)

	for _, p := range doc.Paragraphs() {
		text := docx.ParagraphText(p)
		for _, l := range labels {
			assert.NotContains(t, text, l, "no field label may survive filling")
		}
	}
}

func TestFillLeavesBlackRunsAlone(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "Наименование продукции"}) // no color

	Fill(doc, map[string]string{"Наименование продукции": "Лук"}, registry.ConventionRedRun)

	assert.Equal(t, "Наименование продукции", docx.ParagraphText(doc.Paragraphs()[0]))
}

func TestFillKeepsCaptionRepeatingLabelText(t *testing.T) {
	// The usual form layout: a plain caption followed by the red field,
	// both carrying the same text. Only the red run may change.
	doc := docx.New()
	p := doc.AddParagraph(
		docx.Run{Text: "Код ТН ВЭД: "},
		docx.Run{Text: "Код ТН ВЭД", Color: "FF0000"},
	)

	Fill(doc, map[string]string{"Код ТН ВЭД": "0703101900"}, registry.ConventionRedRun)

	assert.Equal(t, "Код ТН ВЭД: 0703101900", docx.ParagraphText(p))
	runs := docx.Runs(p)
	assert.Equal(t, "Код ТН ВЭД: ", docx.RunText(runs[0]))
	assert.Equal(t, "0703101900", docx.RunText(runs[1]))
}

func TestFillFragmentedRedLabel(t *testing.T) {
	// A red label split across two red runs, next to a plain caption.
	// Repair joins only the red sequence; the caption survives.
	doc := docx.New()
	p := doc.AddParagraph(
		docx.Run{Text: "Отправитель: "},
		docx.Run{Text: "Наименование ", Color: "FF0000"},
		docx.Run{Text: "отправителя", Color: "FF0000"},
	)

	Fill(doc, map[string]string{"Наименование отправителя": "ООО РОМАШКА"}, registry.ConventionRedRun)

	assert.Equal(t, "Отправитель: ООО РОМАШКА", docx.ParagraphText(p))
	runs := docx.Runs(p)
	assert.Equal(t, "Отправитель: ", docx.RunText(runs[0]))
	assert.Equal(t, "ООО РОМАШКА", docx.RunText(runs[1]))
	assert.Equal(t, "", docx.RunText(runs[2]))
}

func TestFillMarkerConvention(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "Дата осмотра: {{DATE}}"})

	Fill(doc, map[string]string{"{{DATE}}": "01.02.2025"}, registry.ConventionMarker)

	assert.Equal(t, "Дата осмотра: 01.02.2025", docx.ParagraphText(doc.Paragraphs()[0]))
}

func TestFillSplitRunToken(t *testing.T) {
	doc := docx.New()
	p := doc.AddParagraph(
		docx.Run{Text: "{{PR"},
		docx.Run{Text: "ODUCT_NAME"},
		docx.Run{Text: "}}"},
	)

	Fill(doc, map[string]string{"{{PRODUCT_NAME}}": "Лук свежий"}, registry.ConventionMarker)

	assert.Equal(t, "Лук свежий", docx.ParagraphText(p))
	runs := docx.Runs(p)
	assert.Equal(t, "Лук свежий", docx.RunText(runs[0]))
	assert.Equal(t, "", docx.RunText(runs[1]))
	assert.Equal(t, "", docx.RunText(runs[2]))
}

func TestFillSplitRunKeepsSurroundingText(t *testing.T) {
	doc := docx.New()
	p := doc.AddParagraph(
		docx.Run{Text: "Продукция: {{PR"},
		docx.Run{Text: "ODUCT}}"},
		docx.Run{Text: " (свежая)"},
	)

	Fill(doc, map[string]string{"{{PRODUCT}}": "Лук"}, registry.ConventionMarker)

	assert.Equal(t, "Продукция: Лук (свежая)", docx.ParagraphText(p))
}

func TestFillLongestLabelWins(t *testing.T) {
	doc := docx.New()
	p := doc.AddParagraph(docx.Run{Text: "Наименование продукции (код)", Color: "FF0000"})

	Fill(doc, map[string]string{
		"Наименование продукции":       "Лук",
		"Наименование продукции (код)": "0703101900",
	}, registry.ConventionRedRun)

	assert.Equal(t, "0703101900", docx.ParagraphText(p))
}

func TestInsertBlockTable(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "Сведения о партиях:"})
	doc.AddParagraph(docx.Run{Text: "{{TABLE}}"})
	doc.AddParagraph(docx.Run{Text: "Подпись"})

	rows := []BlockRow{
		{Vehicle: "А123ВС 01", Documents: "накладная 5", Product: "Лук свежий"},
		{Vehicle: "В456ЕК 02", Documents: "накладная 6", Product: "Картофель"},
	}
	require.NoError(t, InsertBlockTable(doc, "{{TABLE}}", rows))

	// Placeholder paragraph is gone.
	for _, p := range doc.Paragraphs() {
		assert.NotContains(t, docx.ParagraphText(p), "{{TABLE}}")
	}

	tbl := doc.Body().SelectElement("w:tbl")
	require.NotNil(t, tbl)
	trs := tbl.SelectElements("w:tr")
	require.Len(t, trs, 3, "header plus one row per block")

	var header []string
	for _, tc := range trs[0].SelectElements("w:tc") {
		header = append(header, strings.TrimSpace(cellText(t, tc)))
	}
	assert.Equal(t, []string{"Транспортное средство", "Документы", "Продукция"}, header)

	first := trs[1].SelectElements("w:tc")
	require.Len(t, first, 3)
	assert.Equal(t, "А123ВС 01", cellText(t, first[0]))
	assert.Equal(t, "Лук свежий", cellText(t, first[2]))

	// Table sits where the placeholder paragraph was, between the two
	// surviving body paragraphs.
	body := doc.Body()
	children := body.ChildElements()
	require.Len(t, children, 3)
	assert.Equal(t, "tbl", children[1].Tag)
}

func TestInsertBlockTableMissingPlaceholder(t *testing.T) {
	doc := docx.New()
	doc.AddParagraph(docx.Run{Text: "нет места для таблицы"})

	err := InsertBlockTable(doc, "{{TABLE}}", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{{TABLE}}")
}

func cellText(t *testing.T, tc *etree.Element) string {
	t.Helper()
	p := tc.SelectElement("w:p")
	require.NotNil(t, p)
	return docx.ParagraphText(p)
}
