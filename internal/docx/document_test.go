package docx

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	doc := New()
	doc.AddParagraph(
		Run{Text: "Отправитель: "},
		Run{Text: "Наименование организации", Color: "FF0000"},
	)
	doc.AddTable([][]string{
		{"ТС", "Документы"},
		{"А123ВС", "накладная"},
	})

	data, err := doc.Bytes()
	require.NoError(t, err)

	reopened, err := OpenBytes(data)
	require.NoError(t, err)

	paras := reopened.Paragraphs()
	// 1 body paragraph + 4 table cell paragraphs
	require.Len(t, paras, 5)
	assert.Equal(t, "Отправитель: Наименование организации", ParagraphText(paras[0]))

	runs := Runs(paras[0])
	require.Len(t, runs, 2)
	assert.Equal(t, "", RunColor(runs[0]))
	assert.Equal(t, "FF0000", RunColor(runs[1]))
}

func TestParagraphsIncludeTableCells(t *testing.T) {
	doc := New()
	doc.AddTable([][]string{{"в ячейке"}})

	paras := doc.Paragraphs()
	require.Len(t, paras, 1)
	assert.Equal(t, "в ячейке", ParagraphText(paras[0]))
}

func TestSetRunTextCreatesElement(t *testing.T) {
	doc := New()
	p := doc.AddParagraph(Run{Text: "старое"})
	r := Runs(p)[0]

	SetRunText(r, "новое значение")
	assert.Equal(t, "новое значение", RunText(r))
}

func TestOpenBytesRejectsNonDocx(t *testing.T) {
	_, err := OpenBytes([]byte("not a zip at all"))
	assert.Error(t, err)
}

func TestOpenBytesRequiresDocumentEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = OpenBytes(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestSaveFileAndOpen(t *testing.T) {
	doc := New()
	doc.AddParagraph(Run{Text: "содержимое"})

	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, doc.SaveFile(path))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "содержимое", ParagraphText(reopened.Paragraphs()[0]))
}
