// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRegistry = `{
  "version": "1",
  "templates": [
    {
      "id": "inspection-request",
      "displayName": "Заявка на инспекцию",
      "file": "inspection.docx",
      "convention": "red-run",
      "flow": "linear",
      "categoryKeywords": ["инспекц", "заявка"],
      "questions": [
        {
          "label": "Наименование продукции",
          "prompt": "Укажите наименование продукции:",
          "kind": "text",
          "quickPick": ["Лук свежий", "Картофель свежий"],
          "classify": true,
          "codeLabel": "Код ТН ВЭД"
        },
        {"label": "Вес нетто, тонн", "prompt": "Укажите вес нетто:", "kind": "decimal"}
      ]
    },
    {
      "id": "inspection-statement",
      "displayName": "Заявление на осмотр",
      "file": "statement.docx",
      "convention": "marker",
      "flow": "block",
      "categoryKeywords": ["осмотр"],
      "questions": [
        {"label": "Транспортное средство", "prompt": "Укажите ТС:", "kind": "text"}
      ],
      "blockPlaceholder": "{{TABLE}}",
      "dateLabel": "{{DATE}}",
      "datePrompt": "Укажите дату осмотра:"
    }
  ]
}`

func TestParseValidRegistry(t *testing.T) {
	reg, err := Parse([]byte(validRegistry))
	require.NoError(t, err)

	assert.Equal(t, "1", reg.Version)
	require.Len(t, reg.Templates, 2)

	tpl, ok := reg.ByID("inspection-request")
	require.True(t, ok)
	assert.Equal(t, ConventionRedRun, tpl.Convention)
	assert.Equal(t, FlowLinear, tpl.Flow)
	require.Len(t, tpl.Questions, 2)
	assert.True(t, tpl.Questions[0].Classify)
	assert.Equal(t, "Код ТН ВЭД", tpl.Questions[0].CodeLabel)

	tpl, ok = reg.ByID("inspection-statement")
	require.True(t, ok)
	assert.Equal(t, FlowBlock, tpl.Flow)
	assert.Equal(t, "{{TABLE}}", tpl.BlockPlaceholder)
	assert.Equal(t, "{{DATE}}", tpl.DateLabel)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(validRegistry), 0o644))

	reg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, reg.Templates, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidRegistries(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "not json",
			json: `{{`,
		},
		{
			name: "missing templates",
			json: `{"version": "1"}`,
		},
		{
			name: "empty templates",
			json: `{"version": "1", "templates": []}`,
		},
		{
			name: "unknown convention",
			json: `{"version": "1", "templates": [
				{"id": "a", "displayName": "A", "file": "a.docx",
				 "convention": "blue-run", "flow": "linear", "categoryKeywords": ["а"]}
			]}`,
		},
		{
			name: "unknown flow",
			json: `{"version": "1", "templates": [
				{"id": "a", "displayName": "A", "file": "a.docx",
				 "convention": "marker", "flow": "spiral", "categoryKeywords": ["а"]}
			]}`,
		},
		{
			name: "empty keywords",
			json: `{"version": "1", "templates": [
				{"id": "a", "displayName": "A", "file": "a.docx",
				 "convention": "marker", "flow": "linear", "categoryKeywords": []}
			]}`,
		},
		{
			name: "question without prompt",
			json: `{"version": "1", "templates": [
				{"id": "a", "displayName": "A", "file": "a.docx",
				 "convention": "marker", "flow": "linear", "categoryKeywords": ["а"],
				 "questions": [{"label": "Поле", "kind": "text"}]}
			]}`,
		},
		{
			name: "unknown question kind",
			json: `{"version": "1", "templates": [
				{"id": "a", "displayName": "A", "file": "a.docx",
				 "convention": "marker", "flow": "linear", "categoryKeywords": ["а"],
				 "questions": [{"label": "Поле", "prompt": "?", "kind": "money"}]}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.json))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	dup := `{"version": "1", "templates": [
		{"id": "a", "displayName": "A", "file": "a.docx",
		 "convention": "marker", "flow": "linear", "categoryKeywords": ["а"]},
		{"id": "a", "displayName": "B", "file": "b.docx",
		 "convention": "marker", "flow": "linear", "categoryKeywords": ["б"]}
	]}`

	_, err := Parse([]byte(dup))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate template id")
}

func TestMatch(t *testing.T) {
	reg, err := Parse([]byte(validRegistry))
	require.NoError(t, err)

	tests := []struct {
		input  string
		wantID string
		wantOK bool
	}{
		{"хочу заявку на инспекцию", "inspection-request", true},
		{"ИНСПЕКЦИЯ", "inspection-request", true},
		{"заявление на осмотр груза", "inspection-statement", true},
		{"Заявление на осмотр", "inspection-statement", true},
		{"что-то другое", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		tpl, ok := reg.Match(tt.input)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.input)
		if tt.wantOK {
			assert.Equal(t, tt.wantID, tpl.ID, "input %q", tt.input)
		}
	}
}

func TestQuestionFor(t *testing.T) {
	reg, err := Parse([]byte(validRegistry))
	require.NoError(t, err)
	tpl, ok := reg.ByID("inspection-request")
	require.True(t, ok)

	q, ok := tpl.QuestionFor("Вес нетто, тонн")
	require.True(t, ok)
	assert.Equal(t, "decimal", q.Kind)

	_, ok = tpl.QuestionFor("Неизвестное поле")
	assert.False(t, ok)
}
