package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetCreatesFreshSession(t *testing.T) {
	st := NewStore()

	s := st.Get(42)
	require.NotNil(t, s)
	assert.Equal(t, int64(42), s.ChatID)
	assert.Equal(t, StageSelecting, s.Stage)
	assert.Empty(t, s.Answers)
	assert.Zero(t, s.Cursor)

	assert.Same(t, s, st.Get(42))
}

func TestResetClearsEverything(t *testing.T) {
	st := NewStore()
	s := st.Get(7)

	s.Stage = StageCollecting
	s.TemplateID = "inspection-request"
	s.Fields = []string{"Отправитель", "Получатель"}
	s.Cursor = 1
	s.Answers["Отправитель"] = "ООО РОМАШКА"
	s.Blocks = append(s.Blocks, Block{"ТС": "А123ВС"})
	s.CachedProfile = map[string]string{"Отправитель": "ООО РОМАШКА"}

	reset := st.Reset(7)

	assert.Same(t, s, reset)
	assert.Equal(t, StageSelecting, reset.Stage)
	assert.Empty(t, reset.TemplateID)
	assert.Nil(t, reset.Fields)
	assert.Zero(t, reset.Cursor)
	assert.Empty(t, reset.Answers)
	assert.Nil(t, reset.Blocks)
	assert.Nil(t, reset.CachedProfile)
}

func TestResetCollectionKeepsTemplate(t *testing.T) {
	s := &Session{ChatID: 1}
	s.Reset()
	s.TemplateID = "inspection-request"
	s.Fields = []string{"Отправитель"}
	s.Cursor = 1
	s.Answers["Отправитель"] = "ООО РОМАШКА"
	s.Stage = StageConfirming

	s.ResetCollection()

	assert.Equal(t, "inspection-request", s.TemplateID)
	assert.Equal(t, []string{"Отправитель"}, s.Fields)
	assert.Zero(t, s.Cursor)
	assert.Empty(t, s.Answers)
	assert.Equal(t, StageCollecting, s.Stage)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "selecting", StageSelecting.String())
	assert.Equal(t, "block-confirm", StageBlockConfirm.String())
	assert.Equal(t, "unknown", Stage(99).String())
}
