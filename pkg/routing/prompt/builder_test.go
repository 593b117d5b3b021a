package prompt

import (
	"testing"

	"car-support-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrdering(t *testing.T) {
	history := []store.Message{
		{Role: store.RoleUser, Content: "有休旅車嗎"},
		{Role: store.RoleAssistant, Content: "有的"},
		{Role: store.RoleUser, Content: "五人座多少錢"},
	}

	messages := NewBuilder("system prompt", history, "五人座多少錢", "CR-V 78萬").Build()

	require.Len(t, messages, 5)
	assert.Equal(t, store.RoleSystem, messages[0].Role)
	assert.Equal(t, "system prompt", messages[0].Content)

	// History sits between the system prompt and the augmented query.
	assert.Equal(t, "有休旅車嗎", messages[1].Content)
	assert.Equal(t, "有的", messages[2].Content)
	assert.Equal(t, "五人座多少錢", messages[3].Content)

	assert.Equal(t, store.RoleUser, messages[4].Role)
	assert.Equal(t, "參考資料：CR-V 78萬\n\n問題：五人座多少錢", messages[4].Content)
}

func TestBuildEmptyHistory(t *testing.T) {
	messages := NewBuilder("sys", nil, "q", "ctx").Build()

	require.Len(t, messages, 2)
	assert.Equal(t, store.RoleSystem, messages[0].Role)
	assert.Equal(t, store.RoleUser, messages[1].Role)
}
