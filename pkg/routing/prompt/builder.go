package prompt

import (
	"fmt"

	"car-support-be/pkg/llm"
	"car-support-be/pkg/store"
)

// Builder assembles the completion request: one system message, the
// session's conversation window (which already contains the current user
// message), and one user message carrying the retrieved reference material.
type Builder struct {
	systemPrompt string
	history      []store.Message
	query        string
	context      string
}

func NewBuilder(systemPrompt string, history []store.Message, query, context string) *Builder {
	return &Builder{
		systemPrompt: systemPrompt,
		history:      history,
		query:        query,
		context:      context,
	}
}

func (b *Builder) Build() []llm.Message {
	messages := make([]llm.Message, 0, len(b.history)+2)

	messages = append(messages, llm.Message{
		Role:    store.RoleSystem,
		Content: b.systemPrompt,
	})

	for _, msg := range b.history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    store.RoleUser,
		Content: fmt.Sprintf("參考資料：%s\n\n問題：%s", b.context, b.query),
	})

	return messages
}
