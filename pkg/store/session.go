package store

// Message is one role-tagged entry in a user's conversation window.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session represents the active per-user conversation state in memory.
// History is a bounded window: the session manager evicts the oldest
// entry once the configured capacity is reached.
type Session struct {
	UserID     string    `json:"user_id"`
	History    []Message `json:"history"`
	ManualMode bool      `json:"manual_mode"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)
