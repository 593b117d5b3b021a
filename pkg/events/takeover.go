package events

// Operator bus event payloads. The webhook service publishes these and
// the notification service fans them out to dashboards and email.

const (
	TypeTakeoverStarted   = "TAKEOVER_STARTED"
	TypeTakeoverEnded     = "TAKEOVER_ENDED"
	TypeTranscriptMessage = "TRANSCRIPT_MESSAGE"
)

// NewTakeoverStarted signals that a user entered manual support mode.
func NewTakeoverStarted(userId string) BaseEvent {
	return NewEvent(TypeTakeoverStarted, map[string]interface{}{
		"user_id": userId,
	})
}

// NewTakeoverEnded signals that a user left manual support mode.
func NewTakeoverEnded(userId string) BaseEvent {
	return NewEvent(TypeTakeoverEnded, map[string]interface{}{
		"user_id": userId,
	})
}

// NewTranscriptMessage carries one conversation turn for live operator
// dashboards.
func NewTranscriptMessage(userId string, role string, content string) BaseEvent {
	return NewEvent(TypeTranscriptMessage, map[string]interface{}{
		"user_id": userId,
		"role":    role,
		"content": content,
	})
}
