package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
)

var ErrInvalidSignature = errors.New("line: invalid webhook signature")

const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

type EventSource struct {
	Type   string `json:"type"`
	UserId string `json:"userId"`
}

type EventMessage struct {
	Id   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type Event struct {
	Type       string       `json:"type"`
	ReplyToken string       `json:"replyToken"`
	Timestamp  int64        `json:"timestamp"`
	Source     EventSource  `json:"source"`
	Message    EventMessage `json:"message"`
}

// IsTextMessage reports whether the event carries a user text message.
func (e Event) IsTextMessage() bool {
	return e.Type == EventTypeMessage && e.Message.Type == MessageTypeText
}

type webhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// ValidateSignature checks the x-line-signature header against the raw
// request body using the channel secret.
func ValidateSignature(channelSecret string, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// ParseWebhook verifies the signature and decodes the webhook events.
func ParseWebhook(channelSecret string, signature string, body []byte) ([]Event, error) {
	if !ValidateSignature(channelSecret, signature, body) {
		return nil, ErrInvalidSignature
	}

	var req webhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return req.Events, nil
}
