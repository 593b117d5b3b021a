package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the LINE Messaging API.
type Client struct {
	BaseURL       string
	ChannelToken  string
	ChannelSecret string
	HTTPClient    *http.Client
}

func NewClient(channelSecret string, channelToken string) *Client {
	return &Client{
		BaseURL:       "https://api.line.me",
		ChannelToken:  channelToken,
		ChannelSecret: channelSecret,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ParseWebhook verifies and decodes an incoming webhook body using the
// client's channel secret.
func (c *Client) ParseWebhook(signature string, body []byte) ([]Event, error) {
	return ParseWebhook(c.ChannelSecret, signature, body)
}

type TextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyMessageRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []TextMessage `json:"messages"`
}

// ReplyText answers a webhook event with a single text message. Reply
// tokens are single use and expire quickly, so callers should reply
// within the webhook handling window.
func (c *Client) ReplyText(ctx context.Context, replyToken string, text string) error {
	reqBody := replyMessageRequest{
		ReplyToken: replyToken,
		Messages: []TextMessage{
			{Type: MessageTypeText, Text: text},
		},
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/v2/bot/message/reply", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.ChannelToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("line reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("line reply error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
