package dto

import "time"

type ManualModeResponse struct {
	UserId     string `json:"user_id"`
	ManualMode bool   `json:"manual_mode"`
}

type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TranscriptResponse struct {
	UserId   string            `json:"user_id"`
	Messages []TranscriptEntry `json:"messages"`
}
