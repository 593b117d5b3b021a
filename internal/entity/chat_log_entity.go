package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatLog struct {
	Id        uuid.UUID
	UserKey   string
	Role      string
	Content   string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
