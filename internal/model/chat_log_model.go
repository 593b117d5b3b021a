package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatLog is the durable transcript of routed messages. The in-memory
// session window stays authoritative for routing; this table exists for
// operator review and is written best-effort.
type ChatLog struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserKey   string         `gorm:"type:varchar(64);index"`
	Role      string         `gorm:"type:varchar(16)"`
	Content   string         `gorm:"type:text"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}
