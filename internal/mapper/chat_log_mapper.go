package mapper

import (
	"encoding/json"

	"car-support-be/internal/entity"
	"car-support-be/internal/model"

	"gorm.io/datatypes"
)

type ChatLogMapper struct{}

func NewChatLogMapper() *ChatLogMapper {
	return &ChatLogMapper{}
}

func (m *ChatLogMapper) ToEntity(c *model.ChatLog) *entity.ChatLog {
	if c == nil {
		return nil
	}

	var metadata map[string]interface{}
	if len(c.Metadata) > 0 {
		// Unreadable metadata is dropped, not fatal: the transcript row
		// itself is still useful.
		_ = json.Unmarshal(c.Metadata, &metadata)
	}

	return &entity.ChatLog{
		Id:        c.Id,
		UserKey:   c.UserKey,
		Role:      c.Role,
		Content:   c.Content,
		Metadata:  metadata,
		CreatedAt: c.CreatedAt,
	}
}

func (m *ChatLogMapper) ToModel(e *entity.ChatLog) *model.ChatLog {
	if e == nil {
		return nil
	}

	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.ChatLog{
		Id:        e.Id,
		UserKey:   e.UserKey,
		Role:      e.Role,
		Content:   e.Content,
		Metadata:  metadata,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChatLogMapper) ToEntities(models []*model.ChatLog) []*entity.ChatLog {
	entities := make([]*entity.ChatLog, len(models))
	for i, c := range models {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
