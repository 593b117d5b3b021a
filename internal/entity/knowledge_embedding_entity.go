package entity

import (
	"time"

	"github.com/google/uuid"
)

type KnowledgeEmbedding struct {
	Id             uuid.UUID
	Document       string
	EmbeddingValue []float32
	SourceId       string
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
