package mapper

import (
	"time"

	"car-support-be/internal/entity"
	"car-support-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeEmbeddingMapper struct{}

func NewKnowledgeEmbeddingMapper() *KnowledgeEmbeddingMapper {
	return &KnowledgeEmbeddingMapper{}
}

func (m *KnowledgeEmbeddingMapper) ToEntity(e *model.KnowledgeEmbedding) *entity.KnowledgeEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		SourceId:       e.SourceId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      e.DeletedAt.Valid,
	}
}

func (m *KnowledgeEmbeddingMapper) ToModel(e *entity.KnowledgeEmbedding) *model.KnowledgeEmbedding {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.KnowledgeEmbedding{
		Id:             e.Id,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		SourceId:       e.SourceId,
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

func (m *KnowledgeEmbeddingMapper) ToEntities(models []*model.KnowledgeEmbedding) []*entity.KnowledgeEmbedding {
	entities := make([]*entity.KnowledgeEmbedding, len(models))
	for i, e := range models {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *KnowledgeEmbeddingMapper) ToModels(embeddings []*entity.KnowledgeEmbedding) []*model.KnowledgeEmbedding {
	models := make([]*model.KnowledgeEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
