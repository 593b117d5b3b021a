package contract

import (
	"context"

	"car-support-be/internal/entity"
	"car-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeEmbedding wraps a knowledge row with its similarity score
type ScoredKnowledgeEmbedding struct {
	Embedding  *entity.KnowledgeEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.KnowledgeEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.KnowledgeEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySourceId(ctx context.Context, sourceId string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeEmbedding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns rows with their similarity scores,
	// filtered by threshold, best match first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeEmbedding, error)
}
