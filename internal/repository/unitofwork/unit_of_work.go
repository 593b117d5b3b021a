package unitofwork

import (
	"context"

	"car-support-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	KnowledgeEmbeddingRepository() contract.KnowledgeEmbeddingRepository
	VehicleListingRepository() contract.VehicleListingRepository
	ChatLogRepository() contract.ChatLogRepository
}
