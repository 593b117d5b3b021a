package service

import (
	"context"
	"encoding/json"
	"fmt"

	"car-support-be/internal/dto"
	"car-support-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error)
	Delete(ctx context.Context, sourceId string) (*dto.DeleteKnowledgeResponse, error)
	Stats(ctx context.Context) (*dto.KnowledgeStatsResponse, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

// Upload queues the text for indexing and returns the source id the
// caller can later delete by. Embedding happens in the consumer, so the
// HTTP request returns fast even for large documents.
func (s *knowledgeService) Upload(ctx context.Context, req *dto.UploadKnowledgeRequest) (*dto.UploadKnowledgeResponse, error) {
	sourceId := fmt.Sprintf("web-%s", uuid.New().String()[:8])

	payload := dto.PublishKnowledgeMessage{
		SourceId: sourceId,
		Text:     req.Text,
		Metadata: req.Metadata,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		return nil, err
	}

	return &dto.UploadKnowledgeResponse{
		SourceId: sourceId,
		Status:   "queued",
	}, nil
}

func (s *knowledgeService) Delete(ctx context.Context, sourceId string) (*dto.DeleteKnowledgeResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.KnowledgeEmbeddingRepository().DeleteBySourceId(ctx, sourceId); err != nil {
		return nil, err
	}

	return &dto.DeleteKnowledgeResponse{SourceId: sourceId}, nil
}

func (s *knowledgeService) Stats(ctx context.Context) (*dto.KnowledgeStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	count, err := uow.KnowledgeEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.KnowledgeStatsResponse{Chunks: count}, nil
}
