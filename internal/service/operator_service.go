package service

import (
	"context"

	"car-support-be/internal/dto"
	"car-support-be/internal/repository/specification"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/routing/session"
)

type IOperatorService interface {
	ManualMode(ctx context.Context, userId string) (*dto.ManualModeResponse, error)
	Transcript(ctx context.Context, userId string, limit int) (*dto.TranscriptResponse, error)
}

type operatorService struct {
	sessions   *session.Manager
	uowFactory unitofwork.RepositoryFactory
}

func NewOperatorService(sessions *session.Manager, uowFactory unitofwork.RepositoryFactory) IOperatorService {
	return &operatorService{
		sessions:   sessions,
		uowFactory: uowFactory,
	}
}

func (s *operatorService) ManualMode(ctx context.Context, userId string) (*dto.ManualModeResponse, error) {
	return &dto.ManualModeResponse{
		UserId:     userId,
		ManualMode: s.sessions.IsManualMode(userId),
	}, nil
}

// Transcript returns the persisted conversation for one user, oldest
// first, bounded by limit.
func (s *operatorService) Transcript(ctx context.Context, userId string, limit int) (*dto.TranscriptResponse, error) {
	if limit <= 0 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	logs, err := uow.ChatLogRepository().FindAll(ctx,
		specification.ByUserKey{UserKey: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for display.
	messages := make([]dto.TranscriptEntry, len(logs))
	for i, l := range logs {
		messages[len(logs)-1-i] = dto.TranscriptEntry{
			Role:      l.Role,
			Content:   l.Content,
			CreatedAt: l.CreatedAt,
		}
	}

	return &dto.TranscriptResponse{
		UserId:   userId,
		Messages: messages,
	}, nil
}
