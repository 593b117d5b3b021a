package service

import (
	"context"
	"strings"
	"time"

	"car-support-be/internal/entity"
	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/repository/unitofwork"
	"car-support-be/pkg/events"
	"car-support-be/pkg/line"
	"car-support-be/pkg/routing"
	"car-support-be/pkg/store"

	"github.com/google/uuid"
)

// LineReplier is the slice of the LINE client the webhook service needs.
type LineReplier interface {
	ReplyText(ctx context.Context, replyToken string, text string) error
}

// EventPublisher pushes operator events onto the bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IWebhookService interface {
	HandleEvent(ctx context.Context, ev line.Event) error
}

type webhookService struct {
	router          *routing.Router
	lineClient      LineReplier
	uowFactory      unitofwork.RepositoryFactory
	eventPublisher  EventPublisher
	manualOnPhrase  string
	manualOffPhrase string
	logger          logger.ILogger
}

func NewWebhookService(
	router *routing.Router,
	lineClient LineReplier,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher EventPublisher,
	manualOnPhrase string,
	manualOffPhrase string,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		router:          router,
		lineClient:      lineClient,
		uowFactory:      uowFactory,
		eventPublisher:  eventPublisher,
		manualOnPhrase:  manualOnPhrase,
		manualOffPhrase: manualOffPhrase,
		logger:          log,
	}
}

// HandleEvent routes one webhook event end to end: decide, reply (or
// stay silent), persist the transcript and notify operators. Transcript
// and bus failures are logged but never fail the webhook; LINE would
// retry the delivery and the user would be answered twice.
func (s *webhookService) HandleEvent(ctx context.Context, ev line.Event) error {
	if !ev.IsTextMessage() {
		return nil
	}

	userId := ev.Source.UserId
	query := strings.TrimSpace(ev.Message.Text)
	if userId == "" || query == "" {
		return nil
	}

	decision := s.router.Route(ctx, userId, query)

	s.persistTurn(ctx, userId, store.RoleUser, query, map[string]interface{}{
		"path": string(decision.Path),
	})
	s.publishTranscript(ctx, userId, store.RoleUser, query)
	s.publishTakeover(ctx, userId, query)

	if decision.Action != routing.ActionReply {
		s.logger.Info("Webhook", "Staying silent", map[string]interface{}{
			"user_id": userId,
			"path":    string(decision.Path),
		})
		return nil
	}

	if err := s.lineClient.ReplyText(ctx, ev.ReplyToken, decision.ReplyText); err != nil {
		s.logger.Error("Webhook", "Reply delivery failed", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
		return err
	}

	s.persistTurn(ctx, userId, store.RoleAssistant, decision.ReplyText, map[string]interface{}{
		"path":      string(decision.Path),
		"matches":   decision.Matches,
		"top_score": decision.TopScore,
	})
	s.publishTranscript(ctx, userId, store.RoleAssistant, decision.ReplyText)

	return nil
}

func (s *webhookService) persistTurn(ctx context.Context, userId, role, content string, metadata map[string]interface{}) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	log := entity.ChatLog{
		Id:        uuid.New(),
		UserKey:   userId,
		Role:      role,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
	if err := uow.ChatLogRepository().Create(ctx, &log); err != nil {
		s.logger.Warn("Webhook", "Failed to persist transcript row", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (s *webhookService) publishTranscript(ctx context.Context, userId, role, content string) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.NewTranscriptMessage(userId, role, content)); err != nil {
		s.logger.Warn("Webhook", "Failed to publish transcript event", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (s *webhookService) publishTakeover(ctx context.Context, userId, query string) {
	if s.eventPublisher == nil {
		return
	}

	var event events.BaseEvent
	switch query {
	case s.manualOnPhrase:
		event = events.NewTakeoverStarted(userId)
	case s.manualOffPhrase:
		event = events.NewTakeoverEnded(userId)
	default:
		return
	}

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Webhook", "Failed to publish takeover event", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}
