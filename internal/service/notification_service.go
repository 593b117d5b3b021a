package service

import (
	"context"
	"fmt"

	"car-support-be/internal/pkg/logger"
	"car-support-be/internal/pkg/mailer"
	"car-support-be/pkg/events"
	pktNats "car-support-be/pkg/nats"
)

// EventDelivery defines how conversation events reach operator
// dashboards. Implemented by the WebSocket hub.
type EventDelivery interface {
	Broadcast(eventType string, payload map[string]interface{})
}

// NotificationService consumes the operator bus and fans events out to
// live dashboards, plus email for takeover requests.
type NotificationService struct {
	subscriber    *pktNats.Subscriber
	delivery      EventDelivery
	emailService  mailer.IEmailService
	operatorEmail string
	logger        logger.ILogger
}

func NewNotificationService(
	sub *pktNats.Subscriber,
	delivery EventDelivery,
	emailService mailer.IEmailService,
	operatorEmail string,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		subscriber:    sub,
		delivery:      delivery,
		emailService:  emailService,
		operatorEmail: operatorEmail,
		logger:        log,
	}
}

// Start begins listening to the event bus with a durable consumer.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe(pktNats.SubjectAll, "operator-notif-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", fmt.Sprintf("Listening to %s", pktNats.SubjectAll), nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	if s.delivery != nil {
		s.delivery.Broadcast(event.EventType(), payload)
	}

	userId, _ := payload["user_id"].(string)

	switch event.EventType() {
	case events.TypeTakeoverStarted:
		s.logger.Info("NotificationService", "Takeover started", map[string]interface{}{"user_id": userId})
		s.sendEmail(func(to string) error { return s.emailService.SendTakeoverAlert(to, userId) })
	case events.TypeTakeoverEnded:
		s.logger.Info("NotificationService", "Takeover ended", map[string]interface{}{"user_id": userId})
		s.sendEmail(func(to string) error { return s.emailService.SendTakeoverClosed(to, userId) })
	}

	return nil
}

// sendEmail is best effort; a mail outage must not Nak the event and
// stall the dashboard feed behind retries.
func (s *NotificationService) sendEmail(send func(to string) error) {
	if s.emailService == nil || s.operatorEmail == "" {
		return
	}
	if err := send(s.operatorEmail); err != nil {
		s.logger.Warn("NotificationService", "Failed to send operator email", map[string]interface{}{"error": err.Error()})
	}
}
