package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/events"
)

// NotificationService turns domain events into outbound email and webhook
// notifications. Delivery is a logged stub; a blank sender or URL disables
// that channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     nopIfNil(logger),
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventStudentVerificationChanged, n.handleVerificationChanged)
	n.dispatcher.Subscribe(events.EventCoordinatorRegistered, n.handleCoordinatorRegistered)
	n.dispatcher.Subscribe(events.EventEventStatusChanged, n.handleEventStatusChanged)
	n.dispatcher.Subscribe(events.EventProductStatusChanged, n.handleProductStatusChanged)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.email(ctx, event, p.Email, "Welcome to Campus Aura, "+p.Name)
	return nil
}

func (n *NotificationService) handleVerificationChanged(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.VerificationChangedPayload)
	if !ok {
		return nil
	}
	n.email(ctx, event, p.Email, "Your student ID verification is "+strings.ToLower(p.Status))
	return nil
}

func (n *NotificationService) handleCoordinatorRegistered(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.CoordinatorRegisteredPayload)
	if !ok {
		return nil
	}
	subject := "You have been added as an event coordinator"
	if p.HasCredentials {
		subject += "; sign in with the password your administrator shared"
	}
	n.email(ctx, event, p.Email, subject)
	n.webhook(ctx, event, "coordinator registered: "+p.Name)
	return nil
}

func (n *NotificationService) handleEventStatusChanged(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	n.webhook(ctx, event, fmt.Sprintf("event %s: %s -> %s", event.ResourceID, p.OldStatus, p.NewStatus))
	return nil
}

func (n *NotificationService) handleProductStatusChanged(ctx context.Context, event events.Event) error {
	p, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	n.webhook(ctx, event, fmt.Sprintf("product %s: %s -> %s", event.ResourceID, p.OldStatus, p.NewStatus))
	return nil
}

func (n *NotificationService) email(_ context.Context, event events.Event, to, subject string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Info("notification email",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID))
}

func (n *NotificationService) webhook(_ context.Context, event events.Event, text string) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Info("notification webhook",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("text", text),
		zap.String("event_type", string(event.Type)),
		zap.String("resource_id", event.ResourceID))
}
