package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/events"
)

func newObservedNotifications(cfg config.NotificationConfig) (events.Dispatcher, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewNotificationService(dispatcher, logger, cfg).RegisterHandlers()
	return dispatcher, logs
}

func TestNotificationEmailsUseEventRecipient(t *testing.T) {
	dispatcher, logs := newObservedNotifications(config.NotificationConfig{EmailFrom: "noreply@campus.lk"})
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventStudentVerificationChanged, "s1", "admin-1",
		events.VerificationChangedPayload{Email: "s1@std.uwu.ac.lk", Status: "VERIFIED"})))

	emails := logs.FilterMessage("notification email").All()
	require.Len(t, emails, 1)
	fields := emails[0].ContextMap()
	assert.Equal(t, "s1@std.uwu.ac.lk", fields["to"])
	assert.Equal(t, "Your student ID verification is verified", fields["subject"])
	assert.Zero(t, logs.FilterMessage("notification webhook").Len())
}

func TestNotificationChannelsDisabledWhenUnconfigured(t *testing.T) {
	dispatcher, logs := newObservedNotifications(config.NotificationConfig{})
	ctx := context.Background()

	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventCoordinatorRegistered, "c1", "",
		events.CoordinatorRegisteredPayload{Email: "c@campus.lk", Name: "Nimal Perera", HasCredentials: true})))
	require.NoError(t, dispatcher.Publish(ctx, events.New(events.EventProductStatusChanged, "p1", "admin-1",
		events.StatusChangedPayload{OldStatus: "PENDING", NewStatus: "APPROVED"})))

	assert.Zero(t, logs.Len())
}

func TestNotificationWebhookDescribesTransition(t *testing.T) {
	dispatcher, logs := newObservedNotifications(config.NotificationConfig{WebhookURL: "https://hooks.example.com/x"})

	require.NoError(t, dispatcher.Publish(context.Background(), events.New(events.EventEventStatusChanged, "e1", "admin-1",
		events.StatusChangedPayload{OldStatus: "PENDING", NewStatus: "APPROVED", ByAdmin: true})))

	hooks := logs.FilterMessage("notification webhook").All()
	require.Len(t, hooks, 1)
	assert.Equal(t, "event e1: PENDING -> APPROVED", hooks[0].ContextMap()["text"])
}
