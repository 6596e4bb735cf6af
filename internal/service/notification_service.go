package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/config"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/events"
)

// NotificationService reacts to domain events: it logs the audit stream and
// raises an alert for newly created critical tickets.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
	n.dispatcher.Subscribe(events.EventTicketsDeleted, n.handleTicketsDeleted)
	n.dispatcher.Subscribe(events.EventResponseSent, n.handleResponseSent)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.TicketCreatedPayload); ok {
		if payload.Priority == domain.TicketPriorityCritical {
			n.logger.Warn("critical ticket alert",
				zap.String("ticket_id", event.TicketID),
				zap.String("customer", payload.CustomerName),
				zap.String("alert_from", n.cfg.EmailFrom))
		}
	}
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketUpdated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketsDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketsDeleted", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleResponseSent(ctx context.Context, event events.Event) error {
	n.logger.Info("ResponseSent", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	return nil
}
