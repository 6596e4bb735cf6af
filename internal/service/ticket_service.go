package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/classify"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/events"
	"github.com/kishanyadav-shop/support-portal/internal/notify"
	"github.com/kishanyadav-shop/support-portal/internal/store"
)

// TicketService coordinates the complaint workflow: classification, the
// ticket store, notifications, and domain events.
type TicketService struct {
	tickets    store.TicketStore
	classifier classify.Classifier
	notifier   notify.Notifier
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      store.TicketStore
	Classifier classify.Classifier
	Notifier   notify.Notifier
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SubmitInput describes a new complaint from a customer.
type SubmitInput struct {
	CustomerName string
	Email        string
	OrderID      string
	Subject      string
	Description  string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.Store,
		classifier: deps.Classifier,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Submit classifies the complaint and creates the ticket, merging customer
// input with the analysis result. Classification never blocks submission:
// provider failures degrade to a default analysis.
func (s *TicketService) Submit(ctx context.Context, input SubmitInput) (*domain.Ticket, error) {
	analysis := s.classifier.Classify(ctx, input.Subject, input.Description, input.OrderID)

	ticket := &domain.Ticket{
		ID:                  store.NewTicketKey(),
		CustomerName:        strings.TrimSpace(input.CustomerName),
		Email:               strings.TrimSpace(input.Email),
		OrderID:             strings.TrimSpace(input.OrderID),
		Subject:             strings.TrimSpace(input.Subject),
		Description:         strings.TrimSpace(input.Description),
		Status:              domain.TicketStatusOpen,
		AIPriority:          analysis.Priority,
		AISentiment:         analysis.Sentiment,
		AISummary:           analysis.Summary,
		AISuggestedResponse: analysis.SuggestedResponse,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    domain.ActorSystem,
		Payload: events.TicketCreatedPayload{
			CustomerName: ticket.CustomerName,
			Email:        ticket.Email,
			Subject:      ticket.Subject,
			Priority:     ticket.EffectivePriority(),
			Sentiment:    ticket.EffectiveSentiment(),
		},
	})
	return ticket, nil
}

// Get fetches one ticket.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.Get(ctx, id)
}

// List returns tickets matching the dashboard filter.
func (s *TicketService) List(ctx context.Context, filter store.Filter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// SetStatus transitions a ticket on behalf of a staff actor.
func (s *TicketService) SetStatus(ctx context.Context, id string, status domain.TicketStatus, actor string) (*domain.Ticket, error) {
	before, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ticket, err := s.tickets.SetStatus(ctx, id, status, actor)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: id,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: before.Status,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// UpdateFields applies a typed partial update on behalf of a staff actor.
func (s *TicketService) UpdateFields(ctx context.Context, id string, update store.TicketUpdate, actor string) (*domain.Ticket, error) {
	ticket, err := s.tickets.UpdateFields(ctx, id, update, actor)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: id,
		Actor:    actor,
		Payload: events.TicketUpdatedPayload{
			ChangedFields: update.ChangedFields(),
		},
	})
	return ticket, nil
}

// DeleteMany removes the given tickets, ignoring unknown ids.
func (s *TicketService) DeleteMany(ctx context.Context, ids []string, actor string) (int, error) {
	removed, err := s.tickets.DeleteMany(ctx, ids)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.publishEvent(ctx, events.Event{
			Type:  events.EventTicketsDeleted,
			Actor: actor,
			Payload: events.TicketsDeletedPayload{
				TicketIDs: ids,
				Removed:   removed,
			},
		})
	}
	return removed, nil
}

// SendResponse delivers the staff reply to the customer and resolves the
// ticket. Delivery failures never roll back the resolution.
func (s *TicketService) SendResponse(ctx context.Context, id, body, actor string) (*domain.Ticket, error) {
	ticket, err := s.tickets.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, ticket.ID, ticket.Email, body); err != nil {
			s.logger.Warn("response delivery failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}

	resolved := domain.TicketStatusResolved
	updated, err := s.tickets.UpdateFields(ctx, id, store.TicketUpdate{Status: &resolved}, actor)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventResponseSent,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.ResponseSentPayload{
			Email:       ticket.Email,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return updated, nil
}

// StatusTally returns per-status counts for the dashboard chart.
func (s *TicketService) StatusTally(ctx context.Context) (map[domain.TicketStatus]int, error) {
	return s.tickets.StatusTally(ctx)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
