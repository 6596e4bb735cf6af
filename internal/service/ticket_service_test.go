package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/classify"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/events"
	"github.com/kishanyadav-shop/support-portal/internal/store"
)

type stubClassifier struct {
	result domain.AIAnalysisResult
	calls  int
}

func (s *stubClassifier) Classify(ctx context.Context, subject, description, orderID string) domain.AIAnalysisResult {
	s.calls++
	return s.result
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) Notify(ctx context.Context, ticketID, email, message string) error {
	n.calls = append(n.calls, message)
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

type fixture struct {
	service    *TicketService
	classifier *stubClassifier
	notifier   *recordingNotifier
	dispatcher *recordingDispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	classifier := &stubClassifier{result: domain.AIAnalysisResult{
		Priority:          domain.TicketPriorityHigh,
		Sentiment:         domain.SentimentNegative,
		Summary:           "Defective product received.",
		SuggestedResponse: "We will arrange a replacement.",
	}}
	notifier := &recordingNotifier{}
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{
		Store:      store.NewMemoryStore(notifier, zap.NewNop()),
		Classifier: classifier,
		Notifier:   notifier,
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
	})
	return &fixture{service: svc, classifier: classifier, notifier: notifier, dispatcher: dispatcher}
}

func submit(t *testing.T, f *fixture) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Submit(context.Background(), SubmitInput{
		CustomerName: "Alice Johnson",
		Email:        "alice@example.com",
		OrderID:      "ORD-1001",
		Subject:      "Headphones not working",
		Description:  "No sound from the left ear cup.",
	})
	require.NoError(t, err)
	return ticket
}

func TestSubmitMergesAnalysisIntoTicket(t *testing.T) {
	f := newFixture(t)
	ticket := submit(t, f)

	assert.Equal(t, 1, f.classifier.calls)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, domain.TicketPriorityHigh, ticket.AIPriority)
	assert.Equal(t, domain.SentimentNegative, ticket.AISentiment)
	assert.Equal(t, "Defective product received.", ticket.AISummary)
	assert.Equal(t, "We will arrange a replacement.", ticket.AISuggestedResponse)
	require.Len(t, ticket.History, 1)
	assert.Equal(t, domain.ActionTicketCreated, ticket.History[0].Action)

	require.Len(t, f.dispatcher.published, 1)
	assert.Equal(t, events.EventTicketCreated, f.dispatcher.published[0].Type)
}

func TestSubmitNeverBlockedByFallbackAnalysis(t *testing.T) {
	f := newFixture(t)
	f.classifier.result = classify.ErrorFallbackResult()

	ticket := submit(t, f)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.EffectivePriority())
	assert.Equal(t, domain.SentimentNeutral, ticket.EffectiveSentiment())
}

func TestResolveScenario(t *testing.T) {
	f := newFixture(t)
	ticket := submit(t, f)

	time.Sleep(time.Millisecond)
	resolved, err := f.service.SetStatus(context.Background(), ticket.ID, domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)

	require.Len(t, resolved.History, 2)
	assert.Equal(t, domain.ActionStatusChange, resolved.History[0].Action)
	assert.True(t, resolved.UpdatedAt.After(resolved.CreatedAt))
	require.Len(t, f.notifier.calls, 1)
	assert.Contains(t, f.notifier.calls[0], "RESOLVED")

	require.Len(t, f.dispatcher.published, 2)
	assert.Equal(t, events.EventTicketStatusChanged, f.dispatcher.published[1].Type)
	payload, ok := f.dispatcher.published[1].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, payload.OldStatus)
	assert.Equal(t, domain.TicketStatusResolved, payload.NewStatus)
}

func TestSetStatusUnknownTicket(t *testing.T) {
	f := newFixture(t)
	submit(t, f)

	_, err := f.service.SetStatus(context.Background(), "T-MISSING", domain.TicketStatusResolved, "Admin")
	assert.ErrorIs(t, err, store.ErrTicketNotFound)
	assert.Empty(t, f.notifier.calls)
}

func TestUpdateFieldsPublishesChangedFields(t *testing.T) {
	f := newFixture(t)
	ticket := submit(t, f)

	priority := domain.TicketPriorityCritical
	updated, err := f.service.UpdateFields(context.Background(), ticket.ID, store.TicketUpdate{ManualPriority: &priority}, "Admin")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityCritical, updated.EffectivePriority())

	last := f.dispatcher.published[len(f.dispatcher.published)-1]
	assert.Equal(t, events.EventTicketUpdated, last.Type)
	payload, ok := last.Payload.(events.TicketUpdatedPayload)
	require.True(t, ok)
	assert.Equal(t, []string{"manualPriority"}, payload.ChangedFields)
}

func TestDeleteManyIgnoresUnknown(t *testing.T) {
	f := newFixture(t)
	first := submit(t, f)
	submit(t, f)

	removed, err := f.service.DeleteMany(context.Background(), []string{first.ID, "nonexistent"}, "Admin")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	tickets, err := f.service.List(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	last := f.dispatcher.published[len(f.dispatcher.published)-1]
	assert.Equal(t, events.EventTicketsDeleted, last.Type)
}

func TestDeleteManyNothingRemovedPublishesNoEvent(t *testing.T) {
	f := newFixture(t)
	submit(t, f)
	before := len(f.dispatcher.published)

	removed, err := f.service.DeleteMany(context.Background(), []string{"nonexistent"}, "Admin")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Len(t, f.dispatcher.published, before)
}

func TestSendResponseResolvesAndDelivers(t *testing.T) {
	f := newFixture(t)
	ticket := submit(t, f)

	updated, err := f.service.SendResponse(context.Background(), ticket.ID, "Hi Alice, a replacement is on its way.", "Admin")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusResolved, updated.Status)
	assert.Equal(t, domain.ActionUpdatedDetails, updated.History[0].Action)
	assert.Equal(t, "status", updated.History[0].Details)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "Hi Alice, a replacement is on its way.", f.notifier.calls[0])

	last := f.dispatcher.published[len(f.dispatcher.published)-1]
	assert.Equal(t, events.EventResponseSent, last.Type)
}

func TestStatusTally(t *testing.T) {
	f := newFixture(t)
	first := submit(t, f)
	submit(t, f)
	_, err := f.service.SetStatus(context.Background(), first.ID, domain.TicketStatusInProgress, "Admin")
	require.NoError(t, err)

	tally, err := f.service.StatusTally(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tally[domain.TicketStatusOpen])
	assert.Equal(t, 1, tally[domain.TicketStatusInProgress])
}
