package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

type notifyCall struct {
	ticketID string
	email    string
	message  string
}

func (f *fakeNotifier) Notify(ctx context.Context, ticketID, email, message string) error {
	f.calls = append(f.calls, notifyCall{ticketID: ticketID, email: email, message: message})
	return f.err
}

func newTestStore(t *testing.T) (*MemoryStore, *fakeNotifier) {
	t.Helper()
	notifier := &fakeNotifier{}
	return NewMemoryStore(notifier, zap.NewNop()), notifier
}

func newTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:           id,
		CustomerName: "Alice Johnson",
		Email:        "alice@example.com",
		OrderID:      "ORD-1001",
		Subject:      "Headphones not working",
		Description:  "No sound from the left ear cup.",
		AIPriority:   domain.TicketPriorityHigh,
		AISentiment:  domain.SentimentNegative,
		AISummary:    "Defective product received.",
	}
}

func TestCreateSeedsTicket(t *testing.T) {
	s, _ := newTestStore(t)
	ticket := newTicket("T-0001")

	require.NoError(t, s.Create(context.Background(), ticket))

	stored, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, stored.Status)
	assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	require.Len(t, stored.History, 1)
	assert.Equal(t, domain.ActionTicketCreated, stored.History[0].Action)
	assert.Equal(t, domain.ActorSystem, stored.History[0].Actor)
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	assert.ErrorIs(t, s.Create(context.Background(), newTicket("T-0001")), ErrTicketExists)
}

func TestCreateInsertsAtHead(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	require.NoError(t, s.Create(context.Background(), newTicket("T-0002")))

	tickets, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "T-0002", tickets[0].ID)
	assert.Equal(t, "T-0001", tickets[1].ID)
}

func TestSetStatusAppendsHistoryAndNotifiesOnResolve(t *testing.T) {
	s, notifier := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	time.Sleep(time.Millisecond)
	ticket, err := s.SetStatus(context.Background(), "T-0001", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)

	require.Len(t, ticket.History, 2)
	assert.Equal(t, domain.ActionStatusChange, ticket.History[0].Action)
	assert.Equal(t, "Admin", ticket.History[0].Actor)
	assert.Equal(t, "Changed from Open to Resolved", ticket.History[0].Details)
	assert.True(t, ticket.UpdatedAt.After(ticket.CreatedAt))

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "T-0001", notifier.calls[0].ticketID)
	assert.Equal(t, "alice@example.com", notifier.calls[0].email)
	assert.Contains(t, notifier.calls[0].message, "T-0001")
	assert.Contains(t, notifier.calls[0].message, "RESOLVED")
}

func TestSetStatusAlreadyResolvedDoesNotNotify(t *testing.T) {
	s, notifier := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	_, err := s.SetStatus(context.Background(), "T-0001", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)
	_, err = s.SetStatus(context.Background(), "T-0001", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)

	assert.Len(t, notifier.calls, 1)
}

func TestSetStatusNotifierFailureDoesNotRollBack(t *testing.T) {
	s, notifier := newTestStore(t)
	notifier.err = fmt.Errorf("smtp down")
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	ticket, err := s.SetStatus(context.Background(), "T-0001", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, ticket.Status)
	assert.Len(t, ticket.History, 2)
}

func TestSetStatusUnknownID(t *testing.T) {
	s, notifier := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	_, err := s.SetStatus(context.Background(), "T-9999", domain.TicketStatusResolved, "Admin")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Empty(t, notifier.calls)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestHistoryGrowsPerMutationNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	_, err := s.SetStatus(context.Background(), "T-0001", domain.TicketStatusInProgress, "Admin")
	require.NoError(t, err)
	priority := domain.TicketPriorityCritical
	_, err = s.UpdateFields(context.Background(), "T-0001", TicketUpdate{ManualPriority: &priority}, "Admin")
	require.NoError(t, err)
	_, err = s.SetStatus(context.Background(), "T-0001", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)

	ticket, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)
	require.Len(t, ticket.History, 4)
	for i := 1; i < len(ticket.History); i++ {
		assert.False(t, ticket.History[i-1].Timestamp.Before(ticket.History[i].Timestamp),
			"history must be newest first")
	}
	assert.Equal(t, domain.ActionStatusChange, ticket.History[0].Action)
	assert.Equal(t, domain.ActionTicketCreated, ticket.History[3].Action)
}

func TestUpdateFieldsRecordsChangedFieldNames(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	status := domain.TicketStatusInProgress
	priority := domain.TicketPriorityLow
	tags := []string{"Hardware", "Return", "Hardware"}
	ticket, err := s.UpdateFields(context.Background(), "T-0001", TicketUpdate{
		Status:         &status,
		ManualPriority: &priority,
		Tags:           &tags,
	}, "Admin")
	require.NoError(t, err)

	assert.Equal(t, domain.ActionUpdatedDetails, ticket.History[0].Action)
	assert.Equal(t, "status, manualPriority, tags", ticket.History[0].Details)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
	assert.Equal(t, domain.TicketPriorityLow, ticket.EffectivePriority())
	assert.Equal(t, []string{"Hardware", "Return"}, ticket.Tags, "duplicate tags must not be re-added")
}

func TestUpdateFieldsUnknownIDLeavesStoreUntouched(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	before, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)

	status := domain.TicketStatusClosed
	_, err = s.UpdateFields(context.Background(), "T-9999", TicketUpdate{Status: &status}, "Admin")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	after, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDeleteManyIgnoresUnknownIDs(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	require.NoError(t, s.Create(context.Background(), newTicket("T-0002")))

	removed, err := s.DeleteMany(context.Background(), []string{"T-0001", "nonexistent"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.Get(context.Background(), "T-0001")
	assert.ErrorIs(t, err, ErrTicketNotFound)
	_, err = s.Get(context.Background(), "T-0002")
	assert.NoError(t, err)
}

func TestDeleteManyRemovesHistoryWithTicket(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	_, err := s.SetStatus(context.Background(), "T-0001", domain.TicketStatusInProgress, "Admin")
	require.NoError(t, err)

	removed, err := s.DeleteMany(context.Background(), []string{"T-0001"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Get(context.Background(), "T-0001")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestListFiltersBySearchAndEffectiveValues(t *testing.T) {
	s, _ := newTestStore(t)

	first := newTicket("T-0001")
	require.NoError(t, s.Create(context.Background(), first))

	second := newTicket("T-0002")
	second.CustomerName = "Bob Smith"
	second.Email = "bob@example.com"
	second.Subject = "Where is my order?"
	second.AIPriority = domain.TicketPriorityLow
	second.AISentiment = domain.SentimentNeutral
	require.NoError(t, s.Create(context.Background(), second))

	// Search matches name, email, or subject, case-insensitively.
	tickets, err := s.List(context.Background(), Filter{Search: "bob"})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "T-0002", tickets[0].ID)

	tickets, err = s.List(context.Background(), Filter{Search: "headphones"})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "T-0001", tickets[0].ID)

	// Priority filter honors the manual override.
	override := domain.TicketPriorityHigh
	_, err = s.UpdateFields(context.Background(), "T-0002", TicketUpdate{ManualPriority: &override}, "Admin")
	require.NoError(t, err)

	high := domain.TicketPriorityHigh
	tickets, err = s.List(context.Background(), Filter{Priority: &high})
	require.NoError(t, err)
	assert.Len(t, tickets, 2)

	low := domain.TicketPriorityLow
	tickets, err = s.List(context.Background(), Filter{Priority: &low})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestListSortStableOnTies(t *testing.T) {
	s, _ := newTestStore(t)
	for i := 1; i <= 3; i++ {
		ticket := newTicket(fmt.Sprintf("T-000%d", i))
		ticket.CustomerName = "Same Name"
		require.NoError(t, s.Create(context.Background(), ticket))
	}

	tickets, err := s.List(context.Background(), Filter{SortBy: SortByCustomerName, Direction: SortAsc})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	// All keys equal: insertion order (newest first) must survive.
	assert.Equal(t, "T-0003", tickets[0].ID)
	assert.Equal(t, "T-0002", tickets[1].ID)
	assert.Equal(t, "T-0001", tickets[2].ID)
}

func TestListSortByPriorityDesc(t *testing.T) {
	s, _ := newTestStore(t)

	low := newTicket("T-0001")
	low.AIPriority = domain.TicketPriorityLow
	require.NoError(t, s.Create(context.Background(), low))

	critical := newTicket("T-0002")
	critical.AIPriority = domain.TicketPriorityCritical
	require.NoError(t, s.Create(context.Background(), critical))

	medium := newTicket("T-0003")
	medium.AIPriority = domain.TicketPriorityMedium
	require.NoError(t, s.Create(context.Background(), medium))

	tickets, err := s.List(context.Background(), Filter{SortBy: SortByPriority, Direction: SortDesc})
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	assert.Equal(t, "T-0002", tickets[0].ID)
	assert.Equal(t, "T-0003", tickets[1].ID)
	assert.Equal(t, "T-0001", tickets[2].ID)
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))

	first, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)
	first.Subject = "mutated by caller"
	first.History[0].Action = "tampered"

	second, err := s.Get(context.Background(), "T-0001")
	require.NoError(t, err)
	assert.Equal(t, "Headphones not working", second.Subject)
	assert.Equal(t, domain.ActionTicketCreated, second.History[0].Action)
}

func TestStatusTally(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Create(context.Background(), newTicket("T-0001")))
	require.NoError(t, s.Create(context.Background(), newTicket("T-0002")))
	_, err := s.SetStatus(context.Background(), "T-0002", domain.TicketStatusResolved, "Admin")
	require.NoError(t, err)

	tally, err := s.StatusTally(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, tally[domain.TicketStatusOpen])
	assert.Equal(t, 1, tally[domain.TicketStatusResolved])
}

func TestSeedDemoTickets(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, SeedDemoTickets(context.Background(), s))

	tickets, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "T-8821", tickets[0].ID)
	assert.Equal(t, "T-8822", tickets[1].ID)
}
