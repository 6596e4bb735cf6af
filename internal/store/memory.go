package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/notify"
)

// MemoryStore is the in-memory TicketStore. A single RWMutex serializes
// writers; all reads hand out copies so callers never alias store state.
type MemoryStore struct {
	mu       sync.RWMutex
	tickets  []*domain.Ticket // head = most recently created
	byID     map[string]*domain.Ticket
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewMemoryStore constructs an empty store with an injected notification
// collaborator.
func NewMemoryStore(notifier notify.Notifier, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]*domain.Ticket),
		notifier: notifier,
		logger:   logger,
	}
}

// Create inserts a fully-formed ticket at the head of the collection and
// records the creation in its history.
func (s *MemoryStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[ticket.ID]; exists {
		return ErrTicketExists
	}

	now := time.Now()
	stored := cloneTicket(ticket)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = stored.CreatedAt
	if stored.Status == "" {
		stored.Status = domain.TicketStatusOpen
	}
	stored.Tags = dedupeTags(stored.Tags)
	stored.History = append([]domain.HistoryEntry{{
		Timestamp: stored.CreatedAt,
		Action:    domain.ActionTicketCreated,
		Actor:     domain.ActorSystem,
	}}, stored.History...)

	s.tickets = append([]*domain.Ticket{stored}, s.tickets...)
	s.byID[stored.ID] = stored

	ticket.CreatedAt = stored.CreatedAt
	ticket.UpdatedAt = stored.UpdatedAt
	ticket.Status = stored.Status
	ticket.History = cloneHistory(stored.History)
	ticket.Tags = append([]string(nil), stored.Tags...)
	return nil
}

// Get returns a copy of the ticket or ErrTicketNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.byID[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return cloneTicket(ticket), nil
}

// SetStatus transitions the ticket and records the change. Entering Resolved
// from any other status notifies the customer; delivery failures are ignored.
func (s *MemoryStore) SetStatus(ctx context.Context, id string, status domain.TicketStatus, actor string) (*domain.Ticket, error) {
	s.mu.Lock()
	ticket, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrTicketNotFound
	}

	oldStatus := ticket.Status
	now := time.Now()
	ticket.Status = status
	ticket.UpdatedAt = now
	ticket.History = append([]domain.HistoryEntry{{
		Timestamp: now,
		Action:    domain.ActionStatusChange,
		Actor:     actor,
		Details:   fmt.Sprintf("Changed from %s to %s", oldStatus, status),
	}}, ticket.History...)

	result := cloneTicket(ticket)
	email := ticket.Email
	s.mu.Unlock()

	if status == domain.TicketStatusResolved && oldStatus != domain.TicketStatusResolved && s.notifier != nil {
		message := fmt.Sprintf("Your ticket #%s has been marked as RESOLVED. Please check your dashboard for details.", id)
		if err := s.notifier.Notify(ctx, id, email, message); err != nil && s.logger != nil {
			s.logger.Warn("resolution notification failed", zap.String("ticket_id", id), zap.Error(err))
		}
	}
	return result, nil
}

// UpdateFields merges the typed partial update into the ticket and records
// which fields changed.
func (s *MemoryStore) UpdateFields(ctx context.Context, id string, update TicketUpdate, actor string) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.byID[id]
	if !ok {
		return nil, ErrTicketNotFound
	}

	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.ManualPriority != nil {
		priority := *update.ManualPriority
		ticket.ManualPriority = &priority
	}
	if update.ManualSentiment != nil {
		sentiment := *update.ManualSentiment
		ticket.ManualSentiment = &sentiment
	}
	if update.Tags != nil {
		ticket.Tags = dedupeTags(*update.Tags)
	}

	now := time.Now()
	ticket.UpdatedAt = now
	ticket.History = append([]domain.HistoryEntry{{
		Timestamp: now,
		Action:    domain.ActionUpdatedDetails,
		Actor:     actor,
		Details:   joinFields(update.ChangedFields()),
	}}, ticket.History...)

	return cloneTicket(ticket), nil
}

// DeleteMany removes every ticket whose id is present and reports how many
// were removed. Unknown ids are ignored.
func (s *MemoryStore) DeleteMany(ctx context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doomed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			doomed[id] = struct{}{}
		}
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	kept := s.tickets[:0]
	for _, ticket := range s.tickets {
		if _, gone := doomed[ticket.ID]; gone {
			delete(s.byID, ticket.ID)
			continue
		}
		kept = append(kept, ticket)
	}
	s.tickets = kept
	return len(doomed), nil
}

// List returns copies of tickets matching the filter. Without an explicit
// sort the canonical newest-first insertion order is preserved; sorting is
// stable so ties keep that order.
func (s *MemoryStore) List(ctx context.Context, filter Filter) ([]domain.Ticket, error) {
	s.mu.RLock()
	matched := make([]*domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		if matchesFilter(ticket, filter) {
			matched = append(matched, ticket)
		}
	}

	if filter.SortBy != "" {
		desc := filter.Direction == SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			if desc {
				return lessBy(filter.SortBy, matched[j], matched[i])
			}
			return lessBy(filter.SortBy, matched[i], matched[j])
		})
	}

	result := make([]domain.Ticket, 0, len(matched))
	for _, ticket := range matched {
		result = append(result, *cloneTicket(ticket))
	}
	s.mu.RUnlock()
	return result, nil
}

// Count returns the number of live tickets.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets), nil
}

// StatusTally returns per-status ticket counts for the dashboard chart.
func (s *MemoryStore) StatusTally(ctx context.Context) (map[domain.TicketStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tally := make(map[domain.TicketStatus]int, 4)
	for _, ticket := range s.tickets {
		tally[ticket.Status]++
	}
	return tally, nil
}

func cloneTicket(t *domain.Ticket) *domain.Ticket {
	clone := *t
	clone.History = cloneHistory(t.History)
	clone.Tags = append([]string(nil), t.Tags...)
	if t.ManualPriority != nil {
		priority := *t.ManualPriority
		clone.ManualPriority = &priority
	}
	if t.ManualSentiment != nil {
		sentiment := *t.ManualSentiment
		clone.ManualSentiment = &sentiment
	}
	return &clone
}

func cloneHistory(entries []domain.HistoryEntry) []domain.HistoryEntry {
	return append([]domain.HistoryEntry(nil), entries...)
}

func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

func joinFields(fields []string) string {
	return strings.Join(fields, ", ")
}
