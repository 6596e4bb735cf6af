package store

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// Sentinel errors returned by ticket stores.
var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketExists   = errors.New("ticket id already exists")
)

// TicketUpdate is the closed set of staff-mutable fields. A nil field is
// left untouched. Field order determines the order of names in the
// "Updated Details" audit text.
type TicketUpdate struct {
	Status          *domain.TicketStatus
	ManualPriority  *domain.TicketPriority
	ManualSentiment *domain.Sentiment
	Tags            *[]string
}

// ChangedFields lists the names of the fields carried by the update,
// in declaration order.
func (u TicketUpdate) ChangedFields() []string {
	fields := make([]string, 0, 4)
	if u.Status != nil {
		fields = append(fields, "status")
	}
	if u.ManualPriority != nil {
		fields = append(fields, "manualPriority")
	}
	if u.ManualSentiment != nil {
		fields = append(fields, "manualSentiment")
	}
	if u.Tags != nil {
		fields = append(fields, "tags")
	}
	return fields
}

// Empty reports whether the update carries no fields.
func (u TicketUpdate) Empty() bool {
	return u.Status == nil && u.ManualPriority == nil && u.ManualSentiment == nil && u.Tags == nil
}

// SortKey enumerates sortable ticket fields.
type SortKey string

const (
	SortByCreatedAt    SortKey = "createdAt"
	SortByUpdatedAt    SortKey = "updatedAt"
	SortByCustomerName SortKey = "customerName"
	SortBySubject      SortKey = "subject"
	SortByStatus       SortKey = "status"
	SortByPriority     SortKey = "priority"
	SortBySentiment    SortKey = "sentiment"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Filter captures dashboard search parameters. Priority and Sentiment match
// against the effective (override-aware) values.
type Filter struct {
	Search    string
	Status    *domain.TicketStatus
	Priority  *domain.TicketPriority
	Sentiment *domain.Sentiment
	SortBy    SortKey
	Direction SortDirection
}

// TicketStore owns the ticket collection and all mutation semantics. Every
// successful mutation appends exactly one history entry and stamps UpdatedAt.
type TicketStore interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	SetStatus(ctx context.Context, id string, status domain.TicketStatus, actor string) (*domain.Ticket, error)
	UpdateFields(ctx context.Context, id string, update TicketUpdate, actor string) (*domain.Ticket, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
	List(ctx context.Context, filter Filter) ([]domain.Ticket, error)
	Count(ctx context.Context) (int, error)
	StatusTally(ctx context.Context) (map[domain.TicketStatus]int, error)
}

// NewTicketKey generates a ticket identifier of the form T-XXXXXXXX.
func NewTicketKey() string {
	return "T-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func matchesFilter(t *domain.Ticket, filter Filter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(t.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(t.Email), needle) &&
			!strings.Contains(strings.ToLower(t.Subject), needle) {
			return false
		}
	}
	if filter.Status != nil && t.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && t.EffectivePriority() != *filter.Priority {
		return false
	}
	if filter.Sentiment != nil && t.EffectiveSentiment() != *filter.Sentiment {
		return false
	}
	return true
}

var priorityRank = map[domain.TicketPriority]int{
	domain.TicketPriorityLow:      0,
	domain.TicketPriorityMedium:   1,
	domain.TicketPriorityHigh:     2,
	domain.TicketPriorityCritical: 3,
}

var sentimentRank = map[domain.Sentiment]int{
	domain.SentimentPositive: 0,
	domain.SentimentNeutral:  1,
	domain.SentimentNegative: 2,
	domain.SentimentAngry:    3,
}

// lessBy compares two tickets by the sort key in ascending order.
func lessBy(key SortKey, a, b *domain.Ticket) bool {
	switch key {
	case SortByCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortByUpdatedAt:
		return a.UpdatedAt.Before(b.UpdatedAt)
	case SortByCustomerName:
		return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
	case SortBySubject:
		return strings.ToLower(a.Subject) < strings.ToLower(b.Subject)
	case SortByStatus:
		return a.Status < b.Status
	case SortByPriority:
		return priorityRank[a.EffectivePriority()] < priorityRank[b.EffectivePriority()]
	case SortBySentiment:
		return sentimentRank[a.EffectiveSentiment()] < sentimentRank[b.EffectiveSentiment()]
	}
	return false
}
