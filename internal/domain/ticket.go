package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency levels assigned by analysis or staff.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "Low"
	TicketPriorityMedium   TicketPriority = "Medium"
	TicketPriorityHigh     TicketPriority = "High"
	TicketPriorityCritical TicketPriority = "Critical"
)

// Sentiment enumerates detected customer sentiment.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentAngry    Sentiment = "Angry"
)

// Ticket is the aggregate for customer complaints.
type Ticket struct {
	ID           string
	CustomerName string
	Email        string
	OrderID      string
	Subject      string
	Description  string
	Status       TicketStatus

	// Set once by the classification client at creation.
	AIPriority          TicketPriority
	AISentiment         Sentiment
	AISummary           string
	AISuggestedResponse string

	// Staff overrides; nil means the AI value stands.
	ManualPriority  *TicketPriority
	ManualSentiment *Sentiment

	CreatedAt time.Time
	UpdatedAt time.Time

	// History is newest-first and append-only.
	History []HistoryEntry
	Tags    []string
}

// EffectivePriority returns the manual override when set, else the AI value.
func (t *Ticket) EffectivePriority() TicketPriority {
	if t.ManualPriority != nil {
		return *t.ManualPriority
	}
	return t.AIPriority
}

// EffectiveSentiment returns the manual override when set, else the AI value.
func (t *Ticket) EffectiveSentiment() Sentiment {
	if t.ManualSentiment != nil {
		return *t.ManualSentiment
	}
	return t.AISentiment
}

// HasTag reports whether the tag is already present.
func (t *Ticket) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known lifecycle state.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether the value is a known priority level.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// ValidSentiment reports whether the value is a known sentiment level.
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentAngry:
		return true
	}
	return false
}
