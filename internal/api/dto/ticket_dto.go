package dto

import (
	"time"

	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// SubmitTicketRequest is the public complaint submission payload.
type SubmitTicketRequest struct {
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	OrderID      string `json:"orderId"`
	Subject      string `json:"subject"`
	Description  string `json:"description"`
}

// UpdateStatusRequest changes a ticket's lifecycle state.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdateTicketRequest carries the staff-mutable fields. Absent fields are
// left untouched.
type UpdateTicketRequest struct {
	Status          *domain.TicketStatus   `json:"status,omitempty"`
	ManualPriority  *domain.TicketPriority `json:"manualPriority,omitempty"`
	ManualSentiment *domain.Sentiment      `json:"manualSentiment,omitempty"`
	Tags            *[]string              `json:"tags,omitempty"`
}

// BulkDeleteRequest names tickets to remove.
type BulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BulkDeleteResponse reports how many tickets were removed.
type BulkDeleteResponse struct {
	Removed int `json:"removed"`
}

// RespondRequest carries the outgoing staff reply.
type RespondRequest struct {
	Body string `json:"body"`
}

// HistoryEntryResponse is one audit record.
type HistoryEntryResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Details   string    `json:"details,omitempty"`
}

// TicketSummary is the dashboard row shape.
type TicketSummary struct {
	ID                 string                 `json:"id"`
	CustomerName       string                 `json:"customerName"`
	Email              string                 `json:"email"`
	Subject            string                 `json:"subject"`
	Status             domain.TicketStatus    `json:"status"`
	EffectivePriority  domain.TicketPriority  `json:"effectivePriority"`
	EffectiveSentiment domain.Sentiment       `json:"effectiveSentiment"`
	ManualPriority     *domain.TicketPriority `json:"manualPriority,omitempty"`
	ManualSentiment    *domain.Sentiment      `json:"manualSentiment,omitempty"`
	Tags               []string               `json:"tags"`
	CreatedAt          time.Time              `json:"createdAt"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// TicketDetailResponse is the full ticket shape.
type TicketDetailResponse struct {
	ID                  string                 `json:"id"`
	CustomerName        string                 `json:"customerName"`
	Email               string                 `json:"email"`
	OrderID             string                 `json:"orderId"`
	Subject             string                 `json:"subject"`
	Description         string                 `json:"description"`
	Status              domain.TicketStatus    `json:"status"`
	AIPriority          domain.TicketPriority  `json:"aiPriority"`
	AISentiment         domain.Sentiment       `json:"aiSentiment"`
	AISummary           string                 `json:"aiSummary"`
	AISuggestedResponse string                 `json:"aiSuggestedResponse"`
	ManualPriority      *domain.TicketPriority `json:"manualPriority,omitempty"`
	ManualSentiment     *domain.Sentiment      `json:"manualSentiment,omitempty"`
	EffectivePriority   domain.TicketPriority  `json:"effectivePriority"`
	EffectiveSentiment  domain.Sentiment       `json:"effectiveSentiment"`
	Tags                []string               `json:"tags"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
	History             []HistoryEntryResponse `json:"history"`
}

// StatsResponse carries per-status ticket counts.
type StatsResponse struct {
	Total    int                         `json:"total"`
	ByStatus map[domain.TicketStatus]int `json:"byStatus"`
}

// LoginRequest is the staff login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Name      string           `json:"name"`
	Role      domain.StaffRole `json:"role"`
}
