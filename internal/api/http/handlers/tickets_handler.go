package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/api/dto"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/service"
	"github.com/kishanyadav-shop/support-portal/internal/store"
	"github.com/kishanyadav-shop/support-portal/pkg/util"
)

// TicketsHandler manages public complaint endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// SubmitTicket POST /tickets.
func (h *TicketsHandler) SubmitTicket(c *fiber.Ctx) error {
	var req dto.SubmitTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Description) == "" {
		return util.NewValidationError("customerName, email, subject, description required", nil)
	}

	ticket, err := h.service.Submit(c.UserContext(), service.SubmitInput{
		CustomerName: req.CustomerName,
		Email:        req.Email,
		OrderID:      req.OrderID,
		Subject:      req.Subject,
		Description:  req.Description,
	})
	if err != nil {
		return util.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// GetTicket GET /tickets/:id serves the customer status-check page.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrTicketNotFound) {
			return util.NewNotFound("ticket", fiber.Map{"id": c.Params("id")})
		}
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                 ticket.ID,
		CustomerName:       ticket.CustomerName,
		Email:              ticket.Email,
		Subject:            ticket.Subject,
		Status:             ticket.Status,
		EffectivePriority:  ticket.EffectivePriority(),
		EffectiveSentiment: ticket.EffectiveSentiment(),
		ManualPriority:     ticket.ManualPriority,
		ManualSentiment:    ticket.ManualSentiment,
		Tags:               ticket.Tags,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	history := make([]dto.HistoryEntryResponse, 0, len(ticket.History))
	for _, entry := range ticket.History {
		history = append(history, dto.HistoryEntryResponse{
			Timestamp: entry.Timestamp,
			Action:    entry.Action,
			Actor:     entry.Actor,
			Details:   entry.Details,
		})
	}
	return dto.TicketDetailResponse{
		ID:                  ticket.ID,
		CustomerName:        ticket.CustomerName,
		Email:               ticket.Email,
		OrderID:             ticket.OrderID,
		Subject:             ticket.Subject,
		Description:         ticket.Description,
		Status:              ticket.Status,
		AIPriority:          ticket.AIPriority,
		AISentiment:         ticket.AISentiment,
		AISummary:           ticket.AISummary,
		AISuggestedResponse: ticket.AISuggestedResponse,
		ManualPriority:      ticket.ManualPriority,
		ManualSentiment:     ticket.ManualSentiment,
		EffectivePriority:   ticket.EffectivePriority(),
		EffectiveSentiment:  ticket.EffectiveSentiment(),
		Tags:                ticket.Tags,
		CreatedAt:           ticket.CreatedAt,
		UpdatedAt:           ticket.UpdatedAt,
		History:             history,
	}
}
