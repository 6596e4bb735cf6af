package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/api/dto"
	"github.com/kishanyadav-shop/support-portal/internal/auth"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
	"github.com/kishanyadav-shop/support-portal/internal/service"
	"github.com/kishanyadav-shop/support-portal/internal/store"
	"github.com/kishanyadav-shop/support-portal/pkg/util"
)

// StaffTicketsHandler manages the triage dashboard endpoints.
type StaffTicketsHandler struct {
	service *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(ticketService *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{service: ticketService}
}

// ListTickets GET /staff/tickets.
func (h *StaffTicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return util.MapError(err)
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /staff/tickets/:id.
func (h *StaffTicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapTicketError(err, c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// GetHistory GET /staff/tickets/:id/history.
func (h *StaffTicketsHandler) GetHistory(c *fiber.Ctx) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapTicketError(err, c.Params("id"))
	}
	history := make([]dto.HistoryEntryResponse, 0, len(ticket.History))
	for _, entry := range ticket.History {
		history = append(history, dto.HistoryEntryResponse{
			Timestamp: entry.Timestamp,
			Action:    entry.Action,
			Actor:     entry.Actor,
			Details:   entry.Details,
		})
	}
	return c.JSON(fiber.Map{"data": history})
}

// UpdateStatus PATCH /staff/tickets/:id/status.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	staff, ok := auth.StaffFromContext(c)
	if !ok {
		return util.NewUnauthorized("staff required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidStatus(req.Status) {
		return util.NewValidationError("unknown status", fiber.Map{"status": req.Status})
	}
	ticket, err := h.service.SetStatus(c.UserContext(), c.Params("id"), req.Status, staff.Name)
	if err != nil {
		return mapTicketError(err, c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// UpdateTicket PATCH /staff/tickets/:id.
func (h *StaffTicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	staff, ok := auth.StaffFromContext(c)
	if !ok {
		return util.NewUnauthorized("staff required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	update := store.TicketUpdate{
		Status:          req.Status,
		ManualPriority:  req.ManualPriority,
		ManualSentiment: req.ManualSentiment,
		Tags:            req.Tags,
	}
	if update.Empty() {
		return util.NewValidationError("no fields to update", nil)
	}
	if update.Status != nil && !domain.ValidStatus(*update.Status) {
		return util.NewValidationError("unknown status", fiber.Map{"status": *update.Status})
	}
	if update.ManualPriority != nil && !domain.ValidPriority(*update.ManualPriority) {
		return util.NewValidationError("unknown priority", fiber.Map{"priority": *update.ManualPriority})
	}
	if update.ManualSentiment != nil && !domain.ValidSentiment(*update.ManualSentiment) {
		return util.NewValidationError("unknown sentiment", fiber.Map{"sentiment": *update.ManualSentiment})
	}

	ticket, err := h.service.UpdateFields(c.UserContext(), c.Params("id"), update, staff.Name)
	if err != nil {
		return mapTicketError(err, c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// BulkDelete POST /staff/tickets/bulk-delete.
func (h *StaffTicketsHandler) BulkDelete(c *fiber.Ctx) error {
	staff, ok := auth.StaffFromContext(c)
	if !ok {
		return util.NewUnauthorized("staff required")
	}
	var req dto.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return util.NewValidationError("ids required", nil)
	}
	removed, err := h.service.DeleteMany(c.UserContext(), req.IDs, staff.Name)
	if err != nil {
		return util.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.BulkDeleteResponse{Removed: removed}})
}

// Respond POST /staff/tickets/:id/respond.
func (h *StaffTicketsHandler) Respond(c *fiber.Ctx) error {
	staff, ok := auth.StaffFromContext(c)
	if !ok {
		return util.NewUnauthorized("staff required")
	}
	var req dto.RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Body) == "" {
		return util.NewValidationError("body required", nil)
	}
	ticket, err := h.service.SendResponse(c.UserContext(), c.Params("id"), req.Body, staff.Name)
	if err != nil {
		return mapTicketError(err, c.Params("id"))
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// Stats GET /staff/tickets/stats.
func (h *StaffTicketsHandler) Stats(c *fiber.Ctx) error {
	tally, err := h.service.StatusTally(c.UserContext())
	if err != nil {
		return util.MapError(err)
	}
	total := 0
	for _, count := range tally {
		total += count
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{Total: total, ByStatus: tally}})
}

func parseTicketQuery(c *fiber.Ctx) (store.Filter, error) {
	filter := store.Filter{Search: c.Query("search")}

	if val := c.Query("status"); val != "" {
		status := domain.TicketStatus(val)
		if !domain.ValidStatus(status) {
			return filter, util.NewValidationError("unknown status", fiber.Map{"status": val})
		}
		filter.Status = &status
	}
	if val := c.Query("priority"); val != "" {
		priority := domain.TicketPriority(val)
		if !domain.ValidPriority(priority) {
			return filter, util.NewValidationError("unknown priority", fiber.Map{"priority": val})
		}
		filter.Priority = &priority
	}
	if val := c.Query("sentiment"); val != "" {
		sentiment := domain.Sentiment(val)
		if !domain.ValidSentiment(sentiment) {
			return filter, util.NewValidationError("unknown sentiment", fiber.Map{"sentiment": val})
		}
		filter.Sentiment = &sentiment
	}
	if val := c.Query("sort"); val != "" {
		filter.SortBy = store.SortKey(val)
	}
	filter.Direction = store.SortAsc
	if c.Query("direction") == string(store.SortDesc) {
		filter.Direction = store.SortDesc
	}
	return filter, nil
}

func mapTicketError(err error, id string) error {
	if errors.Is(err, store.ErrTicketNotFound) {
		return util.NewNotFound("ticket", fiber.Map{"id": id})
	}
	return util.MapError(err)
}
