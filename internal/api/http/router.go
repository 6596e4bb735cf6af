package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kishanyadav-shop/support-portal/internal/api/http/handlers"
	"github.com/kishanyadav-shop/support-portal/internal/auth"
	"github.com/kishanyadav-shop/support-portal/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)

	app.Post("/auth/staff/login", cfg.Auth.Login)

	app.Post("/tickets", cfg.Tickets.SubmitTicket)
	app.Get("/tickets/:id", cfg.Tickets.GetTicket)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleAgent))
	staff.Get("/tickets", cfg.StaffTickets.ListTickets)
	staff.Get("/tickets/stats", cfg.StaffTickets.Stats)
	staff.Post("/tickets/bulk-delete", cfg.StaffTickets.BulkDelete)
	staff.Get("/tickets/:id", cfg.StaffTickets.GetTicket)
	staff.Get("/tickets/:id/history", cfg.StaffTickets.GetHistory)
	staff.Patch("/tickets/:id", cfg.StaffTickets.UpdateTicket)
	staff.Patch("/tickets/:id/status", cfg.StaffTickets.UpdateStatus)
	staff.Post("/tickets/:id/respond", cfg.StaffTickets.Respond)
}
