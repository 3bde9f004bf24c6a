package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"fintel/internal/service"
)

// Handler bundles the HTTP endpoints with their service dependencies.
// Handlers stay thin; business rules live in the service layer.
type Handler struct {
	db         *sql.DB
	compliance service.ComplianceService
	stats      service.StatsService
	notify     service.NotificationService
	validate   *validator.Validate
}

// New constructs a Handler.
func New(db *sql.DB, compliance service.ComplianceService, stats service.StatsService, notify service.NotificationService) *Handler {
	return &Handler{
		db:         db,
		compliance: compliance,
		stats:      stats,
		notify:     notify,
		validate:   validator.New(),
	}
}

// RegisterRoutes attaches all HTTP routes to the provided Fiber app.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Get("/healthz", h.Liveness)

	api := app.Group("/api")
	api.Post("/invoices/process", h.ProcessInvoice)
	api.Get("/invoices/history", h.InvoiceHistory)
	api.Get("/dashboard/stats", h.DashboardStats)
	api.Get("/anomalies", h.ListAnomalies)
	api.Get("/vendors", h.ListVendors)

	email := api.Group("/email")
	email.Post("/send-report", h.SendReport)
	email.Post("/send-digest", h.SendDigest)
	email.Post("/send-alert", h.SendAlert)
	email.Get("/test", h.TestEmail)
	email.Post("/send-immediate", h.SendImmediate)
}

// HealthCheck reports readiness, gated on database connectivity.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
}

// Liveness is the bare liveness probe.
func (h *Handler) Liveness(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}
