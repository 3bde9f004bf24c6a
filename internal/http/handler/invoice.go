package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fintel/internal/model"
	"fintel/internal/repository"
	"fintel/internal/service"
)

type historyItem struct {
	model.Invoice
	ComplianceResult *model.ComplianceResult `json:"complianceResult,omitempty"`
}

// ProcessInvoice runs one submission through the validation pipeline.
func (h *Handler) ProcessInvoice(c *fiber.Ctx) error {
	var sub model.InvoiceSubmission
	if err := c.BodyParser(&sub); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	res, err := h.compliance.ProcessInvoice(c.UserContext(), &sub)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNumberRequired) || errors.Is(err, service.ErrVendorNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"complianceResult": res,
	})
}

// DashboardStats returns the headline rollup.
func (h *Handler) DashboardStats(c *fiber.Ctx) error {
	stats, err := h.stats.Dashboard(c.UserContext())
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(fiber.Map{"stats": stats})
}

// ListAnomalies returns recent anomalies, newest first.
func (h *Handler) ListAnomalies(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	anomalies, err := h.stats.Anomalies(c.UserContext(), repository.HistoryQuery{Limit: limit})
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(fiber.Map{"anomalies": anomalies})
}

// InvoiceHistory returns recent invoices with their compliance results.
func (h *Handler) InvoiceHistory(c *fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
	}
	entries, err := h.stats.History(c.UserContext(), limit)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{Invoice: e.Invoice, ComplianceResult: e.Result})
	}
	return c.JSON(fiber.Map{"invoices": items})
}

// ListVendors returns the vendor rollups.
func (h *Handler) ListVendors(c *fiber.Ctx) error {
	vendors, err := h.stats.Vendors(c.UserContext())
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
	return c.JSON(fiber.Map{"vendors": vendors})
}

func queryLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit", "0")
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.New("invalid limit")
	}
	return limit, nil
}
