package handler

import (
	"github.com/gofiber/fiber/v2"

	"fintel/internal/model"
)

type sendReportRequest struct {
	Email      string           `json:"email" validate:"required,email"`
	ReportData model.ReportData `json:"reportData"`
}

type sendDigestRequest struct {
	Email      string             `json:"email" validate:"required,email"`
	DigestData model.DigestReport `json:"digestData"`
}

type sendAlertRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	AlertData model.AlertData `json:"alertData"`
}

type sendImmediateRequest struct {
	Emails []string `json:"emails" validate:"omitempty,dive,email"`
}

// SendReport sends an anomaly report to one recipient.
func (h *Handler) SendReport(c *fiber.Ctx) error {
	var req sendReportRequest
	if ok, resp := h.parseEmailRequest(c, &req); !ok {
		return resp
	}
	id, err := h.notify.SendReport(c.UserContext(), req.Email, req.ReportData)
	return sendOutcome(c, id, err)
}

// SendDigest sends a digest to one recipient.
func (h *Handler) SendDigest(c *fiber.Ctx) error {
	var req sendDigestRequest
	if ok, resp := h.parseEmailRequest(c, &req); !ok {
		return resp
	}
	id, err := h.notify.SendDigest(c.UserContext(), req.Email, req.DigestData)
	return sendOutcome(c, id, err)
}

// SendAlert sends a high-priority alert to one recipient.
func (h *Handler) SendAlert(c *fiber.Ctx) error {
	var req sendAlertRequest
	if ok, resp := h.parseEmailRequest(c, &req); !ok {
		return resp
	}
	id, err := h.notify.SendAlert(c.UserContext(), req.Email, req.AlertData)
	return sendOutcome(c, id, err)
}

// TestEmail verifies the mail transport configuration.
func (h *Handler) TestEmail(c *fiber.Ctx) error {
	if err := h.notify.Test(c.UserContext()); err != nil {
		return c.JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

// SendImmediate builds the current report and dispatches it, defaulting to
// the configured team recipients.
func (h *Handler) SendImmediate(c *fiber.Ctx) error {
	var req sendImmediateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid request body",
			})
		}
		if err := h.validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid email address in emails",
			})
		}
	}

	results, err := h.notify.SendImmediateReport(c.UserContext(), req.Emails)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Immediate reports sent",
		"results": results,
	})
}

// parseEmailRequest decodes and validates a send request. On failure the
// second return value is the already-written 400 response.
func (h *Handler) parseEmailRequest(c *fiber.Ctx, req any) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Email address is required",
		})
	}
	return true, nil
}

// sendOutcome mirrors the mailer result: delivery failures report
// success:false with a 200, matching the dispatch endpoints' contract.
func sendOutcome(c *fiber.Ctx, messageID string, err error) error {
	if err != nil {
		return c.JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "messageId": messageID})
}
