package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/outage-service/internal/api/dto"
	"github.com/spec-kit/outage-service/internal/service"
)

// WebhookHandler receives monitoring-system alerts.
type WebhookHandler struct {
	alerts *service.AlertService
	logger *zap.Logger
}

// NewWebhookHandler constructs handler.
func NewWebhookHandler(alerts *service.AlertService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{alerts: alerts, logger: logger}
}

// DeviceDown POST /webhooks/device-down.
//
// Responds 200 whenever the alert was handled, including the
// nothing-to-do cases (malformed body, unknown device, suppressed
// duplicate); only an internal failure while creating the incident
// surfaces as 500 through the error middleware.
func (h *WebhookHandler) DeviceDown(c *fiber.Ctx) error {
	var req dto.DeviceDownRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("unparseable device-down alert; discarding", zap.Error(err))
		return c.JSON(dto.AlertResponse{Status: string(service.AlertResultDiscarded)})
	}

	outcome, err := h.alerts.HandleDeviceDown(c.UserContext(), service.DeviceDownInput{
		DeviceIP: req.Address(),
		Source:   req.Source,
	})
	if err != nil {
		return err
	}

	resp := dto.AlertResponse{Status: string(outcome.Result)}
	if outcome.CrisisEvent != nil {
		resp.CrisisEventID = &outcome.CrisisEvent.ID
	}
	if outcome.Ticket != nil {
		resp.TicketID = &outcome.Ticket.ID
	}
	return c.JSON(resp)
}
