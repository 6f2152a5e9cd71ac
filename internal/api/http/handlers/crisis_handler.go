package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/outage-service/internal/api/dto"
	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/observability"
	"github.com/spec-kit/outage-service/internal/repository"
	"github.com/spec-kit/outage-service/internal/service"
	apperrors "github.com/spec-kit/outage-service/pkg/util"
)

// CrisisHandler serves the operator crisis-event endpoints.
type CrisisHandler struct {
	incidents *service.IncidentService
	metrics   *observability.Metrics
}

// NewCrisisHandler constructs handler.
func NewCrisisHandler(incidents *service.IncidentService, metrics *observability.Metrics) *CrisisHandler {
	return &CrisisHandler{incidents: incidents, metrics: metrics}
}

// List GET /api/crisis-events.
func (h *CrisisHandler) List(c *fiber.Ctx) error {
	filter := repository.CrisisEventFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.CrisisStatus(statusStr)
		if status != domain.CrisisStatusOngoing && status != domain.CrisisStatusResolved {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if rootID := strings.TrimSpace(c.Query("root_device_id")); rootID != "" {
		filter.RootDeviceID = &rootID
	}

	crises, err := h.incidents.ListCrises(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.CrisisEventResponse, 0, len(crises))
	for i := range crises {
		items = append(items, crisisResponse(&crises[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/crisis-events/:id.
func (h *CrisisHandler) Get(c *fiber.Ctx) error {
	crisis, err := h.incidents.GetCrisis(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": crisisResponse(crisis)})
}

// Resolve POST /api/crisis-events/:id/resolve.
func (h *CrisisHandler) Resolve(c *fiber.Ctx) error {
	crisis, err := h.incidents.ResolveCrisis(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	h.metrics.RecordCrisisResolved()
	return c.JSON(fiber.Map{"data": crisisResponse(crisis)})
}

func crisisResponse(crisis *domain.CrisisEvent) dto.CrisisEventResponse {
	subscribers := crisis.AffectedSubscriberIDs
	if subscribers == nil {
		subscribers = []string{}
	}
	return dto.CrisisEventResponse{
		ID:                    crisis.ID,
		RootDeviceID:          crisis.RootDeviceID,
		Status:                string(crisis.Status),
		Description:           crisis.Description,
		AffectedSubscriberIDs: subscribers,
		OrganizationID:        crisis.OrganizationID,
		StartedAt:             crisis.StartedAt,
		ResolvedAt:            crisis.ResolvedAt,
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
