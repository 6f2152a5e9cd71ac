package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/outage-service/internal/api/dto"
	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/repository"
	"github.com/spec-kit/outage-service/internal/service"
	apperrors "github.com/spec-kit/outage-service/pkg/util"
)

// TicketsHandler serves the operator ticket endpoints.
type TicketsHandler struct {
	incidents *service.IncidentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(incidents *service.IncidentService) *TicketsHandler {
	return &TicketsHandler{incidents: incidents}
}

// List GET /api/tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := repository.TicketFilter{
		Limit:  queryInt(c, "limit", 20),
		Offset: queryInt(c, "offset", 0),
	}
	if crisisID := strings.TrimSpace(c.Query("crisis_event_id")); crisisID != "" {
		filter.CrisisEventID = &crisisID
	}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		filter.Status = &status
	}
	if priorityStr := strings.TrimSpace(c.Query("priority")); priorityStr != "" {
		priority := domain.TicketPriority(priorityStr)
		filter.Priority = &priority
	}

	tickets, err := h.incidents.ListTickets(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.incidents.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:             ticket.ID,
		ExternalKey:    ticket.ExternalKey,
		CrisisEventID:  ticket.CrisisEventID,
		SubscriberID:   ticket.SubscriberID,
		Subject:        ticket.Subject,
		Description:    ticket.Description,
		Status:         string(ticket.Status),
		Priority:       string(ticket.Priority),
		OrganizationID: ticket.OrganizationID,
		CreatedAt:      ticket.CreatedAt,
	}
}
