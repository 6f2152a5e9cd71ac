package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/events"
	"github.com/spec-kit/outage-service/internal/repository"
)

// IncidentService turns a resolved blast radius into the persisted incident
// pair: one crisis event plus one linked high-priority ticket.
type IncidentService struct {
	crises     repository.CrisisEventRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IncidentDependencies bundles collaborators for the composer.
type IncidentDependencies struct {
	CrisisRepo repository.CrisisEventRepository
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewIncidentService constructs the composer.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IncidentService{
		crises:     deps.CrisisRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Compose creates exactly one crisis event and exactly one ticket for the
// blast radius, both owned by the root device's organization. The ticket
// gets a representative subscriber only when at least one subscriber is
// affected; a failure on either create propagates to the caller.
func (s *IncidentService) Compose(ctx context.Context, root *domain.Device, radius domain.BlastRadius) (*domain.CrisisEvent, *domain.Ticket, error) {
	crisis := &domain.CrisisEvent{
		RootDeviceID:          root.ID,
		Status:                domain.CrisisStatusOngoing,
		Description:           buildCrisisDescription(root, radius),
		AffectedSubscriberIDs: radius.SubscriberIDs,
		OrganizationID:        root.OrganizationID,
		StartedAt:             time.Now().UTC(),
	}
	if err := s.crises.Create(ctx, crisis); err != nil {
		return nil, nil, fmt.Errorf("create crisis event: %w", err)
	}

	ticket := &domain.Ticket{
		ExternalKey:    generateTicketKey(),
		CrisisEventID:  crisis.ID,
		Subject:        fmt.Sprintf("Network Alert: Device '%s' is Offline. (%s)", root.Name, root.Type),
		Description:    buildTicketDescription(root, radius, crisis.ID),
		Status:         domain.TicketStatusOpen,
		Priority:       domain.TicketPriorityHigh,
		OrganizationID: root.OrganizationID,
	}
	if len(radius.SubscriberIDs) > 0 {
		representative := radius.SubscriberIDs[0]
		ticket.SubscriberID = &representative
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, nil, fmt.Errorf("create ticket: %w", err)
	}

	s.publishEvent(ctx, events.Event{
		Type:          events.EventCrisisOpened,
		CrisisEventID: crisis.ID,
		Payload: events.CrisisOpenedPayload{
			RootDeviceID:        root.ID,
			OrganizationID:      root.OrganizationID,
			AffectedDevices:     radius.DeviceCount(),
			AffectedSubscribers: radius.SubscriberCount(),
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:          events.EventTicketOpened,
		CrisisEventID: crisis.ID,
		Payload: events.TicketOpenedPayload{
			TicketID:     ticket.ID,
			ExternalKey:  ticket.ExternalKey,
			SubscriberID: ticket.SubscriberID,
		},
	})

	return crisis, ticket, nil
}

// ResolveCrisis marks an ongoing crisis event as resolved.
func (s *IncidentService) ResolveCrisis(ctx context.Context, id string) (*domain.CrisisEvent, error) {
	now := time.Now().UTC()
	crisis, err := s.crises.Resolve(ctx, id, now)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:          events.EventCrisisResolved,
		CrisisEventID: crisis.ID,
		Payload: events.CrisisResolvedPayload{
			RootDeviceID: crisis.RootDeviceID,
			ResolvedAt:   now,
		},
	})
	return crisis, nil
}

// GetCrisis fetches a crisis event by id.
func (s *IncidentService) GetCrisis(ctx context.Context, id string) (*domain.CrisisEvent, error) {
	return s.crises.GetByID(ctx, id)
}

// ListCrises lists crisis events for operators.
func (s *IncidentService) ListCrises(ctx context.Context, filter repository.CrisisEventFilter) ([]domain.CrisisEvent, error) {
	return s.crises.List(ctx, filter)
}

// GetTicket fetches a ticket by id.
func (s *IncidentService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListTickets lists tickets for operators.
func (s *IncidentService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// HasOngoingForRoot reports whether an ongoing crisis event already
// references the root device. Used as the dedup fallback when the
// suppression store is unreachable.
func (s *IncidentService) HasOngoingForRoot(ctx context.Context, rootDeviceID string) (bool, error) {
	return s.crises.HasOngoingForRoot(ctx, rootDeviceID)
}

func buildCrisisDescription(root *domain.Device, radius domain.BlastRadius) string {
	subscriberList := "none"
	if len(radius.SubscriberIDs) > 0 {
		subscriberList = strings.Join(radius.SubscriberIDs, ", ")
	}
	return fmt.Sprintf("Device '%s' (%s) is offline. Affected subscribers: %d. Subscriber IDs: %s",
		root.Name, root.Type, len(radius.SubscriberIDs), subscriberList)
}

func buildTicketDescription(root *domain.Device, radius domain.BlastRadius, crisisEventID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Device '%s' (%s) has gone offline and is unreachable by the monitoring system.\n\n", root.Name, root.Type)
	fmt.Fprintf(&b, "Affected subscribers: %d\n", len(radius.SubscriberIDs))
	if len(radius.SubscriberIDs) > 0 {
		fmt.Fprintf(&b, "Subscriber IDs: %s\n", strings.Join(radius.SubscriberIDs, ", "))
	}
	if radius.Truncated {
		b.WriteString("Note: the topology traversal was truncated at its device ceiling; the subscriber list may be incomplete.\n")
	}
	fmt.Fprintf(&b, "\nCrisis event: %s", crisisEventID)
	return b.String()
}

func generateTicketKey() string {
	return "NOC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *IncidentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
