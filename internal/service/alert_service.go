package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/events"
	"github.com/spec-kit/outage-service/internal/observability"
	"github.com/spec-kit/outage-service/internal/repository"
)

// AlertResult classifies how a device-down alert was handled.
type AlertResult string

const (
	// AlertResultIncidentOpened means a crisis event and ticket were created.
	AlertResultIncidentOpened AlertResult = "incident_opened"
	// AlertResultDiscarded means the alert carried no usable device.
	AlertResultDiscarded AlertResult = "discarded"
	// AlertResultSuppressed means a duplicate alert was swallowed.
	AlertResultSuppressed AlertResult = "suppressed"
)

// DeviceDownInput is the semantic content of a monitoring alert.
type DeviceDownInput struct {
	DeviceIP string
	Source   string
}

// AlertOutcome reports what a device-down alert produced.
type AlertOutcome struct {
	Result      AlertResult
	RootDevice  *domain.Device
	Radius      domain.BlastRadius
	CrisisEvent *domain.CrisisEvent
	Ticket      *domain.Ticket
}

// AlertDeduper suppresses repeated alerts for one root device. MarkIfFirst
// returns true when no alert for the device was seen inside the current
// suppression window.
type AlertDeduper interface {
	MarkIfFirst(ctx context.Context, rootDeviceID string) (bool, error)
}

// AlertService is the webhook intake pipeline: resolve the alert IP to a
// device, suppress duplicates, walk the blast radius, raise the incident.
type AlertService struct {
	devices    repository.DeviceRepository
	radius     *RadiusService
	incidents  *IncidentService
	deduper    AlertDeduper
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// AlertDependencies bundles collaborators for the intake pipeline.
type AlertDependencies struct {
	DeviceRepo repository.DeviceRepository
	Radius     *RadiusService
	Incidents  *IncidentService
	Deduper    AlertDeduper
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewAlertService constructs the intake pipeline.
func NewAlertService(deps AlertDependencies) *AlertService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		devices:    deps.DeviceRepo,
		radius:     deps.Radius,
		incidents:  deps.Incidents,
		deduper:    deps.Deduper,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// HandleDeviceDown processes one device-down alert. A malformed or
// unresolvable alert is logged and discarded without error; only a
// persistence failure while creating the incident surfaces to the caller.
func (s *AlertService) HandleDeviceDown(ctx context.Context, input DeviceDownInput) (*AlertOutcome, error) {
	ip := strings.TrimSpace(input.DeviceIP)
	if ip == "" {
		s.logger.Warn("device-down alert missing device ip; discarding",
			zap.String("source", input.Source))
		s.metrics.RecordAlert(string(AlertResultDiscarded))
		return &AlertOutcome{Result: AlertResultDiscarded}, nil
	}

	device, err := s.devices.GetByAssignedIP(ctx, ip)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("no device assigned to alert ip; discarding",
				zap.String("device_ip", ip))
			s.metrics.RecordAlert(string(AlertResultDiscarded))
			return &AlertOutcome{Result: AlertResultDiscarded}, nil
		}
		return nil, fmt.Errorf("resolve device by ip: %w", err)
	}

	if s.isDuplicate(ctx, device.ID) {
		s.logger.Info("duplicate device-down alert suppressed",
			zap.String("root_device_id", device.ID),
			zap.String("device_ip", ip))
		s.metrics.RecordAlert(string(AlertResultSuppressed))
		s.publishSuppressed(ctx, device.ID, ip)
		return &AlertOutcome{Result: AlertResultSuppressed, RootDevice: device}, nil
	}

	radius, err := s.radius.Resolve(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve blast radius: %w", err)
	}
	s.metrics.ObserveRadius(radius.DeviceCount(), radius.SubscriberCount())

	crisis, ticket, err := s.incidents.Compose(ctx, device, radius)
	if err != nil {
		return nil, err
	}

	s.logger.Info("outage incident opened",
		zap.String("root_device_id", device.ID),
		zap.String("crisis_event_id", crisis.ID),
		zap.String("ticket_id", ticket.ID),
		zap.Int("affected_devices", radius.DeviceCount()),
		zap.Int("affected_subscribers", radius.SubscriberCount()),
		zap.Bool("truncated", radius.Truncated),
	)
	s.metrics.RecordAlert(string(AlertResultIncidentOpened))
	s.metrics.RecordIncidentOpened()

	return &AlertOutcome{
		Result:      AlertResultIncidentOpened,
		RootDevice:  device,
		Radius:      radius,
		CrisisEvent: crisis,
		Ticket:      ticket,
	}, nil
}

// isDuplicate checks the suppression store, falling back to "is there an
// ongoing crisis event for this root" when the store is unreachable. A
// failure of both checks lets the alert through: a duplicate incident is
// cheaper than a missed outage.
func (s *AlertService) isDuplicate(ctx context.Context, rootDeviceID string) bool {
	if s.deduper == nil {
		return false
	}
	first, err := s.deduper.MarkIfFirst(ctx, rootDeviceID)
	if err == nil {
		return !first
	}

	s.logger.Warn("alert dedup store unavailable; falling back to crisis lookup",
		zap.String("root_device_id", rootDeviceID), zap.Error(err))
	ongoing, ferr := s.incidents.HasOngoingForRoot(ctx, rootDeviceID)
	if ferr != nil {
		s.logger.Warn("dedup fallback lookup failed; alert passes through",
			zap.String("root_device_id", rootDeviceID), zap.Error(ferr))
		return false
	}
	return ongoing
}

func (s *AlertService) publishSuppressed(ctx context.Context, rootDeviceID, ip string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAlertSuppressed,
		Timestamp: time.Now(),
		Payload: events.AlertSuppressedPayload{
			RootDeviceID: rootDeviceID,
			DeviceIP:     ip,
		},
	})
}
