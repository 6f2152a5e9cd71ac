package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/repository"
)

const defaultMaxDevices = 5000

// RadiusService computes outage blast radii over the device topology.
type RadiusService struct {
	devices     repository.DeviceRepository
	subscribers repository.SubscriberRepository
	maxDevices  int
	logger      *zap.Logger
}

// RadiusDependencies bundles collaborators for the resolver.
type RadiusDependencies struct {
	DeviceRepo     repository.DeviceRepository
	SubscriberRepo repository.SubscriberRepository
	MaxDevices     int
	Logger         *zap.Logger
}

// NewRadiusService constructs the resolver.
func NewRadiusService(deps RadiusDependencies) *RadiusService {
	maxDevices := deps.MaxDevices
	if maxDevices <= 0 {
		maxDevices = defaultMaxDevices
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RadiusService{
		devices:     deps.DeviceRepo,
		subscribers: deps.SubscriberRepo,
		maxDevices:  maxDevices,
		logger:      logger,
	}
}

// Resolve walks the topology downstream from rootDeviceID and returns the
// full set of affected devices plus the subscribers attached to CPE devices
// inside that set, ordered by first discovery.
//
// The walk is breadth-first over a FIFO queue with an explicit visited set
// keyed on device id, so it terminates even when bad data has turned the
// forest into a graph with a cycle. A device id that no longer resolves to
// a record is a dead end for that branch, never a failure of the whole
// traversal: an incomplete topology must still yield a partial blast
// radius. The only errors returned are context cancellation.
func (s *RadiusService) Resolve(ctx context.Context, rootDeviceID string) (domain.BlastRadius, error) {
	radius := domain.BlastRadius{
		RootDeviceID: rootDeviceID,
		DeviceIDs:    make(map[string]struct{}),
	}
	seenSubscribers := make(map[string]struct{})

	queue := []string{rootDeviceID}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return radius, err
		}

		deviceID := queue[0]
		queue = queue[1:]
		if _, visited := radius.DeviceIDs[deviceID]; visited {
			continue
		}
		if len(radius.DeviceIDs) >= s.maxDevices {
			radius.Truncated = true
			s.logger.Warn("blast radius traversal hit device ceiling",
				zap.String("root_device_id", rootDeviceID),
				zap.Int("max_devices", s.maxDevices))
			break
		}
		radius.DeviceIDs[deviceID] = struct{}{}

		device, err := s.devices.GetByID(ctx, deviceID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				s.logger.Warn("device lookup failed; dropping branch",
					zap.String("device_id", deviceID), zap.Error(err))
			}
			continue
		}

		if device.Type == domain.DeviceTypeCPE {
			s.collectSubscriber(ctx, device.ID, seenSubscribers, &radius)
		}

		children, err := s.devices.ListByParent(ctx, device.ID)
		if err != nil {
			s.logger.Warn("child device query failed; dropping branch",
				zap.String("device_id", device.ID), zap.Error(err))
			continue
		}
		for _, child := range children {
			if _, visited := radius.DeviceIDs[child.ID]; !visited {
				queue = append(queue, child.ID)
			}
		}
	}

	return radius, nil
}

// collectSubscriber appends the subscriber bound to a CPE device, if any.
// Each CPE maps to at most one subscriber, but the accumulator still
// dedupes in case bad data binds one subscriber to several CPEs.
func (s *RadiusService) collectSubscriber(ctx context.Context, deviceID string, seen map[string]struct{}, radius *domain.BlastRadius) {
	sub, err := s.subscribers.GetByCPEDevice(ctx, deviceID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("subscriber lookup failed",
				zap.String("cpe_device_id", deviceID), zap.Error(err))
		}
		return
	}
	if _, dup := seen[sub.ID]; dup {
		return
	}
	seen[sub.ID] = struct{}{}
	radius.SubscriberIDs = append(radius.SubscriberIDs, sub.ID)
}
