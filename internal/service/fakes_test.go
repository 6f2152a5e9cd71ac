package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/outage-service/internal/domain"
	"github.com/spec-kit/outage-service/internal/repository"
)

// fakeDeviceRepo serves a topology held in memory. Missing ids behave
// like the real repository: pgx.ErrNoRows from the point lookups.
type fakeDeviceRepo struct {
	devices     map[string]domain.Device
	byIP        map[string]string
	failGetByID map[string]error
	failList    map[string]error
	failByIP    error
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		devices:     make(map[string]domain.Device),
		byIP:        make(map[string]string),
		failGetByID: make(map[string]error),
		failList:    make(map[string]error),
	}
}

func (f *fakeDeviceRepo) add(id, name string, deviceType domain.DeviceType, parentID *string) {
	f.devices[id] = domain.Device{
		ID:             id,
		Name:           name,
		Type:           deviceType,
		ParentID:       parentID,
		OrganizationID: "org-1",
	}
}

func (f *fakeDeviceRepo) GetByID(_ context.Context, id string) (*domain.Device, error) {
	if err, ok := f.failGetByID[id]; ok {
		return nil, err
	}
	device, ok := f.devices[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &device, nil
}

func (f *fakeDeviceRepo) ListByParent(_ context.Context, parentID string) ([]domain.Device, error) {
	if err, ok := f.failList[parentID]; ok {
		return nil, err
	}
	var children []domain.Device
	for _, device := range f.devices {
		if device.ParentID != nil && *device.ParentID == parentID {
			children = append(children, device)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children, nil
}

func (f *fakeDeviceRepo) GetByAssignedIP(_ context.Context, address string) (*domain.Device, error) {
	if f.failByIP != nil {
		return nil, f.failByIP
	}
	id, ok := f.byIP[address]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	device := f.devices[id]
	return &device, nil
}

func (f *fakeDeviceRepo) Create(_ context.Context, device *domain.Device) error {
	f.devices[device.ID] = *device
	return nil
}

func (f *fakeDeviceRepo) AssignIP(_ context.Context, assignment domain.IPAssignment) error {
	f.byIP[assignment.Address] = assignment.DeviceID
	return nil
}

type fakeSubscriberRepo struct {
	byCPE map[string]domain.Subscriber
	fail  map[string]error
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{
		byCPE: make(map[string]domain.Subscriber),
		fail:  make(map[string]error),
	}
}

func (f *fakeSubscriberRepo) bind(subscriberID, cpeDeviceID string) {
	f.byCPE[cpeDeviceID] = domain.Subscriber{
		ID:             subscriberID,
		Name:           "Subscriber " + subscriberID,
		CPEDeviceID:    &cpeDeviceID,
		OrganizationID: "org-1",
	}
}

func (f *fakeSubscriberRepo) GetByCPEDevice(_ context.Context, deviceID string) (*domain.Subscriber, error) {
	if err, ok := f.fail[deviceID]; ok {
		return nil, err
	}
	sub, ok := f.byCPE[deviceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &sub, nil
}

func (f *fakeSubscriberRepo) Create(_ context.Context, subscriber *domain.Subscriber) error {
	if subscriber.CPEDeviceID != nil {
		f.byCPE[*subscriber.CPEDeviceID] = *subscriber
	}
	return nil
}

type fakeCrisisRepo struct {
	created    []*domain.CrisisEvent
	failCreate error
	ongoing    map[string]bool
	failHas    error
}

func newFakeCrisisRepo() *fakeCrisisRepo {
	return &fakeCrisisRepo{ongoing: make(map[string]bool)}
}

func (f *fakeCrisisRepo) Create(_ context.Context, event *domain.CrisisEvent) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	event.ID = uuid.NewString()
	if event.AffectedSubscriberIDs == nil {
		event.AffectedSubscriberIDs = []string{}
	}
	f.created = append(f.created, event)
	f.ongoing[event.RootDeviceID] = true
	return nil
}

func (f *fakeCrisisRepo) GetByID(_ context.Context, id string) (*domain.CrisisEvent, error) {
	for _, event := range f.created {
		if event.ID == id {
			return event, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCrisisRepo) List(_ context.Context, _ repository.CrisisEventFilter) ([]domain.CrisisEvent, error) {
	out := make([]domain.CrisisEvent, 0, len(f.created))
	for _, event := range f.created {
		out = append(out, *event)
	}
	return out, nil
}

func (f *fakeCrisisRepo) HasOngoingForRoot(_ context.Context, rootDeviceID string) (bool, error) {
	if f.failHas != nil {
		return false, f.failHas
	}
	return f.ongoing[rootDeviceID], nil
}

func (f *fakeCrisisRepo) Resolve(_ context.Context, id string, at time.Time) (*domain.CrisisEvent, error) {
	for _, event := range f.created {
		if event.ID == id && event.Status == domain.CrisisStatusOngoing {
			event.Status = domain.CrisisStatusResolved
			event.ResolvedAt = &at
			f.ongoing[event.RootDeviceID] = false
			return event, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeTicketRepo struct {
	created    []*domain.Ticket
	failCreate error
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	ticket.ID = uuid.NewString()
	f.created = append(f.created, ticket)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	for _, ticket := range f.created {
		if ticket.ID == id {
			return ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTicketRepo) List(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	out := make([]domain.Ticket, 0, len(f.created))
	for _, ticket := range f.created {
		out = append(out, *ticket)
	}
	return out, nil
}

// fakeDeduper mimics the SetNX semantics of the suppression store.
type fakeDeduper struct {
	seen map[string]bool
	err  error
}

func newFakeDeduper() *fakeDeduper {
	return &fakeDeduper{seen: make(map[string]bool)}
}

func (f *fakeDeduper) MarkIfFirst(_ context.Context, rootDeviceID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[rootDeviceID] {
		return false, nil
	}
	f.seen[rootDeviceID] = true
	return true, nil
}

var errStoreDown = errors.New("store down")
