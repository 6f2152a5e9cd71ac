package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/outage-service/internal/domain"
)

type alertFixture struct {
	devices     *fakeDeviceRepo
	subscribers *fakeSubscriberRepo
	crises      *fakeCrisisRepo
	tickets     *fakeTicketRepo
	deduper     *fakeDeduper
	svc         *AlertService
}

func newAlertFixture() *alertFixture {
	devices := newFakeDeviceRepo()
	subscribers := newFakeSubscriberRepo()
	crises := newFakeCrisisRepo()
	tickets := &fakeTicketRepo{}
	deduper := newFakeDeduper()

	radius := NewRadiusService(RadiusDependencies{
		DeviceRepo:     devices,
		SubscriberRepo: subscribers,
	})
	incidents := NewIncidentService(IncidentDependencies{
		CrisisRepo: crises,
		TicketRepo: tickets,
	})
	svc := NewAlertService(AlertDependencies{
		DeviceRepo: devices,
		Radius:     radius,
		Incidents:  incidents,
		Deduper:    deduper,
	})

	return &alertFixture{
		devices:     devices,
		subscribers: subscribers,
		crises:      crises,
		tickets:     tickets,
		deduper:     deduper,
		svc:         svc,
	}
}

// seedOutage builds a small topology reachable from 10.0.0.1.
func (f *alertFixture) seedOutage() {
	f.devices.add("d1", "Switch-1", domain.DeviceTypeSwitch, nil)
	f.devices.add("d2", "CPE-1", domain.DeviceTypeCPE, strPtr("d1"))
	f.devices.byIP["10.0.0.1"] = "d1"
	f.subscribers.bind("sub-1", "d2")
}

func TestHandleDeviceDownMissingIP(t *testing.T) {
	f := newAlertFixture()

	outcome, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "   ", Source: "uptime-kuma"})
	if err != nil {
		t.Fatalf("HandleDeviceDown failed: %v", err)
	}
	if outcome.Result != AlertResultDiscarded {
		t.Fatalf("expected discarded, got %s", outcome.Result)
	}
	if len(f.crises.created) != 0 {
		t.Fatalf("no crisis must be created for an empty ip")
	}
}

func TestHandleDeviceDownUnknownIP(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()

	outcome, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "192.0.2.99"})
	if err != nil {
		t.Fatalf("HandleDeviceDown failed: %v", err)
	}
	if outcome.Result != AlertResultDiscarded {
		t.Fatalf("expected discarded for unknown ip, got %s", outcome.Result)
	}
}

func TestHandleDeviceDownOpensIncident(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()

	outcome, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("HandleDeviceDown failed: %v", err)
	}
	if outcome.Result != AlertResultIncidentOpened {
		t.Fatalf("expected incident_opened, got %s", outcome.Result)
	}
	if outcome.CrisisEvent == nil || outcome.Ticket == nil {
		t.Fatalf("expected crisis and ticket on outcome")
	}
	if outcome.RootDevice == nil || outcome.RootDevice.ID != "d1" {
		t.Fatalf("expected root device d1, got %+v", outcome.RootDevice)
	}
	if outcome.Radius.DeviceCount() != 2 {
		t.Fatalf("expected radius of 2 devices, got %d", outcome.Radius.DeviceCount())
	}
	if len(outcome.CrisisEvent.AffectedSubscriberIDs) != 1 {
		t.Fatalf("expected 1 affected subscriber, got %v", outcome.CrisisEvent.AffectedSubscriberIDs)
	}
}

func TestHandleDeviceDownSuppressesDuplicate(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()

	first, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("first alert failed: %v", err)
	}
	if first.Result != AlertResultIncidentOpened {
		t.Fatalf("expected first alert to open an incident, got %s", first.Result)
	}

	second, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("second alert failed: %v", err)
	}
	if second.Result != AlertResultSuppressed {
		t.Fatalf("expected second alert suppressed, got %s", second.Result)
	}
	if len(f.crises.created) != 1 || len(f.tickets.created) != 1 {
		t.Fatalf("expected exactly one incident, got %d crises and %d tickets", len(f.crises.created), len(f.tickets.created))
	}
}

// When the suppression store errors, the ongoing-crisis lookup takes
// over: an ongoing crisis still suppresses, none lets the alert pass.
func TestHandleDeviceDownDedupFallback(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()
	f.deduper.err = errStoreDown

	outcome, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("first alert failed: %v", err)
	}
	if outcome.Result != AlertResultIncidentOpened {
		t.Fatalf("expected pass-through with no ongoing crisis, got %s", outcome.Result)
	}

	outcome, err = f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("second alert failed: %v", err)
	}
	if outcome.Result != AlertResultSuppressed {
		t.Fatalf("expected fallback suppression from ongoing crisis, got %s", outcome.Result)
	}
}

// Both dedup paths failing must not drop the alert.
func TestHandleDeviceDownDedupDoubleFailurePassesThrough(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()
	f.deduper.err = errStoreDown
	f.crises.failHas = errors.New("db down")

	outcome, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("HandleDeviceDown failed: %v", err)
	}
	if outcome.Result != AlertResultIncidentOpened {
		t.Fatalf("expected alert to pass through, got %s", outcome.Result)
	}
}

func TestHandleDeviceDownPersistenceFailureSurfaces(t *testing.T) {
	f := newAlertFixture()
	f.seedOutage()
	f.crises.failCreate = errStoreDown

	_, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected persistence error to surface, got %v", err)
	}
}

func TestHandleDeviceDownLookupFailureSurfaces(t *testing.T) {
	f := newAlertFixture()
	f.devices.failByIP = errors.New("db down")

	_, err := f.svc.HandleDeviceDown(context.Background(), DeviceDownInput{DeviceIP: "10.0.0.1"})
	if err == nil {
		t.Fatalf("expected ip lookup failure to surface")
	}
}
