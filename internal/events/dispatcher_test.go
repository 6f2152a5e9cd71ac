package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventCrisisOpened, func(_ context.Context, _ Event) error {
		calls = append(calls, "first")
		return nil
	})
	d.Subscribe(EventCrisisOpened, func(_ context.Context, _ Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventTicketOpened, func(_ context.Context, _ Event) error {
		calls = append(calls, "other")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventCrisisOpened}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("expected [first second], got %v", calls)
	}
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	reached := false
	d.Subscribe(EventAlertSuppressed, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventAlertSuppressed, func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventAlertSuppressed}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if !reached {
		t.Fatalf("expected later handler to run after an earlier failure")
	}
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventCrisisResolved}); err != nil {
		t.Fatalf("Publish with no subscribers must not fail: %v", err)
	}
}
