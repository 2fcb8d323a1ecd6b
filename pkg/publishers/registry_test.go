package publishers

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryPublisherFor(t *testing.T) {
	reg := NewRegistry(map[string]Builder{
		"fake": func(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
			return &fakePublisher{id: cfg.ID, typ: cfg.Type}, nil
		},
	})

	pub, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "a", Type: "FAKE"}, nil)
	if err != nil {
		t.Fatalf("PublisherFor: %v", err)
	}
	if pub.ID() != "a" {
		t.Fatalf("wrong publisher built: %s", pub.ID())
	}

	if _, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "b", Type: "unknown"}, nil); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
	if _, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "c"}, nil); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestBuildAllStopsOnFirstFailure(t *testing.T) {
	boom := errors.New("bad config")
	reg := NewRegistry(map[string]Builder{
		"fake": func(_ context.Context, cfg PublisherConfig, _ Logger) (Publisher, error) {
			if cfg.ID == "broken" {
				return nil, boom
			}
			return &fakePublisher{id: cfg.ID, typ: cfg.Type}, nil
		},
	})

	cfgs := []PublisherConfig{
		{ID: "ok", Type: "fake"},
		{ID: "broken", Type: "fake"},
	}
	if _, err := BuildAll(context.Background(), reg, cfgs, nil); !errors.Is(err, boom) {
		t.Fatalf("expected builder error, got %v", err)
	}

	pubs, err := BuildAll(context.Background(), reg, cfgs[:1], nil)
	if err != nil || len(pubs) != 1 {
		t.Fatalf("expected 1 publisher, got %d (%v)", len(pubs), err)
	}
}

// fakeSender implements queueSender for dispatch tests.
type fakeSender struct {
	events []Event
	err    error
}

func (f *fakeSender) Send(_ context.Context, evt Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func TestQueuePublisherDispatch(t *testing.T) {
	sender := &fakeSender{}
	pub := &queuePublisher{
		id:       "q",
		typ:      TypeQueue,
		provider: QueueProviderAWSSQS,
		sender:   sender,
		log:      ensureLogger(nil),
	}

	if err := pub.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(sender.events) != 1 {
		t.Fatalf("sender not invoked")
	}

	pub.sender = &fakeSender{err: errors.New("down")}
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected sender failure to surface")
	}

	pub.sender = nil
	if err := pub.Publish(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error for missing sender")
	}
}
