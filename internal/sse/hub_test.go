package sse

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub()

	if hub.ClientCount() != 0 {
		t.Fatalf("new hub has %d clients, want 0", hub.ClientCount())
	}

	client := hub.Register("site-1-user-1")
	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", hub.ClientCount())
	}

	hub.Unregister("site-1-user-1")
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount after unregister = %d, want 0", hub.ClientCount())
	}

	if _, ok := <-client.Events; ok {
		t.Error("expected client channel to be closed after unregister")
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	a := hub.Register("a")
	b := hub.Register("b")

	hub.Broadcast(&StockEvent{
		Event:       EventBackorder,
		SiteID:      1,
		ProductID:   42,
		ProductCUG:  "CUG001",
		StockStatus: "out_of_stock",
		Timestamp:   time.Now(),
	})

	for _, client := range []*Client{a, b} {
		select {
		case data := <-client.Events:
			var event StockEvent
			if err := json.Unmarshal(data, &event); err != nil {
				t.Fatalf("client %s received invalid JSON: %v", client.ID, err)
			}
			if event.Event != EventBackorder {
				t.Errorf("client %s event = %s, want %s", client.ID, event.Event, EventBackorder)
			}
			if event.ProductID != 42 {
				t.Errorf("client %s productId = %d, want 42", client.ID, event.ProductID)
			}
		default:
			t.Fatalf("client %s received no event", client.ID)
		}
	}
}

func TestHubBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client := hub.Register("slow")

	// Fill the buffer without draining, then overflow it.
	for i := 0; i < 70; i++ {
		hub.Broadcast(&StockEvent{Event: EventMovementRecorded, SiteID: 1})
	}

	// The client keeps the first 64 events; the rest were dropped without
	// blocking the broadcaster.
	if got := len(client.Events); got != 64 {
		t.Errorf("buffered events = %d, want 64", got)
	}
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	hub := NewHub()
	hub.Unregister("never-registered")
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", hub.ClientCount())
	}
}
