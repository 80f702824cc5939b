package matchpoint

import (
	"testing"

	"github.com/matchpoint/client-go/internal/api"
)

func TestSubscriptionManager_NotifyReachesSubscribers(t *testing.T) {
	m := newSubscriptionManager()

	var got []string
	unsub := m.subscribe("c1", func(msg *Message) {
		got = append(got, msg.ID)
	})
	defer unsub()

	m.notify("c1", &api.Message{ID: "m1"})
	m.notify("c2", &api.Message{ID: "other"})

	if len(got) != 1 || got[0] != "m1" {
		t.Errorf("delivered = %v, want [m1]", got)
	}
}

func TestSubscriptionManager_UnsubscribeStopsDelivery(t *testing.T) {
	m := newSubscriptionManager()

	calls := 0
	unsub := m.subscribe("c1", func(*Message) { calls++ })

	m.notify("c1", &api.Message{ID: "m1"})
	unsub()
	unsub() // safe to call twice
	m.notify("c1", &api.Message{ID: "m2"})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if m.count("c1") != 0 {
		t.Errorf("count = %d after unsubscribe, want 0", m.count("c1"))
	}
}

func TestSubscriptionManager_CountPerConversation(t *testing.T) {
	m := newSubscriptionManager()

	unsub1 := m.subscribe("c1", func(*Message) {})
	unsub2 := m.subscribe("c1", func(*Message) {})
	defer unsub2()
	m.subscribe("c2", func(*Message) {})

	if m.count("c1") != 2 {
		t.Errorf("count(c1) = %d, want 2", m.count("c1"))
	}
	unsub1()
	if m.count("c1") != 1 {
		t.Errorf("count(c1) after unsubscribe = %d, want 1", m.count("c1"))
	}
	if m.count("absent") != 0 {
		t.Errorf("count(absent) = %d, want 0", m.count("absent"))
	}
}

func TestSubscriptionManager_ClearRemovesEverything(t *testing.T) {
	m := newSubscriptionManager()

	calls := 0
	m.subscribe("c1", func(*Message) { calls++ })
	m.subscribe("c2", func(*Message) { calls++ })

	m.clear()
	m.notify("c1", &api.Message{ID: "m1"})
	m.notify("c2", &api.Message{ID: "m2"})

	if calls != 0 {
		t.Errorf("calls after clear = %d, want 0", calls)
	}
	if m.count("c1") != 0 || m.count("c2") != 0 {
		t.Error("subscriptions survived clear")
	}
}
