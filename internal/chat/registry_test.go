package chat

import (
	"testing"
	"time"

	"github.com/tejasnaik/watcharr/internal/assistant"
)

func TestRegistryLifecycle(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create(&assistant.Conversation{Model: "test-model"})

	if sess.ID == "" {
		t.Fatal("Expected a generated session id")
	}
	if registry.Len() != 1 {
		t.Fatalf("Expected 1 session, got %d", registry.Len())
	}

	got, ok := registry.Get(sess.ID)
	if !ok || got != sess {
		t.Fatal("Get did not return the created session")
	}

	if _, ok := registry.Get("missing"); ok {
		t.Error("Expected lookup miss for unknown id")
	}

	registry.Destroy(sess.ID)
	registry.Destroy(sess.ID) // no-op
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", registry.Len())
	}
}

func TestEvictIdle(t *testing.T) {
	registry := NewRegistry()
	stale := registry.Create(&assistant.Conversation{})
	fresh := registry.Create(&assistant.Conversation{})

	stale.LastActive = time.Now().Add(-time.Hour)

	if evicted := registry.EvictIdle(30 * time.Minute); evicted != 1 {
		t.Fatalf("Expected 1 eviction, got %d", evicted)
	}
	if _, ok := registry.Get(stale.ID); ok {
		t.Error("Stale session should be gone")
	}
	if _, ok := registry.Get(fresh.ID); !ok {
		t.Error("Fresh session should survive")
	}
}

func TestGetMarksSessionActive(t *testing.T) {
	registry := NewRegistry()
	sess := registry.Create(&assistant.Conversation{})
	sess.LastActive = time.Now().Add(-time.Hour)

	registry.Get(sess.ID)

	if evicted := registry.EvictIdle(30 * time.Minute); evicted != 0 {
		t.Errorf("Recently used session was evicted (%d)", evicted)
	}
}
