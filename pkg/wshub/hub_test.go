package wshub

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldworks/fleet-tracking/pkg/logger"
	"github.com/google/uuid"
)

func newTestHub() *Hub {
	return NewHub(logger.InitLogger("wshub-test", logger.LevelError))
}

func TestHub_AddReplacesExistingConnection(t *testing.T) {
	hub := newTestHub()
	clientID := uuid.New()

	first := NewConn(context.Background(), clientID, nil)
	second := NewConn(context.Background(), clientID, nil)

	if err := hub.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := hub.Add(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := hub.Len(); got != 1 {
		t.Fatalf("expected 1 connection after replacement, got %d", got)
	}
	// The replaced connection must be closed so its read loop terminates.
	select {
	case <-first.doneCtx.Done():
	default:
		t.Fatal("expected the replaced connection to be closed")
	}
}

func TestHub_StaleRemoveKeepsReplacement(t *testing.T) {
	hub := newTestHub()
	clientID := uuid.New()

	first := NewConn(context.Background(), clientID, nil)
	second := NewConn(context.Background(), clientID, nil)

	if err := hub.Add(first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := hub.Add(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The first handler's cleanup runs after its connection was replaced.
	// It must not evict the replacement.
	if err := hub.Remove(first); !errors.Is(err, ErrConnIsNotFound) {
		t.Fatalf("expected ErrConnIsNotFound for a replaced connection, got %v", err)
	}
	if got := hub.Len(); got != 1 {
		t.Fatalf("expected the replacement connection to stay registered, hub has %d conns", got)
	}

	// The replacement's own cleanup still works.
	if err := hub.Remove(second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := hub.Len(); got != 0 {
		t.Fatalf("expected empty hub, got %d conns", got)
	}
}

func TestHub_RemoveNilConn(t *testing.T) {
	hub := newTestHub()
	if err := hub.Remove(nil); !errors.Is(err, ErrEmptyConn) {
		t.Fatalf("expected ErrEmptyConn, got %v", err)
	}
}
