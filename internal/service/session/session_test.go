package session

import (
	"context"
	"errors"
	"testing"

	"github.com/ashwinyue/next-chat/internal/service/types"
)

func TestRegisterRejectsConcurrentGeneration(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	_, err := m.Register(ctx, "s1", func() {})
	if err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	_, err = m.Register(ctx, "s1", func() {})
	if !errors.Is(err, types.ErrGenerationInProgress) {
		t.Fatalf("expected ErrGenerationInProgress, got %v", err)
	}

	// 其它会话不受影响
	if _, err := m.Register(ctx, "s2", func() {}); err != nil {
		t.Errorf("Register for another session failed: %v", err)
	}
}

func TestUnregisterAllowsNewGeneration(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	if _, err := m.Register(ctx, "s1", func() {}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	m.Unregister(ctx, "s1")

	if m.IsActive("s1") {
		t.Error("expected session inactive after Unregister")
	}
	if _, err := m.Register(ctx, "s1", func() {}); err != nil {
		t.Errorf("Register after Unregister failed: %v", err)
	}
}

func TestCancelInvokesCancelFunc(t *testing.T) {
	m := NewManager(nil)
	ctx := context.Background()

	cancelled := false
	if _, err := m.Register(ctx, "s1", func() { cancelled = true }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !m.Cancel("s1") {
		t.Fatal("expected Cancel to find the active generation")
	}
	if !cancelled {
		t.Error("expected cancel func to be invoked")
	}

	if m.Cancel("unknown") {
		t.Error("expected Cancel to return false for unknown session")
	}
}

func TestActiveStreamAccumulatesContent(t *testing.T) {
	m := NewManager(nil)
	stream, err := m.Register(context.Background(), "s1", func() {})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	stream.AppendChunk("Hello")
	stream.AppendChunk(", world")

	if got := stream.Content(); got != "Hello, world" {
		t.Errorf("unexpected content %q", got)
	}
}
