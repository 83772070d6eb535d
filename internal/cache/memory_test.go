package cache

import (
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory(time.Minute, 0)
	m.Set("article", "1", "body")
	v, ok := m.Get("article", "1")
	if !ok || v.(string) != "body" {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}
	if _, ok := m.Get("hub", "1"); ok {
		t.Fatalf("prefixes must not collide")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", m.Len())
	}
	m.Flush()
	if _, ok := m.Get("article", "1"); ok {
		t.Fatalf("expected miss after flush")
	}
}

func TestMemory_Expires(t *testing.T) {
	m := NewMemory(20*time.Millisecond, 0)
	m.Set("article", "1", 1)
	time.Sleep(40 * time.Millisecond)
	if _, ok := m.Get("article", "1"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestMemory_NilIsDisabled(t *testing.T) {
	var m *Memory
	m.Set("a", "b", 1)
	if _, ok := m.Get("a", "b"); ok {
		t.Fatalf("nil cache must always miss")
	}
	m.Flush()
	if m.Len() != 0 {
		t.Fatalf("nil cache has no entries")
	}
}
