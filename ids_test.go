package xpay

import (
	"strings"
	"testing"
)

func TestNewEventID(t *testing.T) {
	id := NewEventID()
	if !strings.HasPrefix(id, "evt_") {
		t.Errorf("Expected evt_ prefix, got %s", id)
	}
	if len(id) != len("evt_")+32 {
		t.Errorf("Expected 32 hex chars after the prefix, got %d", len(id)-len("evt_"))
	}
	if NewEventID() == id {
		t.Error("Expected unique ids")
	}
}

func TestNewIdempotencyKey(t *testing.T) {
	key := NewIdempotencyKey()
	if !strings.HasPrefix(key, "idk_") {
		t.Errorf("Expected idk_ prefix, got %s", key)
	}
}
