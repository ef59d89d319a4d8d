package xpay

import (
	"strings"

	"github.com/google/uuid"
)

// NewEventID generates a unique identifier for a verified payment event.
//
// The generated ID format is: "evt_" + UUID v4 without hyphens (32 hex chars)
// Example: "evt_7d5d747be160e280504c099d984bcfe0"
func NewEventID() string {
	return newID("evt_")
}

// NewIdempotencyKey generates a key for deduplicating run submissions.
func NewIdempotencyKey() string {
	return newID("idk_")
}

func newID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.New().String(), "-", "")
}
