package util

import "github.com/google/uuid"

// NewID returns a random unique identifier for persisted rows.
func NewID() string {
	return uuid.NewString()
}
