package utils

import "github.com/google/uuid"

// NewID returns a fresh identifier for any persisted record.
func NewID() string { return uuid.NewString() }
