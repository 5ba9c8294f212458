package model

import (
	"fmt"

	"github.com/google/uuid"
)

// IDSource hands out opaque unique identifiers for model entities.
// Injecting the source keeps edit operations deterministic under test.
type IDSource interface {
	NewID() string
}

// UUIDSource issues random UUID identifiers. The zero value is ready
// to use.
type UUIDSource struct{}

// NewID returns a random UUID string.
func (UUIDSource) NewID() string {
	return uuid.NewString()
}

// SequenceSource issues sequential identifiers with a fixed prefix, so
// a test or replay run produces the same ids every time. The zero
// value starts at 1 with the prefix "id".
type SequenceSource struct {
	Prefix string
	next   int
}

// NewID returns the next identifier in the sequence.
func (s *SequenceSource) NewID() string {
	s.next++
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s_%d", prefix, s.next)
}
