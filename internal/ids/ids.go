// Package ids provides the id-generation capability injected into the planner.
package ids

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator hands out unique, opaque identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random (v4) UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence generates predictable ids ("prefix-1", "prefix-2", ...). Useful in tests
// and anywhere a stable ordering of ids is wanted.
type Sequence struct {
	prefix string
	next   atomic.Uint64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.prefix, s.next.Add(1))
}
