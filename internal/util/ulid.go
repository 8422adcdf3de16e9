package util

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewULID generates a new ULID string.
// The shared monotonic entropy source guarantees that ids generated within
// the same millisecond still sort and never collide.
func NewULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewPrefixedID returns prefix followed by a new ULID, e.g. "QID-01J...".
func NewPrefixedID(prefix string) string {
	return prefix + NewULID()
}
