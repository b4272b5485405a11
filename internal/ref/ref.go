// Package ref generates human-readable booking references.
// A reference looks like "VDT-20260901-482913": a fixed alphanumeric prefix,
// the creation date, and a random numeric suffix. Uniqueness is ultimately
// enforced by the database's unique constraint on bookings.reference; the
// random suffix only makes collisions practically impossible.
package ref

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

const prefix = "VDT"

// Generator produces booking references. The interface exists so tests can
// substitute a deterministic implementation.
type Generator interface {
	New(at time.Time) string
}

// RandomGenerator is the production Generator, backed by crypto/rand.
type RandomGenerator struct{}

// New returns a reference derived from the creation time plus six random digits.
func (RandomGenerator) New(at time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	n := binary.BigEndian.Uint32(b[:]) % 1_000_000
	return fmt.Sprintf("%s-%s-%06d", prefix, at.UTC().Format("20060102"), n)
}
