package ref_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sucrepapii/Vadtrans-sub000/internal/ref"
)

func TestRandomGenerator_Format(t *testing.T) {
	at := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

	got := ref.RandomGenerator{}.New(at)

	assert.Regexp(t, regexp.MustCompile(`^VDT-20260901-\d{6}$`), got)
}

func TestRandomGenerator_VariesAcrossCalls(t *testing.T) {
	at := time.Now()
	gen := ref.RandomGenerator{}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[gen.New(at)] = true
	}

	// 50 draws from a million-value space should essentially never collide
	// down to a single value; a frozen suffix would.
	assert.Greater(t, len(seen), 1)
}
