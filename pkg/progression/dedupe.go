package progression

import (
	"sync"

	"github.com/spaolacci/murmur3"
)

// Deduper suppresses event replays across the collaborator sync boundary.
// It keeps a bounded ring of 128-bit event digests; once the ring wraps,
// the oldest digests are forgotten, which bounds memory at the cost of
// re-admitting very old replays.
type Deduper struct {
	mu   sync.Mutex
	seen map[[2]uint64]struct{}
	ring [][2]uint64
	next int
	full bool
}

// NewDeduper creates a Deduper remembering the most recent size digests.
func NewDeduper(size int) *Deduper {
	if size <= 0 {
		size = 1
	}
	return &Deduper{
		seen: make(map[[2]uint64]struct{}, size),
		ring: make([][2]uint64, size),
	}
}

// Seen records the (user, event) pair and reports whether it was already
// present.
func (d *Deduper) Seen(userID, eventID string) bool {
	h1, h2 := murmur3.Sum128([]byte(userID + "|" + eventID))
	key := [2]uint64{h1, h2}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.full {
		delete(d.seen, d.ring[d.next])
	}
	d.ring[d.next] = key
	d.seen[key] = struct{}{}
	d.next++
	if d.next == len(d.ring) {
		d.next = 0
		d.full = true
	}
	return false
}

// Len returns the number of digests currently remembered.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
