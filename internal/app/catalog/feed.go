package catalog

import (
	"sync"

	"github.com/osa030/tunewave/internal/domain/track"
)

// Ticket identifies one fetch started against a Feed.
type Ticket struct {
	generation uint64
}

// Feed holds the latest committed collection for one named view.
// Only the most recently started fetch may commit.
type Feed struct {
	mu         sync.Mutex
	generation uint64
	committed  uint64
	tracks     track.Collection
	loading    bool
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{tracks: track.Collection{}}
}

// Begin starts a fetch and supersedes any fetch in flight.
func (f *Feed) Begin() Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.loading = true
	return Ticket{generation: f.generation}
}

// Commit stores tracks if ticket is the newest. It reports whether the tracks were applied.
func (f *Feed) Commit(ticket Ticket, tracks []track.Track) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ticket.generation != f.generation {
		return false
	}
	f.tracks = track.Collection(tracks).Clone()
	f.committed = ticket.generation
	f.loading = false
	return true
}

// Tracks returns a copy of the committed collection.
func (f *Feed) Tracks() track.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tracks.Clone()
}

// Loading reports whether the newest fetch has not committed yet.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Generation returns the generation of the committed collection.
func (f *Feed) Generation() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed
}
