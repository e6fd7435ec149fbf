// Package history provides the listening history ledger.
package history

import (
	"time"

	"github.com/osa030/tunewave/internal/domain/track"
)

// DefaultLimit is the maximum number of entries kept in a ledger.
const DefaultLimit = 50

// Entry is a played track and the time playback started.
// It serializes flat as {...track fields, listenedAt}.
type Entry struct {
	track.Track
	ListenedAt time.Time `json:"listenedAt"`
}

// Ledger is a most-recent-first, deduplicated, size-bounded log of played tracks.
// Ledger is not safe for concurrent use.
type Ledger struct {
	entries []Entry
	limit   int
	now     func() time.Time
}

// NewLedger creates an empty ledger. A non-positive limit selects DefaultLimit.
func NewLedger(limit int) *Ledger {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ledger{
		entries: make([]Entry, 0, limit),
		limit:   limit,
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// Record moves the track to the front with the current time.
// Any earlier entry with the same ID is dropped; the oldest entries beyond the limit are evicted.
func (l *Ledger) Record(t track.Track) Entry {
	entry := Entry{Track: t, ListenedAt: l.now()}

	next := make([]Entry, 0, l.limit)
	next = append(next, entry)
	for _, e := range l.entries {
		if e.ID == t.ID {
			continue
		}
		if len(next) == l.limit {
			break
		}
		next = append(next, e)
	}
	l.entries = next
	return entry
}

// Remove deletes the entry with the given track ID.
// Returns false if no such entry exists.
func (l *Ledger) Remove(id string) bool {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.entries = make([]Entry, 0, l.limit)
}

// Restore replaces the contents with previously stored entries.
// Stored order is kept; duplicates after the first occurrence and entries beyond the limit are dropped.
func (l *Ledger) Restore(entries []Entry) {
	seen := make(map[string]bool, len(entries))
	next := make([]Entry, 0, l.limit)
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		if len(next) == l.limit {
			break
		}
		seen[e.ID] = true
		next = append(next, e)
	}
	l.entries = next
}

// Entries returns a copy of the entries, most recent first.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Limit returns the maximum number of entries.
func (l *Ledger) Limit() int {
	return l.limit
}

// Tracks returns the recorded tracks as a collection, most recent first.
func (l *Ledger) Tracks() track.Collection {
	out := make(track.Collection, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Track
	}
	return out
}
