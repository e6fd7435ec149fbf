package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/tunewave/internal/domain/track"
)

func TestFeed_SupersededCommitIsDropped(t *testing.T) {
	f := NewFeed()
	assert.Empty(t, f.Tracks())
	assert.False(t, f.Loading())

	older := f.Begin()
	newer := f.Begin()
	assert.True(t, f.Loading())

	assert.True(t, f.Commit(newer, []track.Track{{ID: "new"}}))
	assert.False(t, f.Loading())
	assert.False(t, f.Commit(older, []track.Track{{ID: "old"}}))

	assert.Equal(t, []string{"new"}, f.Tracks().IDs())
	assert.Equal(t, uint64(2), f.Generation())
}

func TestFeed_CommitCopies(t *testing.T) {
	f := NewFeed()
	in := []track.Track{{ID: "a"}}
	f.Commit(f.Begin(), in)

	in[0].ID = "mutated"
	out := f.Tracks()
	out[0].ID = "also mutated"

	assert.Equal(t, []string{"a"}, f.Tracks().IDs())
}
