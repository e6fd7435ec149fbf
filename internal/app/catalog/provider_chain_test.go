package catalog

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/domain/track"
)

// fakeProvider returns canned results and counts calls.
type fakeProvider struct {
	name   string
	tracks []track.Track
	items  []track.SearchResultItem
	err    error
	calls  int
}

func (f *fakeProvider) TopTracks(ctx context.Context, limit int) ([]track.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeProvider) NewReleases(ctx context.Context, limit int) ([]track.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeProvider) CountryChart(ctx context.Context, countryCode string, limit int) ([]track.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeProvider) TrackDetails(ctx context.Context, trackID string) (track.Track, error) {
	f.calls++
	if f.err != nil {
		return track.Track{}, f.err
	}
	for _, t := range f.tracks {
		if t.ID == trackID {
			return t, nil
		}
	}
	return track.Track{}, errors.New("not found")
}

func (f *fakeProvider) Search(ctx context.Context, query string, limit int) ([]track.SearchResultItem, error) {
	f.calls++
	return f.items, f.err
}

func (f *fakeProvider) Name() string {
	return f.name
}

func chainOf(providers ...*fakeProvider) *ProviderChain {
	var pm []ProviderWithMetadata
	for _, p := range providers {
		pm = append(pm, ProviderWithMetadata{Provider: p, DisplayName: p.name})
	}
	return NewProviderChain(pm)
}

func TestProviderChain_FirstNonEmptyWins(t *testing.T) {
	tests := []struct {
		name      string
		providers []*fakeProvider
		wantID    string
		wantErr   bool
		wantCalls []int
	}{
		{
			name: "first succeeds",
			providers: []*fakeProvider{
				{name: "a", tracks: []track.Track{{ID: "a1"}}},
				{name: "b", tracks: []track.Track{{ID: "b1"}}},
			},
			wantID:    "a1",
			wantCalls: []int{1, 0},
		},
		{
			name: "skips failure",
			providers: []*fakeProvider{
				{name: "a", err: errors.New("boom")},
				{name: "b", tracks: []track.Track{{ID: "b1"}}},
			},
			wantID:    "b1",
			wantCalls: []int{1, 1},
		},
		{
			name: "skips empty and unsupported",
			providers: []*fakeProvider{
				{name: "a", tracks: []track.Track{}},
				{name: "b", err: ErrUnsupported},
				{name: "c", tracks: []track.Track{{ID: "c1"}}},
			},
			wantID:    "c1",
			wantCalls: []int{1, 1, 1},
		},
		{
			name: "all fail",
			providers: []*fakeProvider{
				{name: "a", err: errors.New("boom")},
				{name: "b"},
			},
			wantErr:   true,
			wantCalls: []int{1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := chainOf(tt.providers...)

			got, err := chain.TopTracks(context.Background(), 5)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				require.NotEmpty(t, got)
				assert.Equal(t, tt.wantID, got[0].ID)
			}
			for i, p := range tt.providers {
				assert.Equal(t, tt.wantCalls[i], p.calls, "provider %s", p.name)
			}
		})
	}
}

func TestProviderChain_TrackDetails(t *testing.T) {
	chain := chainOf(
		&fakeProvider{name: "a", err: ErrUnsupported},
		&fakeProvider{name: "b", tracks: []track.Track{{ID: "x", Title: "X"}}},
	)

	got, err := chain.TrackDetails(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "X", got.Title)

	_, err = chain.TrackDetails(context.Background(), "missing")
	assert.Error(t, err)
}

func TestProviderChain_Search(t *testing.T) {
	item := track.TrackItem(track.Track{ID: "s1"})
	chain := chainOf(
		&fakeProvider{name: "a"},
		&fakeProvider{name: "b", items: []track.SearchResultItem{item}},
	)

	got, err := chain.Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, []track.SearchResultItem{item}, got)
	assert.Equal(t, []string{"a", "b"}, chain.Providers())
}

func TestProviderChain_Canceled(t *testing.T) {
	p := &fakeProvider{name: "a", tracks: []track.Track{{ID: "1"}}}
	chain := chainOf(p)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.NewReleases(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.calls)
}
