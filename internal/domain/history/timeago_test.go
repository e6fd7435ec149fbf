package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunewave/internal/domain/track"
)

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		elapsed  time.Duration
		expected string
	}{
		{name: "zero", elapsed: 0, expected: "Just now"},
		{name: "59 seconds", elapsed: 59 * time.Second, expected: "Just now"},
		{name: "one minute", elapsed: time.Minute, expected: "1 minute ago"},
		{name: "one minute 59s floors", elapsed: 119 * time.Second, expected: "1 minute ago"},
		{name: "59 minutes", elapsed: 59*time.Minute + 59*time.Second, expected: "59 minutes ago"},
		{name: "one hour", elapsed: time.Hour, expected: "1 hour ago"},
		{name: "23 hours", elapsed: 23*time.Hour + 59*time.Minute, expected: "23 hours ago"},
		{name: "yesterday", elapsed: 24 * time.Hour, expected: "Yesterday"},
		{name: "yesterday upper bound", elapsed: 47*time.Hour + 59*time.Minute, expected: "Yesterday"},
		{name: "two days", elapsed: 48 * time.Hour, expected: "2 days ago"},
		{name: "six days", elapsed: 6*24*time.Hour + 23*time.Hour, expected: "6 days ago"},
		{name: "a week", elapsed: 7 * 24 * time.Hour, expected: "3/8/2024"},
		{name: "future", elapsed: -time.Hour, expected: "Just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeAgo(now.Add(-tt.elapsed), now))
		})
	}
}

func TestEntry_JSONLayout(t *testing.T) {
	e := Entry{
		Track:      track.Track{ID: "1", Title: "Blinding Lights", Artist: "The Weeknd", Duration: "3:20"},
		ListenedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	data, err := json.Marshal(e)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "1", flat["id"])
	assert.Equal(t, "Blinding Lights", flat["title"])
	assert.Equal(t, "2024-01-02T03:04:05Z", flat["listenedAt"])

	var decoded Entry
	require.NoError(t, json.Unmarshal([]byte(`{"id":"2","title":"x","listenedAt":"2024-01-02T03:04:05.000Z"}`), &decoded))
	assert.Equal(t, "2", decoded.ID)
	assert.True(t, decoded.ListenedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
