package discovery

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/osa030/tunewave/internal/app/catalog"
	"github.com/osa030/tunewave/internal/domain/track"
)

// Queue names accepted by Play.
const (
	QueueHome     = "home"     // trending + new releases + search results
	QueueCharts   = "charts"   // global + US
	QueueRelated  = "related"  // related tracks of the now playing view
	QueueHistory  = "history"  // listening history, most recent first
	QueuePlaylist = "playlist" // selected playlist; "playlist:<id>" names one explicitly

	queueCountryPrefix  = "country:"
	queuePlaylistPrefix = "playlist:"
)

// Feed names.
const (
	feedTop         = "top"
	feedNewReleases = "new_releases"
	feedSearch      = "search"
	feedGlobal      = "global"
	feedUS          = "us"
	feedRelated     = "related"
)

// ErrUnknownQueue is returned for a queue name that resolves to nothing.
var ErrUnknownQueue = errors.New("unknown queue")

// HomeView is the content of the home page.
type HomeView struct {
	TopTracks     track.Collection `json:"topTracks"`
	NewReleases   track.Collection `json:"newReleases"`
	SearchResults track.Collection `json:"searchResults"`
	Query         string           `json:"query,omitempty"`
	Fallback      bool             `json:"fallback"`
}

// ChartsView is the content of the charts page.
type ChartsView struct {
	Global   track.Collection `json:"global"`
	US       track.Collection `json:"us"`
	Fallback bool             `json:"fallback"`
}

// CountryView is one country chart.
type CountryView struct {
	Country  catalog.Country  `json:"country"`
	Tracks   track.Collection `json:"tracks"`
	Fallback bool             `json:"fallback"`
}

// SearchView is a search result.
type SearchView struct {
	Query    string                   `json:"query"`
	Items    []track.SearchResultItem `json:"items"`
	Tracks   track.Collection         `json:"tracks"`
	Fallback bool                     `json:"fallback"`
}

// NowPlayingView is the content of the now playing page.
type NowPlayingView struct {
	Track    track.Track      `json:"track"`
	Related  track.Collection `json:"related"`
	Fallback bool             `json:"fallback"`
}

// CountryQueue returns the queue name of a country chart.
func CountryQueue(code string) string {
	return queueCountryPrefix + strings.ToUpper(strings.TrimSpace(code))
}

// PlaylistQueue returns the queue name of a playlist.
func PlaylistQueue(id string) string {
	return queuePlaylistPrefix + id
}

func (m *Manager) feed(name string) *catalog.Feed {
	m.feedsMu.Lock()
	defer m.feedsMu.Unlock()
	f, ok := m.feeds[name]
	if !ok {
		f = catalog.NewFeed()
		m.feeds[name] = f
	}
	return f
}

// load runs fetch under a new feed ticket. The result is committed to the feed only if
// no newer fetch started meanwhile; the caller always gets its own result.
func (m *Manager) load(name string, fetch func() catalog.Result) catalog.Result {
	f := m.feed(name)
	ticket := f.Begin()
	res := fetch()
	if !f.Commit(ticket, res.Tracks) {
		zlog.Debug().Msgf("superseded fetch not committed: feed=%s", name)
	}
	return res
}

// LoadHome fetches trending tracks and new releases in parallel.
func (m *Manager) LoadHome(ctx context.Context, limit int) HomeView {
	var top, releases catalog.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		top = m.load(feedTop, func() catalog.Result { return m.catalog.TopTracks(gctx, limit) })
		return nil
	})
	g.Go(func() error {
		releases = m.load(feedNewReleases, func() catalog.Result { return m.catalog.NewReleases(gctx, limit) })
		return nil
	})
	_ = g.Wait()
	m.refreshActiveQueue(QueueHome)

	m.mu.Lock()
	query := m.lastQuery
	m.mu.Unlock()
	return HomeView{
		TopTracks:     top.Tracks,
		NewReleases:   releases.Tracks,
		SearchResults: m.feed(feedSearch).Tracks(),
		Query:         query,
		Fallback:      top.Fallback || releases.Fallback,
	}
}

// LoadCharts fetches the global and US charts in parallel.
func (m *Manager) LoadCharts(ctx context.Context, limit int) ChartsView {
	var global, us catalog.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		global = m.load(feedGlobal, func() catalog.Result { return m.catalog.GlobalChart(gctx, limit) })
		return nil
	})
	g.Go(func() error {
		us = m.load(feedUS, func() catalog.Result { return m.catalog.CountryChart(gctx, "US", limit) })
		return nil
	})
	_ = g.Wait()
	m.refreshActiveQueue(QueueCharts)

	return ChartsView{Global: global.Tracks, US: us.Tracks, Fallback: global.Fallback || us.Fallback}
}

// LoadCountry fetches the chart of a supported country.
func (m *Manager) LoadCountry(ctx context.Context, code string, limit int) (CountryView, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	name, ok := catalog.CountryName(code)
	if !ok {
		return CountryView{}, errors.Wrapf(ErrUnknownCountry, "code=%s", code)
	}
	queue := CountryQueue(code)
	res := m.load(queue, func() catalog.Result { return m.catalog.CountryChart(ctx, code, limit) })
	m.refreshActiveQueue(queue)

	country := catalog.Country{Code: code, Name: name}
	for _, c := range catalog.Countries() {
		if c.Code == code {
			country = c
		}
	}
	return CountryView{Country: country, Tracks: res.Tracks, Fallback: res.Fallback}, nil
}

// Search runs a query. Its track results join the home queue.
func (m *Manager) Search(ctx context.Context, query string, limit int) SearchView {
	query = strings.TrimSpace(query)
	res := m.load(feedSearch, func() catalog.Result { return m.catalog.Search(ctx, query, limit) })

	m.mu.Lock()
	m.lastQuery = query
	m.mu.Unlock()
	m.refreshActiveQueue(QueueHome)

	items := res.Items
	if items == nil {
		items = []track.SearchResultItem{}
	}
	return SearchView{Query: query, Items: items, Tracks: res.Tracks, Fallback: res.Fallback}
}

// LoadRelated refreshes the related tracks.
func (m *Manager) LoadRelated(ctx context.Context) track.Collection {
	res := m.load(feedRelated, func() catalog.Result { return m.catalog.Related(ctx, m.relatedLimit) })
	m.refreshActiveQueue(QueueRelated)
	return res.Tracks
}

// NowPlaying resolves a track for the now playing view. An empty id shows the current track,
// or the first trending track while nothing is playing.
func (m *Manager) NowPlaying(ctx context.Context, trackID string) (NowPlayingView, error) {
	var (
		t        track.Track
		fallback bool
	)
	switch snap := m.session.Snapshot(); {
	case trackID != "":
		t, fallback = m.catalog.TrackDetails(ctx, trackID)
	case snap.Current != nil:
		t = *snap.Current
	default:
		t, fallback = m.leadTrack(ctx)
	}

	related := m.feed(feedRelated).Tracks()
	if len(related) == 0 {
		related = m.LoadRelated(ctx)
	}
	return NowPlayingView{Track: t, Related: related, Fallback: fallback}, nil
}

// leadTrack returns the first trending track, loading the trending feed when it is empty.
func (m *Manager) leadTrack(ctx context.Context) (track.Track, bool) {
	top := m.feed(feedTop).Tracks()
	fallback := false
	if len(top) == 0 {
		res := m.load(feedTop, func() catalog.Result { return m.catalog.TopTracks(ctx, m.defaultLimit) })
		m.refreshActiveQueue(QueueHome)
		top, fallback = res.Tracks, res.Fallback
	}
	if len(top) == 0 {
		zlog.Warn().Msg("no trending tracks, showing sample track")
		m.fail(catalog.CodeTrackFallback)
		return catalog.MockTracks()[0], true
	}
	return top[0], fallback
}

// Countries returns the supported chart countries.
func (m *Manager) Countries() []catalog.Country {
	return catalog.Countries()
}

// Queue resolves a queue name to its current collection.
func (m *Manager) Queue(name string) (track.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueLocked(name)
}

// queueLocked resolves a queue name. The ledger is read, so mu must be held.
func (m *Manager) queueLocked(name string) (track.Collection, error) {
	switch {
	case name == QueueHome:
		return track.Concat(m.feed(feedTop).Tracks(), m.feed(feedNewReleases).Tracks(), m.feed(feedSearch).Tracks()), nil
	case name == QueueCharts:
		return track.Concat(m.feed(feedGlobal).Tracks(), m.feed(feedUS).Tracks()), nil
	case name == QueueRelated:
		return m.feed(feedRelated).Tracks(), nil
	case name == QueueHistory:
		return m.ledger.Tracks(), nil
	case name == QueuePlaylist:
		p, ok := m.library.Selected()
		if !ok {
			return nil, errors.Wrap(ErrUnknownQueue, "no playlist selected")
		}
		return p.Collection(), nil
	case strings.HasPrefix(name, queuePlaylistPrefix):
		p, ok := m.library.Get(strings.TrimPrefix(name, queuePlaylistPrefix))
		if !ok {
			return nil, errors.Wrapf(ErrUnknownQueue, "queue=%s", name)
		}
		return p.Collection(), nil
	case strings.HasPrefix(name, queueCountryPrefix):
		code := strings.TrimPrefix(name, queueCountryPrefix)
		if _, ok := catalog.CountryName(code); !ok {
			return nil, errors.Wrapf(ErrUnknownQueue, "queue=%s", name)
		}
		return m.feed(CountryQueue(code)).Tracks(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownQueue, "queue=%s", name)
	}
}

// refreshActiveQueue re-installs the active queue when it is one of names,
// so next and previous walk the collection the user now sees.
func (m *Manager) refreshActiveQueue(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshActiveQueueLocked(names...)
}

func (m *Manager) refreshActiveQueueLocked(names ...string) {
	active := m.session.Snapshot().Queue.Name
	for _, name := range names {
		if active != name {
			continue
		}
		tracks, err := m.queueLocked(name)
		if err != nil {
			zlog.Debug().Msgf("active queue no longer resolves: queue=%s error=%v", name, err)
			return
		}
		m.session.SetActiveQueue(name, tracks)
		return
	}
}
