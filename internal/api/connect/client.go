package connect

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/library"
)

// Client calls the RPC services of one server.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	opts       []connect.ClientOption
}

// NewClient creates a client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		opts:       append([]connect.ClientOption{WithJSON()}, opts...),
	}
}

func unary[Req, Res any](ctx context.Context, c *Client, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...)
	res, err := client.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// TopTracks fetches trending tracks.
func (c *Client) TopTracks(ctx context.Context, limit int) (*TracksResponse, error) {
	return unary[LimitRequest, TracksResponse](ctx, c, CatalogTopTracksProcedure, &LimitRequest{Limit: limit})
}

// NewReleases fetches new release tracks.
func (c *Client) NewReleases(ctx context.Context, limit int) (*TracksResponse, error) {
	return unary[LimitRequest, TracksResponse](ctx, c, CatalogNewReleasesProcedure, &LimitRequest{Limit: limit})
}

// Home loads the home page.
func (c *Client) Home(ctx context.Context, limit int) (*discovery.HomeView, error) {
	return unary[LimitRequest, discovery.HomeView](ctx, c, CatalogHomeProcedure, &LimitRequest{Limit: limit})
}

// Charts loads the charts page.
func (c *Client) Charts(ctx context.Context, limit int) (*discovery.ChartsView, error) {
	return unary[LimitRequest, discovery.ChartsView](ctx, c, CatalogChartsProcedure, &LimitRequest{Limit: limit})
}

// CountryChart loads one country chart.
func (c *Client) CountryChart(ctx context.Context, code string, limit int) (*discovery.CountryView, error) {
	return unary[CountryChartRequest, discovery.CountryView](ctx, c, CatalogCountryChartProcedure, &CountryChartRequest{Code: code, Limit: limit})
}

// Countries lists the supported chart countries.
func (c *Client) Countries(ctx context.Context) (*CountriesResponse, error) {
	return unary[Empty, CountriesResponse](ctx, c, CatalogCountriesProcedure, &Empty{})
}

// TrackDetails resolves one track.
func (c *Client) TrackDetails(ctx context.Context, trackID string) (*TrackDetailsResponse, error) {
	return unary[TrackDetailsRequest, TrackDetailsResponse](ctx, c, CatalogTrackDetailsProcedure, &TrackDetailsRequest{TrackID: trackID})
}

// Search runs a query.
func (c *Client) Search(ctx context.Context, query string, limit int) (*discovery.SearchView, error) {
	return unary[SearchRequest, discovery.SearchView](ctx, c, CatalogSearchProcedure, &SearchRequest{Query: query, Limit: limit})
}

// Session returns the playback session.
func (c *Client) Session(ctx context.Context) (*SessionResponse, error) {
	return unary[Empty, SessionResponse](ctx, c, SessionGetSessionProcedure, &Empty{})
}

// NowPlaying returns a track with its related tracks.
func (c *Client) NowPlaying(ctx context.Context, trackID string) (*discovery.NowPlayingView, error) {
	return unary[NowPlayingRequest, discovery.NowPlayingView](ctx, c, SessionNowPlayingProcedure, &NowPlayingRequest{TrackID: trackID})
}

// Play starts a track of a queue.
func (c *Client) Play(ctx context.Context, trackID, queue string) (*SessionResponse, error) {
	return unary[PlayRequest, SessionResponse](ctx, c, SessionPlayProcedure, &PlayRequest{TrackID: trackID, Queue: queue})
}

// TogglePlayPause flips the play state.
func (c *Client) TogglePlayPause(ctx context.Context) (*SessionResponse, error) {
	return unary[Empty, SessionResponse](ctx, c, SessionTogglePlayPauseProcedure, &Empty{})
}

// Next moves forward in the active queue.
func (c *Client) Next(ctx context.Context) (*SessionResponse, error) {
	return unary[Empty, SessionResponse](ctx, c, SessionNextProcedure, &Empty{})
}

// Previous moves backward in the active queue.
func (c *Client) Previous(ctx context.Context) (*SessionResponse, error) {
	return unary[Empty, SessionResponse](ctx, c, SessionPreviousProcedure, &Empty{})
}

// ToggleMinimize flips the player display.
func (c *Client) ToggleMinimize(ctx context.Context) (*SessionResponse, error) {
	return unary[Empty, SessionResponse](ctx, c, SessionToggleMinimizeProcedure, &Empty{})
}

// History lists the listening history.
func (c *Client) History(ctx context.Context) (*HistoryResponse, error) {
	return unary[Empty, HistoryResponse](ctx, c, HistoryListProcedure, &Empty{})
}

// ClearHistory empties the listening history.
func (c *Client) ClearHistory(ctx context.Context) error {
	_, err := unary[Empty, Empty](ctx, c, HistoryClearProcedure, &Empty{})
	return err
}

// RemoveHistoryEntry removes one history entry.
func (c *Client) RemoveHistoryEntry(ctx context.Context, trackID string) (*RemoveHistoryResponse, error) {
	return unary[RemoveHistoryRequest, RemoveHistoryResponse](ctx, c, HistoryRemoveProcedure, &RemoveHistoryRequest{TrackID: trackID})
}

// Playlists lists the playlists.
func (c *Client) Playlists(ctx context.Context) (*discovery.PlaylistsView, error) {
	return unary[Empty, discovery.PlaylistsView](ctx, c, PlaylistListProcedure, &Empty{})
}

// Playlist returns one playlist.
func (c *Client) Playlist(ctx context.Context, id string) (*PlaylistResponse, error) {
	return unary[PlaylistRequest, PlaylistResponse](ctx, c, PlaylistGetProcedure, &PlaylistRequest{PlaylistID: id})
}

// CreatePlaylist creates a playlist.
func (c *Client) CreatePlaylist(ctx context.Context, draft library.Draft) (*PlaylistResponse, error) {
	return unary[CreatePlaylistRequest, PlaylistResponse](ctx, c, PlaylistCreateProcedure, &CreatePlaylistRequest{Draft: draft})
}

// EditPlaylist merges the non-blank draft fields into a playlist.
func (c *Client) EditPlaylist(ctx context.Context, id string, draft library.Draft) (*PlaylistResponse, error) {
	return unary[EditPlaylistRequest, PlaylistResponse](ctx, c, PlaylistEditProcedure, &EditPlaylistRequest{
		PlaylistID:  id,
		Name:        draft.Name,
		Description: draft.Description,
		CoverImage:  draft.CoverImage,
	})
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	_, err := unary[PlaylistRequest, Empty](ctx, c, PlaylistDeleteProcedure, &PlaylistRequest{PlaylistID: id})
	return err
}

// SelectPlaylist selects a playlist.
func (c *Client) SelectPlaylist(ctx context.Context, id string) error {
	_, err := unary[PlaylistRequest, Empty](ctx, c, PlaylistSelectProcedure, &PlaylistRequest{PlaylistID: id})
	return err
}

// AddTrack adds the track trackID of queue to a playlist.
func (c *Client) AddTrack(ctx context.Context, playlistID, queue, trackID string) (*AddTrackResponse, error) {
	return unary[AddTrackRequest, AddTrackResponse](ctx, c, PlaylistAddTrackProcedure, &AddTrackRequest{
		PlaylistID: playlistID,
		TrackID:    trackID,
		Queue:      queue,
	})
}

// RemoveTrack removes a track from a playlist.
func (c *Client) RemoveTrack(ctx context.Context, playlistID, trackID string) (*RemoveTrackResponse, error) {
	return unary[RemoveTrackRequest, RemoveTrackResponse](ctx, c, PlaylistRemoveTrackProcedure, &RemoveTrackRequest{PlaylistID: playlistID, TrackID: trackID})
}

// OpenForm opens the create form, or the edit form of playlistID.
func (c *Client) OpenForm(ctx context.Context, playlistID string) (*FormResponse, error) {
	return unary[OpenFormRequest, FormResponse](ctx, c, PlaylistOpenFormProcedure, &OpenFormRequest{PlaylistID: playlistID})
}

// CloseForm closes any open form.
func (c *Client) CloseForm(ctx context.Context) (*FormResponse, error) {
	return unary[Empty, FormResponse](ctx, c, PlaylistCloseFormProcedure, &Empty{})
}

// Subscribe receives stream messages until ctx ends, the server closes the stream,
// or fn returns an error.
func (c *Client) Subscribe(ctx context.Context, recentLimit int, fn func(*NotificationMessage) error) error {
	client := connect.NewClient[SubscribeRequest, NotificationMessage](c.httpClient, c.baseURL+NotificationSubscribeProcedure, c.opts...)
	stream, err := client.CallServerStream(ctx, connect.NewRequest(&SubscribeRequest{RecentLimit: recentLimit}))
	if err != nil {
		return err
	}
	defer stream.Close()

	for stream.Receive() {
		if err := fn(stream.Msg()); err != nil {
			return err
		}
	}
	err = stream.Err()
	if errors.Is(err, context.Canceled) || connect.CodeOf(err) == connect.CodeCanceled {
		return nil
	}
	return err
}
