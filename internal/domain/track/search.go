package track

import "github.com/cockroachdb/errors"

// ItemKind discriminates SearchResultItem variants.
type ItemKind string

const (
	KindTrack    ItemKind = "track"
	KindArtist   ItemKind = "artist"
	KindAlbum    ItemKind = "album"
	KindPlaylist ItemKind = "playlist"
)

// Artist is the artist variant of a search result.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	ImageURL   string   `json:"imageUrl,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
}

// Album is the album variant of a search result.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
}

// PlaylistRef is the playlist variant of a search result.
// It refers to a catalog playlist, not a user playlist.
type PlaylistRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	TrackCount int    `json:"trackCount,omitempty"`
}

// SearchResultItem is one search hit. Exactly one variant matching Kind is set.
// Build values with the constructors below.
type SearchResultItem struct {
	Kind     ItemKind     `json:"kind"`
	Track    *Track       `json:"track,omitempty"`
	Artist   *Artist      `json:"artist,omitempty"`
	Album    *Album       `json:"album,omitempty"`
	Playlist *PlaylistRef `json:"playlist,omitempty"`
}

// TrackItem wraps a track as a search result.
func TrackItem(t Track) SearchResultItem {
	return SearchResultItem{Kind: KindTrack, Track: &t}
}

// ArtistItem wraps an artist as a search result.
func ArtistItem(a Artist) SearchResultItem {
	return SearchResultItem{Kind: KindArtist, Artist: &a}
}

// AlbumItem wraps an album as a search result.
func AlbumItem(a Album) SearchResultItem {
	return SearchResultItem{Kind: KindAlbum, Album: &a}
}

// PlaylistItem wraps a catalog playlist as a search result.
func PlaylistItem(p PlaylistRef) SearchResultItem {
	return SearchResultItem{Kind: KindPlaylist, Playlist: &p}
}

// Validate checks that the populated variant matches Kind.
func (i SearchResultItem) Validate() error {
	set := 0
	for _, present := range []bool{i.Track != nil, i.Artist != nil, i.Album != nil, i.Playlist != nil} {
		if present {
			set++
		}
	}
	if set != 1 {
		return errors.Newf("search item must carry exactly one variant, got %d", set)
	}

	var ok bool
	switch i.Kind {
	case KindTrack:
		ok = i.Track != nil
	case KindArtist:
		ok = i.Artist != nil
	case KindAlbum:
		ok = i.Album != nil
	case KindPlaylist:
		ok = i.Playlist != nil
	default:
		return errors.Newf("unknown search item kind %q", i.Kind)
	}
	if !ok {
		return errors.Newf("search item kind %q does not match its payload", i.Kind)
	}
	return nil
}

// Name returns the display name of whichever variant is set.
func (i SearchResultItem) Name() string {
	switch i.Kind {
	case KindTrack:
		if i.Track != nil {
			return i.Track.Title
		}
	case KindArtist:
		if i.Artist != nil {
			return i.Artist.Name
		}
	case KindAlbum:
		if i.Album != nil {
			return i.Album.Name
		}
	case KindPlaylist:
		if i.Playlist != nil {
			return i.Playlist.Name
		}
	}
	return ""
}

// Tracks extracts the track variants in order.
func Tracks(items []SearchResultItem) Collection {
	out := make(Collection, 0, len(items))
	for _, it := range items {
		if it.Kind == KindTrack && it.Track != nil {
			out = append(out, *it.Track)
		}
	}
	return out
}
