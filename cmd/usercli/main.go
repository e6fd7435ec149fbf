// Package main provides the user CLI entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	apiconnect "github.com/osa030/tunewave/internal/api/connect"
	"github.com/osa030/tunewave/internal/app/discovery"
	"github.com/osa030/tunewave/internal/app/library"
	"github.com/osa030/tunewave/internal/app/notification"
	"github.com/osa030/tunewave/internal/app/playback"
	"github.com/osa030/tunewave/internal/domain/track"
)

var (
	app    = kingpin.New("tunewave-usercli", "tunewave user client")
	server = app.Flag("server", "Server address").Default("http://localhost:8080").Envar("TUNEWAVE_SERVER").String()
	limit  = app.Flag("limit", "Maximum number of tracks (0 uses the server default)").Short('n').Int()

	topCmd       = app.Command("top", "Show trending tracks (home queue)")
	newCmd       = app.Command("new", "Show new releases (home queue)")
	chartCmd     = app.Command("chart", "Show the global and US charts, or one country chart")
	chartCode    = chartCmd.Arg("code", "ISO country code").String()
	countriesCmd = app.Command("countries", "List supported chart countries")
	searchCmd    = app.Command("search", "Search tracks, artists, albums and playlists")
	searchQuery  = searchCmd.Arg("query", "Search query").Required().String()
	trackCmd     = app.Command("track", "Show a track with related tracks (current track when omitted)")
	trackID      = trackCmd.Arg("id", "Track ID").String()

	playCmd     = app.Command("play", "Play a track")
	playTrackID = playCmd.Arg("id", "Track ID").Required().String()
	playQueue   = playCmd.Flag("queue", "Queue to play from: home, charts, related, history, playlist, playlist:<id>, country:<code>").Short('q').String()
	toggleCmd   = app.Command("toggle", "Toggle play/pause")
	nextCmd     = app.Command("next", "Play the next track of the queue")
	prevCmd     = app.Command("prev", "Play the previous track of the queue")
	minimizeCmd = app.Command("minimize", "Toggle the minimized player")
	sessionCmd  = app.Command("session", "Show the playback session")

	historyCmd      = app.Command("history", "Show the listening history")
	historyClearCmd = app.Command("history-clear", "Clear the listening history")
	historyRmCmd    = app.Command("history-rm", "Remove one history entry")
	historyRmID     = historyRmCmd.Arg("id", "Track ID").Required().String()

	playlistsCmd          = app.Command("playlists", "List playlists")
	playlistCreateCmd     = app.Command("playlist-create", "Create a playlist")
	playlistCreateName    = playlistCreateCmd.Arg("name", "Playlist name").Required().String()
	playlistCreateDesc    = playlistCreateCmd.Flag("description", "Description").String()
	playlistCreateCover   = playlistCreateCmd.Flag("cover", "Cover image URL").String()
	playlistEditCmd       = app.Command("playlist-edit", "Edit a playlist")
	playlistEditID        = playlistEditCmd.Arg("id", "Playlist ID").Required().String()
	playlistEditName      = playlistEditCmd.Flag("name", "New name").String()
	playlistEditDesc      = playlistEditCmd.Flag("description", "New description").String()
	playlistEditCover     = playlistEditCmd.Flag("cover", "New cover image URL").String()
	playlistRmCmd         = app.Command("playlist-rm", "Delete a playlist")
	playlistRmID          = playlistRmCmd.Arg("id", "Playlist ID").Required().String()
	playlistSelectCmd     = app.Command("playlist-select", "Select a playlist")
	playlistSelectID      = playlistSelectCmd.Arg("id", "Playlist ID").Required().String()
	playlistAddCmd        = app.Command("playlist-add", "Add a track of a queue to a playlist")
	playlistAddTrackID    = playlistAddCmd.Arg("track-id", "Track ID").Required().String()
	playlistAddPlaylistID = playlistAddCmd.Flag("playlist", "Playlist ID (default: selected playlist)").String()
	playlistAddQueue      = playlistAddCmd.Flag("queue", "Queue holding the track").Default(discovery.QueueHome).String()
	playlistDropCmd       = app.Command("playlist-drop", "Remove a track from a playlist")
	playlistDropID        = playlistDropCmd.Arg("playlist-id", "Playlist ID").Required().String()
	playlistDropTrackID   = playlistDropCmd.Arg("track-id", "Track ID").Required().String()

	subscribeCmd    = app.Command("subscribe", "Subscribe to notifications")
	subscribeRecent = subscribeCmd.Flag("recent", "Number of recent notices to replay").Default("5").Int()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	client := apiconnect.NewClient(http.DefaultClient, *server)

	if command == subscribeCmd.FullCommand() {
		subscribe(client, *subscribeRecent)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := execute(ctx, client, command); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, client *apiconnect.Client, command string) error {
	switch command {
	case topCmd.FullCommand():
		home, err := client.Home(ctx, *limit)
		if err != nil {
			return err
		}
		printTracks("Trending", home.TopTracks, home.Fallback)
	case newCmd.FullCommand():
		home, err := client.Home(ctx, *limit)
		if err != nil {
			return err
		}
		printTracks("New Releases", home.NewReleases, home.Fallback)
	case chartCmd.FullCommand():
		if *chartCode == "" {
			charts, err := client.Charts(ctx, *limit)
			if err != nil {
				return err
			}
			printTracks("Global Top 50", charts.Global, charts.Fallback)
			printTracks("USA Top 50", charts.US, charts.Fallback)
			return nil
		}
		view, err := client.CountryChart(ctx, *chartCode, *limit)
		if err != nil {
			return err
		}
		printTracks(fmt.Sprintf("%s Top Tracks (queue %s)", view.Country.Name, discovery.CountryQueue(view.Country.Code)), view.Tracks, view.Fallback)
	case countriesCmd.FullCommand():
		res, err := client.Countries(ctx)
		if err != nil {
			return err
		}
		for _, c := range res.Countries {
			fmt.Printf("  %s  %-20s %s\n", c.Code, c.Name, c.Region)
		}
	case searchCmd.FullCommand():
		view, err := client.Search(ctx, *searchQuery, *limit)
		if err != nil {
			return err
		}
		printSearch(view)
	case trackCmd.FullCommand():
		view, err := client.NowPlaying(ctx, *trackID)
		if err != nil {
			return err
		}
		printTrack(view.Track)
		printTracks("Related", view.Related, view.Fallback)

	case playCmd.FullCommand():
		res, err := client.Play(ctx, *playTrackID, *playQueue)
		if err != nil {
			return err
		}
		printSession(res)
	case toggleCmd.FullCommand():
		res, err := client.TogglePlayPause(ctx)
		if err != nil {
			return err
		}
		printSession(res)
	case nextCmd.FullCommand():
		res, err := client.Next(ctx)
		if err != nil {
			return err
		}
		if !res.Moved {
			fmt.Println("Already at the end of the queue")
		}
		printSession(res)
	case prevCmd.FullCommand():
		res, err := client.Previous(ctx)
		if err != nil {
			return err
		}
		if !res.Moved {
			fmt.Println("Already at the start of the queue")
		}
		printSession(res)
	case minimizeCmd.FullCommand():
		res, err := client.ToggleMinimize(ctx)
		if err != nil {
			return err
		}
		printSession(res)
	case sessionCmd.FullCommand():
		res, err := client.Session(ctx)
		if err != nil {
			return err
		}
		printSession(res)

	case historyCmd.FullCommand():
		res, err := client.History(ctx)
		if err != nil {
			return err
		}
		if len(res.Entries) == 0 {
			fmt.Println("No listening history")
		}
		for i, e := range res.Entries {
			fmt.Printf("%3d. %-40s %-25s %s\n", i+1, e.Title, e.Artist, e.TimeAgo)
		}
	case historyClearCmd.FullCommand():
		if err := client.ClearHistory(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared")
	case historyRmCmd.FullCommand():
		res, err := client.RemoveHistoryEntry(ctx, *historyRmID)
		if err != nil {
			return err
		}
		if !res.Removed {
			fmt.Printf("Not in history: %s\n", *historyRmID)
		}

	case playlistsCmd.FullCommand():
		view, err := client.Playlists(ctx)
		if err != nil {
			return err
		}
		printPlaylists(view)
	case playlistCreateCmd.FullCommand():
		res, err := client.CreatePlaylist(ctx, library.Draft{
			Name:        *playlistCreateName,
			Description: *playlistCreateDesc,
			CoverImage:  *playlistCreateCover,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created playlist %s (%s)\n", res.Playlist.Name, res.Playlist.ID)
	case playlistEditCmd.FullCommand():
		res, err := client.EditPlaylist(ctx, *playlistEditID, library.Draft{
			Name:        *playlistEditName,
			Description: *playlistEditDesc,
			CoverImage:  *playlistEditCover,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated playlist %s (%s)\n", res.Playlist.Name, res.Playlist.ID)
	case playlistRmCmd.FullCommand():
		if err := client.DeletePlaylist(ctx, *playlistRmID); err != nil {
			return err
		}
		fmt.Println("Playlist deleted")
	case playlistSelectCmd.FullCommand():
		return client.SelectPlaylist(ctx, *playlistSelectID)
	case playlistAddCmd.FullCommand():
		res, err := client.AddTrack(ctx, *playlistAddPlaylistID, *playlistAddQueue, *playlistAddTrackID)
		if err != nil {
			return err
		}
		switch {
		case res.Created:
			fmt.Printf("Created %s with the track\n", res.Playlist.Name)
		case res.Added:
			fmt.Printf("Added to %s\n", res.Playlist.Name)
		default:
			fmt.Printf("Rejected [%s]: %s\n", res.Code, res.Message)
		}
	case playlistDropCmd.FullCommand():
		res, err := client.RemoveTrack(ctx, *playlistDropID, *playlistDropTrackID)
		if err != nil {
			return err
		}
		if !res.Removed {
			fmt.Println("Track not in playlist")
		}
	}
	return nil
}

func subscribe(client *apiconnect.Client, recent int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Println("Subscribed to notifications. Press Ctrl+C to exit.")
	err := client.Subscribe(ctx, recent, func(msg *apiconnect.NotificationMessage) error {
		switch msg.Type {
		case apiconnect.MessageTypeInitialState:
			fmt.Println("=== INITIAL STATE ===")
			if msg.Session != nil {
				printSnapshot(*msg.Session)
			}
			for _, n := range msg.Recent {
				printNotice(n)
			}
		case apiconnect.MessageTypeNotice:
			if msg.Notice != nil {
				printNotice(*msg.Notice)
			}
		}
		return nil
	})
	if err != nil {
		fmt.Printf("Stream error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\nUnsubscribed")
}

func printTracks(title string, tracks track.Collection, fallback bool) {
	fmt.Printf("\n%s", title)
	if fallback {
		fmt.Print(" (sample data)")
	}
	fmt.Println()
	for i, t := range tracks {
		video := ""
		if t.HasVideo() {
			video = " [video]"
		}
		fmt.Printf("%3d. %-24s %-40s %-25s %5s%s\n", i+1, t.ID, t.Title, t.Artist, t.Duration, video)
	}
}

func printTrack(t track.Track) {
	fmt.Printf("%s - %s\n", t.Title, t.Artist)
	fmt.Printf("  ID: %s\n", t.ID)
	fmt.Printf("  Album: %s\n", t.AlbumName)
	fmt.Printf("  Duration: %s\n", t.Duration)
	if t.HasPreview() {
		fmt.Printf("  Preview: %s\n", t.AudioURL)
	}
	if t.HasVideo() {
		fmt.Printf("  Video: %s\n", t.YouTubeURL)
	}
	if t.ExternalURL != "" {
		fmt.Printf("  Link: %s\n", t.ExternalURL)
	}
}

func printSearch(view *discovery.SearchView) {
	fmt.Printf("Results for %q", view.Query)
	if view.Fallback {
		fmt.Print(" (sample data)")
	}
	fmt.Println()
	for _, item := range view.Items {
		switch item.Kind {
		case track.KindTrack:
			fmt.Printf("  [track]    %-24s %s - %s\n", item.Track.ID, item.Track.Title, item.Track.Artist)
		default:
			fmt.Printf("  [%-8s] %s\n", item.Kind, item.Name())
		}
	}
}

func printSession(res *apiconnect.SessionResponse) {
	fmt.Printf("State: %s\n", res.State)
	printSnapshot(res.Session)
}

func printSnapshot(snap playback.Snapshot) {
	if snap.Current == nil {
		fmt.Println("  Nothing playing")
	} else {
		fmt.Printf("  Now playing: %s - %s (%s)\n", snap.Current.Title, snap.Current.Artist, snap.Current.ID)
	}
	if snap.Queue.Name != "" {
		fmt.Printf("  Queue: %s (%d tracks, generation %d)\n", snap.Queue.Name, len(snap.Queue.Tracks), snap.Queue.Generation)
	}
	if snap.Minimized {
		fmt.Println("  Player minimized")
	}
}

func printPlaylists(view *discovery.PlaylistsView) {
	if len(view.Playlists) == 0 {
		fmt.Println("No playlists")
		return
	}
	for _, p := range view.Playlists {
		marker := " "
		if p.ID == view.SelectedID {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-30s %d tracks\n", marker, p.ID, p.Name, len(p.Tracks))
	}
	if view.Form.Mode != library.FormBrowsing {
		fmt.Printf("Form open: %s %s\n", view.Form.Mode, view.Form.PlaylistID)
	}
}

func printNotice(n notification.Notice) {
	fmt.Printf("[%d] %s %s: %s\n", n.SequenceNo, n.CreatedAt.Local().Format(time.TimeOnly), n.Kind, n.Message)
}
