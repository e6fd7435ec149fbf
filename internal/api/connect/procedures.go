package connect

// Service names.
const (
	CatalogServiceName      = "tunewave.v1.CatalogService"
	SessionServiceName      = "tunewave.v1.SessionService"
	HistoryServiceName      = "tunewave.v1.HistoryService"
	PlaylistServiceName     = "tunewave.v1.PlaylistService"
	NotificationServiceName = "tunewave.v1.NotificationService"
)

// CatalogService procedures.
const (
	CatalogTopTracksProcedure    = "/" + CatalogServiceName + "/TopTracks"
	CatalogNewReleasesProcedure  = "/" + CatalogServiceName + "/NewReleases"
	CatalogHomeProcedure         = "/" + CatalogServiceName + "/Home"
	CatalogChartsProcedure       = "/" + CatalogServiceName + "/Charts"
	CatalogCountryChartProcedure = "/" + CatalogServiceName + "/CountryChart"
	CatalogCountriesProcedure    = "/" + CatalogServiceName + "/Countries"
	CatalogTrackDetailsProcedure = "/" + CatalogServiceName + "/TrackDetails"
	CatalogSearchProcedure       = "/" + CatalogServiceName + "/Search"
)

// SessionService procedures.
const (
	SessionGetSessionProcedure      = "/" + SessionServiceName + "/GetSession"
	SessionNowPlayingProcedure      = "/" + SessionServiceName + "/NowPlaying"
	SessionPlayProcedure            = "/" + SessionServiceName + "/Play"
	SessionTogglePlayPauseProcedure = "/" + SessionServiceName + "/TogglePlayPause"
	SessionNextProcedure            = "/" + SessionServiceName + "/Next"
	SessionPreviousProcedure        = "/" + SessionServiceName + "/Previous"
	SessionToggleMinimizeProcedure  = "/" + SessionServiceName + "/ToggleMinimize"
)

// HistoryService procedures.
const (
	HistoryListProcedure   = "/" + HistoryServiceName + "/ListHistory"
	HistoryClearProcedure  = "/" + HistoryServiceName + "/ClearHistory"
	HistoryRemoveProcedure = "/" + HistoryServiceName + "/RemoveHistoryEntry"
)

// PlaylistService procedures.
const (
	PlaylistListProcedure        = "/" + PlaylistServiceName + "/ListPlaylists"
	PlaylistGetProcedure         = "/" + PlaylistServiceName + "/GetPlaylist"
	PlaylistCreateProcedure      = "/" + PlaylistServiceName + "/CreatePlaylist"
	PlaylistEditProcedure        = "/" + PlaylistServiceName + "/EditPlaylist"
	PlaylistDeleteProcedure      = "/" + PlaylistServiceName + "/DeletePlaylist"
	PlaylistSelectProcedure      = "/" + PlaylistServiceName + "/SelectPlaylist"
	PlaylistAddTrackProcedure    = "/" + PlaylistServiceName + "/AddTrack"
	PlaylistRemoveTrackProcedure = "/" + PlaylistServiceName + "/RemoveTrack"
	PlaylistOpenFormProcedure    = "/" + PlaylistServiceName + "/OpenForm"
	PlaylistCloseFormProcedure   = "/" + PlaylistServiceName + "/CloseForm"
)

// NotificationService procedures.
const (
	NotificationSubscribeProcedure = "/" + NotificationServiceName + "/SubscribeNotifications"
)
