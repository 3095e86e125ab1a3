package domain

// Artist is a credited performer of a track
type Artist struct {
	Name string
}

// Track describes the item of the active playback session
type Track struct {
	// ID is the backend-specific track identifier used for tempo lookups
	ID string
	// Name of the track
	Name string
	// Artists in credit order; the first one is displayed
	Artists []Artist
	// ArtworkURL is the URL or local path to the album artwork
	ArtworkURL string
}

// Playback is the raw result of a PlaybackClient query.
// A nil *Playback means there is no active session.
type Playback struct {
	IsPlaying bool
	Track     *Track
}

// PlaybackSnapshot is the per-poll view of the playback session.
// It is rebuilt on every poll and never persisted.
type PlaybackSnapshot struct {
	IsPlaying  bool
	TrackID    string
	TrackName  string
	ArtistName string
	// TempoBPM is nil when the tempo lookup failed or is unsupported
	TempoBPM   *float64
	ArtworkURL string
}

// AnimationState is a value copy of the animation driver's state
type AnimationState struct {
	Playing      bool
	CurrentFrame int
	FrameCount   int
	SpeedFactor  int
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}
