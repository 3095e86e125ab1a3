package domain

import (
	"context"
	"image"
)

// PlaybackClient is an authorized client for a streaming-music account.
// Credentials and authorization are entirely its own concern.
//
//go:generate mockgen -destination=mocks/playback_client_mock.go -package=mocks github.com/genricoloni/groove/internal/domain PlaybackClient
type PlaybackClient interface {
	// Start resumes playback on the active device
	Start(ctx context.Context) error

	// Pause pauses playback on the active device
	Pause(ctx context.Context) error

	// CurrentPlayback returns the active session, or nil if there is none
	CurrentPlayback(ctx context.Context) (*Playback, error)

	// TrackTempo returns the tempo of a track in beats per minute.
	// Implementations return ErrTempoUnavailable when no value exists.
	TrackTempo(ctx context.Context, trackID string) (float64, error)
}

// FrameStore is an immutable ordered sequence of decoded animation frames
type FrameStore interface {
	// Len returns the number of frames; zero means the animation is disabled
	Len() int

	// Frame returns the frame at index i, which must be in [0, Len())
	Frame(i int) image.Image
}

// FrameDisplay receives animation frames.
// ShowFrame is called with the animation lock held and must not block.
type FrameDisplay interface {
	ShowFrame(img image.Image)
}

// StatusDisplay receives the song status text and artwork
type StatusDisplay interface {
	SetStatus(text string)

	// SetArtwork shows the album artwork; nil clears it
	SetArtwork(img image.Image)
}

// SpeedSource exposes the user-controlled animation speed factor.
// It is read from timer goroutines and must be safe for concurrent use.
type SpeedSource interface {
	Speed() int
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ArtworkLoader turns an artwork URL into a display-ready image
type ArtworkLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}
