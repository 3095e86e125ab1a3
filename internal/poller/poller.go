package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

// Status texts published to the display
const (
	MsgNoSong = "No song is currently playing."
	MsgError  = "Error fetching song data"
)

const (
	unknownArtist = "Unknown Artist"

	// pollTimeout bounds a single poll, including the tempo and artwork lookups
	pollTimeout = 10 * time.Second
)

// Animator is the part of the animation driver the poller drives at startup
type Animator interface {
	ShowFirstFrame()
	Start() bool
}

// Poller periodically reads the playback session and publishes a status line
type Poller struct {
	logger   *zap.Logger
	client   domain.PlaybackClient
	display  domain.StatusDisplay
	animator Animator
	artwork  domain.ArtworkLoader
	interval time.Duration

	syncOnce sync.Once

	mu sync.Mutex
	// noTempo is the last track whose tempo lookup reported ErrTempoUnavailable
	noTempo string

	// lastArtwork is only touched from the goroutine running Update
	lastArtwork string
}

// NewPoller creates a poller; artwork may be nil to disable album covers
func NewPoller(
	logger *zap.Logger,
	client domain.PlaybackClient,
	display domain.StatusDisplay,
	animator Animator,
	artwork domain.ArtworkLoader,
	interval time.Duration,
) *Poller {
	return &Poller{
		logger:   logger,
		client:   client,
		display:  display,
		animator: animator,
		artwork:  artwork,
		interval: interval,
	}
}

// Run synchronizes the animation with the remote state once, then publishes
// the status immediately and on every interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Sync(ctx)
	p.Update(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Playback poller started", zap.Duration("interval", p.interval))

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Playback poller stopped")
			return
		case <-ticker.C:
			p.Update(ctx)
		}
	}
}

// Sync starts the animation if playback is already active. Only the first
// call has any effect.
func (p *Poller) Sync(ctx context.Context) {
	p.syncOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, pollTimeout)
		defer cancel()

		pb, err := p.client.CurrentPlayback(ctx)
		if err != nil {
			p.logger.Error("Error initializing playback state", zap.Error(err))
			return
		}

		playing := pb != nil && pb.IsPlaying
		if playing {
			p.animator.ShowFirstFrame()
			p.animator.Start()
		}

		p.logger.Info("Initial playback state", zap.Bool("playing", playing))
	})
}

// Snapshot queries the current session. Errors wrap domain.ErrPoll; a
// missing tempo never fails the snapshot.
func (p *Poller) Snapshot(ctx context.Context) (domain.PlaybackSnapshot, error) {
	pb, err := p.client.CurrentPlayback(ctx)
	if err != nil {
		return domain.PlaybackSnapshot{}, fmt.Errorf("%w: %w", domain.ErrPoll, err)
	}
	if pb == nil || !pb.IsPlaying || pb.Track == nil {
		return domain.PlaybackSnapshot{}, nil
	}

	snap := domain.PlaybackSnapshot{
		IsPlaying:  true,
		TrackID:    pb.Track.ID,
		TrackName:  pb.Track.Name,
		ArtistName: unknownArtist,
		ArtworkURL: pb.Track.ArtworkURL,
	}
	if len(pb.Track.Artists) > 0 {
		snap.ArtistName = pb.Track.Artists[0].Name
	}

	if snap.TrackID != "" && !p.tempoKnownUnavailable(snap.TrackID) {
		tempo, err := p.client.TrackTempo(ctx, snap.TrackID)
		switch {
		case err == nil:
			snap.TempoBPM = &tempo
		case errors.Is(err, domain.ErrTempoUnavailable):
			p.logger.Debug("No tempo for track", zap.String("track", snap.TrackID), zap.Error(err))
			p.mu.Lock()
			p.noTempo = snap.TrackID
			p.mu.Unlock()
		default:
			p.logger.Warn("Tempo lookup failed", zap.String("track", snap.TrackID), zap.Error(err))
		}
	}

	return snap, nil
}

func (p *Poller) tempoKnownUnavailable(trackID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.noTempo == trackID
}

// Update publishes the current status and artwork. It never fails; errors
// are logged and turned into the fallback text.
func (p *Poller) Update(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	snap, err := p.Snapshot(ctx)
	if err != nil {
		p.logger.Error("Error in status update", zap.Error(err))
	}

	p.display.SetStatus(StatusText(snap, err))
	p.updateArtwork(ctx, snap, err)
}

// StatusText renders the status line for a poll result
func StatusText(snap domain.PlaybackSnapshot, err error) string {
	if err != nil {
		return MsgError
	}
	if !snap.IsPlaying {
		return MsgNoSong
	}

	text := fmt.Sprintf("Now playing: %s by %s", snap.TrackName, snap.ArtistName)
	if snap.TempoBPM != nil {
		text += fmt.Sprintf(" (BPM: %.1f)", *snap.TempoBPM)
	}
	return text
}

// updateArtwork reloads the cover only when the artwork URL changes
func (p *Poller) updateArtwork(ctx context.Context, snap domain.PlaybackSnapshot, pollErr error) {
	if p.artwork == nil {
		return
	}

	url := ""
	if pollErr == nil && snap.IsPlaying {
		url = snap.ArtworkURL
	}
	if url == p.lastArtwork {
		return
	}
	p.lastArtwork = url

	if url == "" {
		p.display.SetArtwork(nil)
		return
	}

	img, err := p.artwork.Load(ctx, url)
	if err != nil {
		p.logger.Warn("Failed to load artwork", zap.String("url", url), zap.Error(err))
		p.display.SetArtwork(nil)
		return
	}
	p.display.SetArtwork(img)
}
