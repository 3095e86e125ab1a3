package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/genricoloni/groove/internal/domain"
	spotifyapi "github.com/zmb3/spotify/v2"
	"go.uber.org/zap"
)

// Client adapts the Spotify Web API to domain.PlaybackClient
type Client struct {
	logger *zap.Logger
	api    *spotifyapi.Client
}

// NewClient wraps an authorized Web API client
func NewClient(logger *zap.Logger, api *spotifyapi.Client) *Client {
	return &Client{
		logger: logger,
		api:    api,
	}
}

// Start resumes playback on the user's active device
func (c *Client) Start(ctx context.Context) error {
	if err := c.api.Play(ctx); err != nil {
		return fmt.Errorf("spotify play: %w", err)
	}
	return nil
}

// Pause pauses playback on the user's active device
func (c *Client) Pause(ctx context.Context) error {
	if err := c.api.Pause(ctx); err != nil {
		return fmt.Errorf("spotify pause: %w", err)
	}
	return nil
}

// CurrentPlayback returns the user's playback session, or nil if no device is active
func (c *Client) CurrentPlayback(ctx context.Context) (*domain.Playback, error) {
	state, err := c.api.PlayerState(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify player state: %w", err)
	}

	// The API answers 204 without a body when no device is active
	if state == nil || (state.Item == nil && !state.Playing) {
		return nil, nil
	}

	pb := &domain.Playback{IsPlaying: state.Playing}
	if state.Item != nil {
		pb.Track = toTrack(state.Item)
	}
	return pb, nil
}

// TrackTempo returns the tempo from the track's audio features.
// Apps without audio-features access get 403, reported as ErrTempoUnavailable.
func (c *Client) TrackTempo(ctx context.Context, trackID string) (float64, error) {
	features, err := c.api.GetAudioFeatures(ctx, spotifyapi.ID(trackID))
	if err != nil {
		if tempoUnavailable(err) {
			return 0, fmt.Errorf("%w: %w", domain.ErrTempoUnavailable, err)
		}
		return 0, fmt.Errorf("spotify audio features: %w", err)
	}
	if len(features) == 0 || features[0] == nil {
		return 0, domain.ErrTempoUnavailable
	}
	return float64(features[0].Tempo), nil
}

// tempoUnavailable reports API errors that will not change on retry
func tempoUnavailable(err error) bool {
	var apiErr spotifyapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusForbidden || apiErr.Status == http.StatusNotFound
}

func toTrack(item *spotifyapi.FullTrack) *domain.Track {
	track := &domain.Track{
		ID:   string(item.ID),
		Name: item.Name,
	}
	for _, a := range item.Artists {
		track.Artists = append(track.Artists, domain.Artist{Name: a.Name})
	}

	// Images are ordered widest first; the smallest is enough for a thumbnail
	if images := item.Album.Images; len(images) > 0 {
		track.ArtworkURL = images[len(images)-1].URL
	}
	return track
}
