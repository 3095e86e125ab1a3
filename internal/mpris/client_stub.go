//go:build !linux

package mpris

import (
	"context"
	"fmt"

	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

// Client stub for non-Linux platforms
type Client struct {
	logger *zap.Logger
}

// NewClient returns an error indicating MPRIS is not supported on this platform
func NewClient(logger *zap.Logger) (*Client, error) {
	return nil, fmt.Errorf("%w: MPRIS is only supported on Linux systems", domain.ErrAuthInit)
}

// Start always fails on non-Linux platforms
func (c *Client) Start(context.Context) error {
	return domain.ErrNoPlayer
}

// Pause always fails on non-Linux platforms
func (c *Client) Pause(context.Context) error {
	return domain.ErrNoPlayer
}

// CurrentPlayback reports no session on non-Linux platforms
func (c *Client) CurrentPlayback(context.Context) (*domain.Playback, error) {
	return nil, nil
}

// TrackTempo is not exposed by MPRIS
func (c *Client) TrackTempo(context.Context, string) (float64, error) {
	return 0, domain.ErrTempoUnavailable
}

// Close is a no-op on non-Linux platforms
func (c *Client) Close() error {
	return nil
}
