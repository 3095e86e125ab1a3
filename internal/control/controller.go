package control

import (
	"context"
	"fmt"

	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

// Animation is the part of the animation driver toggled by the controls
type Animation interface {
	Start() bool
	Stop()
}

// Controller implements the Play and Pause actions of the widget
type Controller struct {
	logger    *zap.Logger
	client    domain.PlaybackClient
	animation Animation
}

// NewController creates a new controller
func NewController(logger *zap.Logger, client domain.PlaybackClient, animation Animation) *Controller {
	return &Controller{
		logger:    logger,
		client:    client,
		animation: animation,
	}
}

// Play resumes playback and starts the animation. On failure the animation
// state is left untouched and the error wraps domain.ErrPlaybackCommand.
func (c *Controller) Play(ctx context.Context) error {
	if err := c.client.Start(ctx); err != nil {
		c.logger.Error("Failed to start playback", zap.Error(err))
		return fmt.Errorf("%w: start: %w", domain.ErrPlaybackCommand, err)
	}

	c.animation.Start()
	c.logger.Info("Playback started")
	return nil
}

// Pause pauses playback. The animation stops whether or not the command
// succeeds, so it always mirrors the user's last action.
func (c *Controller) Pause(ctx context.Context) error {
	err := c.client.Pause(ctx)
	c.animation.Stop()

	if err != nil {
		c.logger.Error("Failed to pause playback", zap.Error(err))
		return fmt.Errorf("%w: pause: %w", domain.ErrPlaybackCommand, err)
	}

	c.logger.Info("Playback paused")
	return nil
}
