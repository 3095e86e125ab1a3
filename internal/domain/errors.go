package domain

import "errors"

var (
	// ErrAuthInit marks a failure to construct an authorized PlaybackClient
	ErrAuthInit = errors.New("playback client initialization failed")

	// ErrPlaybackCommand marks a failed start or pause command
	ErrPlaybackCommand = errors.New("playback command failed")

	// ErrPoll marks a failed playback state query
	ErrPoll = errors.New("playback poll failed")

	// ErrFrameLoad marks a failure to decode the animation resource
	ErrFrameLoad = errors.New("animation frames could not be loaded")

	// ErrNoPlayer is returned by local backends when no player is reachable
	ErrNoPlayer = errors.New("no media player available")

	// ErrTempoUnavailable is returned when a backend has no tempo for a track
	ErrTempoUnavailable = errors.New("tempo unavailable")
)
