package engine

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Poller is the long-running playback status loop
type Poller interface {
	Run(ctx context.Context)
}

// Animation is stopped on shutdown so no tick outlives the engine
type Animation interface {
	Stop()
}

// Engine owns the lifetime of the background poller and the animation.
type Engine struct {
	logger    *zap.Logger
	poller    Poller
	animation Animation

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewEngine creates a new orchestration engine
func NewEngine(logger *zap.Logger, poller Poller, animation Animation) *Engine {
	return &Engine{
		logger:    logger,
		poller:    poller,
		animation: animation,
	}
}

// Start launches the poller in a goroutine.
// It returns immediately (non-blocking).
func (e *Engine) Start(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return nil
	}

	e.logger.Info("Engine starting...")

	// The start context only bounds startup; the poller lives until Stop
	loopCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true

	go func(done chan struct{}) {
		defer close(done)
		e.poller.Run(loopCtx)
	}(e.done)

	return nil
}

// Stop cancels the poller, waits for it to return and halts the animation
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return nil
	}
	e.running = false
	cancel, done := e.cancel, e.done
	e.mu.Unlock()

	e.logger.Info("Engine stopping...")

	cancel()
	e.animation.Stop()

	select {
	case <-done:
		e.logger.Info("Engine stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("poller did not stop: %w", ctx.Err())
	}
}
