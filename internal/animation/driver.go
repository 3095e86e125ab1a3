package animation

import (
	"sync"
	"time"

	"github.com/genricoloni/groove/internal/config"
	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

// TickUnit is the delay contributed by one step of the speed factor
const TickUnit = 10 * time.Millisecond

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// clockScheduler schedules callbacks on the runtime timer heap
type clockScheduler struct{}

// NewClockScheduler returns a Scheduler backed by time.AfterFunc
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Driver advances the looping animation while playback is active.
// It is the sole owner of the animation state.
type Driver struct {
	logger  *zap.Logger
	frames  domain.FrameStore
	display domain.FrameDisplay
	speed   domain.SpeedSource
	sched   Scheduler

	mu      sync.Mutex
	playing bool
	current int
	timer   Timer
	// generation invalidates callbacks scheduled before the last Stop
	generation uint64
}

// NewDriver creates a stopped animation driver
func NewDriver(
	logger *zap.Logger,
	frames domain.FrameStore,
	display domain.FrameDisplay,
	speed domain.SpeedSource,
	sched Scheduler,
) *Driver {
	return &Driver{
		logger:  logger,
		frames:  frames,
		display: display,
		speed:   speed,
		sched:   sched,
	}
}

// Start marks the animation as playing and performs one immediate tick.
// It returns false without side effects if the animation was already playing.
func (d *Driver) Start() bool {
	d.mu.Lock()
	if d.playing {
		d.mu.Unlock()
		return false
	}
	d.playing = true
	gen := d.generation
	d.mu.Unlock()

	d.logger.Debug("Animation started")
	d.tick(gen)
	return true
}

// Stop marks the animation as stopped and cancels the pending tick
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	if d.playing {
		d.logger.Debug("Animation stopped", zap.Int("frame", d.current))
	}
	d.playing = false
}

// ShowFirstFrame rewinds to frame 0 and displays it
func (d *Driver) ShowFirstFrame() {
	if d.frames.Len() == 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.current = 0
	d.display.ShowFrame(d.frames.Frame(0))
}

// Tick advances the animation by one frame and schedules the next tick.
// It is a no-op while stopped or when no frames are loaded.
func (d *Driver) Tick() {
	d.mu.Lock()
	gen := d.generation
	d.mu.Unlock()

	d.tick(gen)
}

// State returns a copy of the current animation state
func (d *Driver) State() domain.AnimationState {
	d.mu.Lock()
	defer d.mu.Unlock()

	return domain.AnimationState{
		Playing:      d.playing,
		CurrentFrame: d.current,
		FrameCount:   d.frames.Len(),
		SpeedFactor:  config.ClampSpeed(d.speed.Speed()),
	}
}

func (d *Driver) tick(gen uint64) {
	count := d.frames.Len()

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation || !d.playing || count == 0 {
		return
	}

	d.current = (d.current + 1) % count

	// The frame is pushed under the lock so no frame follows a Stop and
	// concurrent ticks publish in index order. ShowFrame must not block.
	d.display.ShowFrame(d.frames.Frame(d.current))

	// Speed is read here so slider changes apply from the next delay on
	delay := time.Duration(config.ClampSpeed(d.speed.Speed())) * TickUnit
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.sched.AfterFunc(delay, func() { d.tick(gen) })
}
