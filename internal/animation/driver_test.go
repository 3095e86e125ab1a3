package animation

import (
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/genricoloni/groove/internal/domain"
	"go.uber.org/zap"
)

// TestDriver_TickAdvancesModulo verifies that N ticks move the index by N modulo the frame count.
func TestDriver_TickAdvancesModulo(t *testing.T) {
	tests := []struct {
		name       string
		frameCount int
		ticks      int
	}{
		{name: "Single frame", frameCount: 1, ticks: 7},
		{name: "Fewer ticks than frames", frameCount: 27, ticks: 5},
		{name: "Exact loop", frameCount: 27, ticks: 27},
		{name: "Several loops", frameCount: 4, ticks: 103},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, display, _ := newTestDriver(tt.frameCount, 5)

			d.Start() // one immediate tick
			initial := d.State().CurrentFrame

			for i := 0; i < tt.ticks; i++ {
				d.Tick()
			}

			want := (initial + tt.ticks) % tt.frameCount
			if got := d.State().CurrentFrame; got != want {
				t.Errorf("CurrentFrame: expected %d, got %d", want, got)
			}
			if got := display.count(); got != tt.ticks+1 {
				t.Errorf("frames pushed: expected %d, got %d", tt.ticks+1, got)
			}
			if last := display.last(); last != want {
				t.Errorf("last frame pushed: expected %d, got %d", want, last)
			}
		})
	}
}

func TestDriver_TickWhileStoppedIsNoop(t *testing.T) {
	d, display, sched := newTestDriver(27, 5)

	for i := 0; i < 10; i++ {
		d.Tick()
	}

	state := d.State()
	if state.Playing {
		t.Error("driver should not be playing")
	}
	if state.CurrentFrame != 0 {
		t.Errorf("CurrentFrame should stay 0, got %d", state.CurrentFrame)
	}
	if display.count() != 0 {
		t.Errorf("no frame should be pushed, got %d", display.count())
	}
	if sched.pendingCount() != 0 {
		t.Errorf("no tick should be scheduled, got %d", sched.pendingCount())
	}
}

func TestDriver_EmptyStoreIsNoop(t *testing.T) {
	d, display, sched := newTestDriver(0, 5)

	if !d.Start() {
		t.Fatal("Start should still report the transition")
	}
	d.Tick()
	d.ShowFirstFrame()

	if !d.State().Playing {
		t.Error("playing flag should follow Start even without frames")
	}
	if display.count() != 0 {
		t.Errorf("no frame should be pushed, got %d", display.count())
	}
	if sched.pendingCount() != 0 {
		t.Errorf("no tick should be scheduled, got %d", sched.pendingCount())
	}
}

// TestDriver_StartPushesOneFrameImmediately checks the false->true transition.
func TestDriver_StartPushesOneFrameImmediately(t *testing.T) {
	d, display, sched := newTestDriver(27, 5)

	if !d.Start() {
		t.Fatal("expected Start to report a transition")
	}

	if display.count() != 1 {
		t.Fatalf("expected exactly one frame before any delay, got %d", display.count())
	}
	if display.last() != 1 {
		t.Errorf("expected frame 1 to be pushed, got %d", display.last())
	}
	if sched.pendingCount() != 1 {
		t.Fatalf("expected one scheduled tick, got %d", sched.pendingCount())
	}
	if delay := sched.lastDelay(); delay != 50*time.Millisecond {
		t.Errorf("expected 50ms delay, got %v", delay)
	}

	// Starting again must not spawn a second chain
	if d.Start() {
		t.Error("second Start should report no transition")
	}
	if display.count() != 1 {
		t.Errorf("second Start pushed a frame, total %d", display.count())
	}
}

func TestDriver_ScheduledChain(t *testing.T) {
	d, display, sched := newTestDriver(3, 1)

	d.Start()
	for i := 0; i < 5; i++ {
		if !sched.fireNext() {
			t.Fatalf("expected pending tick at step %d", i)
		}
	}

	if got := display.count(); got != 6 {
		t.Errorf("expected 6 frames pushed, got %d", got)
	}
	if got := d.State().CurrentFrame; got != 0 {
		t.Errorf("expected frame 0 after 6 ticks of 3 frames, got %d", got)
	}
}

func TestDriver_StopCancelsPendingTick(t *testing.T) {
	d, display, sched := newTestDriver(27, 5)

	d.Start()
	pending := sched.next()
	d.Stop()

	if !pending.cancelled() {
		t.Error("pending timer should be cancelled by Stop")
	}

	// A callback that slipped past Stop must not advance the animation
	pending.f()

	if d.State().Playing {
		t.Error("driver should be stopped")
	}
	if display.count() != 1 {
		t.Errorf("orphaned tick pushed a frame, total %d", display.count())
	}
	if got := d.State().CurrentFrame; got != 1 {
		t.Errorf("orphaned tick advanced the frame to %d", got)
	}
}

func TestDriver_RestartAfterStop(t *testing.T) {
	d, display, sched := newTestDriver(27, 5)

	d.Start()
	stale := sched.next()
	d.Stop()

	if !d.Start() {
		t.Fatal("expected Start after Stop to report a transition")
	}
	stale.f()

	if display.count() != 2 {
		t.Errorf("expected 2 frames (one per Start), got %d", display.count())
	}
	if got := d.State().CurrentFrame; got != 2 {
		t.Errorf("expected frame 2, got %d", got)
	}
}

// TestDriver_SpeedChangeAppliesToNextDelay verifies the speed is read when scheduling.
func TestDriver_SpeedChangeAppliesToNextDelay(t *testing.T) {
	d, _, sched := newTestDriver(27, 5)

	d.Start()
	first := sched.next()
	if first.delay != 50*time.Millisecond {
		t.Fatalf("expected 50ms, got %v", first.delay)
	}

	d.speed.(*fakeSpeed).set(1)

	// The pending tick keeps its original delay
	if first.delay != 50*time.Millisecond {
		t.Errorf("pending delay changed to %v", first.delay)
	}
	if sched.pendingCount() != 1 {
		t.Errorf("speed change must not reschedule, pending %d", sched.pendingCount())
	}

	sched.fireNext()
	if delay := sched.lastDelay(); delay != 10*time.Millisecond {
		t.Errorf("expected 10ms after speed change, got %v", delay)
	}
}

func TestDriver_SpeedIsClamped(t *testing.T) {
	tests := []struct {
		speed    int
		expected time.Duration
	}{
		{speed: 0, expected: 10 * time.Millisecond},
		{speed: -3, expected: 10 * time.Millisecond},
		{speed: 10, expected: 100 * time.Millisecond},
		{speed: 99, expected: 100 * time.Millisecond},
	}

	for _, tt := range tests {
		d, _, sched := newTestDriver(27, tt.speed)
		d.Start()
		if delay := sched.lastDelay(); delay != tt.expected {
			t.Errorf("speed %d: expected %v, got %v", tt.speed, tt.expected, delay)
		}
	}
}

func TestDriver_ShowFirstFrame(t *testing.T) {
	d, display, _ := newTestDriver(27, 5)

	d.Start()
	d.Tick()
	d.Tick()
	d.ShowFirstFrame()

	if got := d.State().CurrentFrame; got != 0 {
		t.Errorf("expected frame 0, got %d", got)
	}
	if display.last() != 0 {
		t.Errorf("expected frame 0 to be displayed, got %d", display.last())
	}
}

// TestDriver_NoFrameAfterStop races ticks against Stop: once Stop returns,
// no further frame may reach the display, and frames arrive in index order.
func TestDriver_NoFrameAfterStop(t *testing.T) {
	const frameCount = 27

	for round := 0; round < 50; round++ {
		d, display, _ := newTestDriver(frameCount, 5)
		d.Start()

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					d.Tick()
				}
			}()
		}

		d.Stop()
		pushed := display.count()
		wg.Wait()

		if got := display.count(); got != pushed {
			t.Fatalf("round %d: %d frames pushed after Stop", round, got-pushed)
		}

		display.mu.Lock()
		for i := 1; i < len(display.frames); i++ {
			if want := (display.frames[i-1] + 1) % frameCount; display.frames[i] != want {
				t.Errorf("round %d: frame %d out of order: got %d, want %d", round, i, display.frames[i], want)
				break
			}
		}
		display.mu.Unlock()
	}
}

func TestClockScheduler(t *testing.T) {
	done := make(chan struct{})
	NewClockScheduler().AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Timeout: scheduled callback did not run")
	}
}

// newTestDriver builds a driver over frameCount frames whose red channel encodes the index
func newTestDriver(frameCount, speed int) (*Driver, *recordingDisplay, *manualScheduler) {
	display := &recordingDisplay{}
	sched := &manualScheduler{}
	d := NewDriver(zap.NewNop(), newIndexedStore(frameCount), display, &fakeSpeed{value: speed}, sched)
	return d, display, sched
}

type indexedStore []image.Image

func newIndexedStore(n int) indexedStore {
	s := make(indexedStore, n)
	for i := range s {
		img := image.NewRGBA(image.Rect(0, 0, 1, 1))
		img.Set(0, 0, color.RGBA{R: uint8(i), A: 255})
		s[i] = img
	}
	return s
}

func (s indexedStore) Len() int                { return len(s) }
func (s indexedStore) Frame(i int) image.Image { return s[i] }

type recordingDisplay struct {
	mu     sync.Mutex
	frames []int
}

func (r *recordingDisplay) ShowFrame(img image.Image) {
	red, _, _, _ := img.At(0, 0).RGBA()
	r.mu.Lock()
	r.frames = append(r.frames, int(red>>8))
	r.mu.Unlock()
}

func (r *recordingDisplay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recordingDisplay) last() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return -1
	}
	return r.frames[len(r.frames)-1]
}

type fakeSpeed struct {
	mu    sync.Mutex
	value int
}

func (f *fakeSpeed) Speed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *fakeSpeed) set(v int) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}

// manualScheduler records callbacks instead of running them
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (t *manualTimer) cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// next returns the most recently scheduled timer that is still pending
func (s *manualScheduler) next() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.timers) - 1; i >= 0; i-- {
		t := s.timers[i]
		t.mu.Lock()
		active := !t.stopped && !t.fired
		t.mu.Unlock()
		if active {
			return t
		}
	}
	return nil
}

func (s *manualScheduler) fireNext() bool {
	t := s.next()
	if t == nil {
		return false
	}
	t.mu.Lock()
	t.fired = true
	t.mu.Unlock()
	t.f()
	return true
}

func (s *manualScheduler) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

func (s *manualScheduler) lastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return 0
	}
	return s.timers[len(s.timers)-1].delay
}

var _ domain.FrameStore = indexedStore(nil)
