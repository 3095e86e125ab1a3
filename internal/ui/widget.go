package ui

import (
	"context"
	"image"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/genricoloni/groove/internal/config"
	"github.com/genricoloni/groove/internal/poller"
	"go.uber.org/zap"
)

// Window constants
const (
	WindowTitle = "Groove"
	SpeedLabel  = "Speed"

	// InitialStatus is shown until the first poll completes
	InitialStatus = poller.MsgNoSong
)

// Actions are the playback commands bound to the Play and Pause buttons
type Actions interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
}

// Widget is the main window of the player widget.
// All widget mutations are scheduled on the fyne UI goroutine with fyne.Do.
type Widget struct {
	logger *zap.Logger
	window fyne.Window

	playBtn  *widget.Button
	pauseBtn *widget.Button
	status   *widget.Label
	artwork  *canvas.Image
	frame    *canvas.Image
	slider   *widget.Slider
	speed    binding.Float

	actions Actions
	timeout time.Duration

	// run executes button commands off the UI goroutine
	run func(func())
}

// NewWidget creates the window and lays out its widgets.
// Buttons do nothing until Bind is called.
func NewWidget(logger *zap.Logger, app fyne.App, speed int, artworkSize int) *Widget {
	w := &Widget{
		logger: logger,
		window: app.NewWindow(WindowTitle),
		speed:  binding.NewFloat(),
		run:    func(f func()) { go f() },
	}
	_ = w.speed.Set(float64(config.ClampSpeed(speed)))

	w.playBtn = widget.NewButton("Play", w.onPlay)
	w.pauseBtn = widget.NewButton("Pause", w.onPause)
	w.status = widget.NewLabel(InitialStatus)
	w.status.Wrapping = fyne.TextWrapWord

	w.artwork = canvas.NewImageFromImage(nil)
	w.artwork.FillMode = canvas.ImageFillContain
	w.artwork.SetMinSize(fyne.NewSize(float32(artworkSize), float32(artworkSize)))
	w.artwork.Hide()

	w.frame = canvas.NewImageFromImage(nil)
	w.frame.FillMode = canvas.ImageFillOriginal

	w.slider = widget.NewSliderWithData(config.MinSpeed, config.MaxSpeed, w.speed)
	w.slider.Step = 1

	w.window.SetMaster()
	w.window.SetContent(container.NewVBox(
		container.NewGridWithColumns(2, w.playBtn, w.pauseBtn),
		container.NewCenter(w.frame),
		container.NewBorder(nil, nil, w.artwork, nil, w.status),
		container.NewBorder(nil, nil, widget.NewLabel(SpeedLabel), nil, w.slider),
	))

	return w
}

// Bind connects the buttons to the playback commands.
// Each command is bounded by timeout.
func (w *Widget) Bind(actions Actions, timeout time.Duration) {
	w.actions = actions
	w.timeout = timeout
}

// ShowFrame displays an animation frame
func (w *Widget) ShowFrame(img image.Image) {
	fyne.Do(func() {
		w.frame.Image = img
		if img != nil {
			b := img.Bounds()
			w.frame.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
		}
		w.frame.Refresh()
	})
}

// SetStatus replaces the song status text
func (w *Widget) SetStatus(text string) {
	fyne.Do(func() {
		w.status.SetText(text)
	})
}

// SetArtwork shows the album artwork; nil hides it
func (w *Widget) SetArtwork(img image.Image) {
	fyne.Do(func() {
		w.artwork.Image = img
		if img == nil {
			w.artwork.Hide()
		} else {
			w.artwork.Show()
		}
		w.artwork.Refresh()
	})
}

// Speed returns the slider value as a speed factor
func (w *Widget) Speed() int {
	v, err := w.speed.Get()
	if err != nil {
		return config.MaxSpeed
	}
	return config.ClampSpeed(int(math.Round(v)))
}

// Window returns the underlying fyne window
func (w *Widget) Window() fyne.Window {
	return w.window
}

func (w *Widget) onPlay() {
	w.command("play", func(a Actions, ctx context.Context) error { return a.Play(ctx) })
}

func (w *Widget) onPause() {
	w.command("pause", func(a Actions, ctx context.Context) error { return a.Pause(ctx) })
}

func (w *Widget) command(name string, fn func(Actions, context.Context) error) {
	if w.actions == nil {
		w.logger.Warn("Command ignored, no actions bound", zap.String("command", name))
		return
	}
	actions, timeout := w.actions, w.timeout

	w.run(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := fn(actions, ctx); err != nil {
			w.logger.Error("Playback command failed", zap.String("command", name), zap.Error(err))
			fyne.Do(func() {
				dialog.ShowError(err, w.window)
			})
		}
	})
}
