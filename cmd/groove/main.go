package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/genricoloni/groove/internal/animation"
	"github.com/genricoloni/groove/internal/artwork"
	"github.com/genricoloni/groove/internal/config"
	"github.com/genricoloni/groove/internal/control"
	"github.com/genricoloni/groove/internal/domain"
	"github.com/genricoloni/groove/internal/engine"
	"github.com/genricoloni/groove/internal/fetcher"
	"github.com/genricoloni/groove/internal/frames"
	"github.com/genricoloni/groove/internal/mpris"
	"github.com/genricoloni/groove/internal/poller"
	"github.com/genricoloni/groove/internal/spotify"
	"github.com/genricoloni/groove/internal/ui"
)

const appID = "io.github.genricoloni.groove"

// AppOptions is the complete dependency graph of the widget
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		config.NewAppConfig,
		newFyneApp,
		newWidget,
		frames.NewScreenResolution,
		newFrameStore,
		animation.NewClockScheduler,
		newDriver,
		fetcher.NewHTTPFetcher,
		newArtworkLoader,
		newPlaybackClient,
		newController,
		newPoller,
		newEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	var (
		fyneApp fyne.App
		window  *ui.Widget
	)

	app := fx.New(AppOptions, fx.Populate(&fyneApp, &window))
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "groove: %v\n", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// A signal closes the window, which ends the UI loop below
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	// The fyne event loop must own the main goroutine
	window.Window().ShowAndRun()
	cancel()

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance.
// GROOVE_DEBUG switches to a development logger.
func newLogger() (*zap.Logger, error) {
	if os.Getenv("GROOVE_DEBUG") != "" {
		return zap.NewDevelopment()
	}
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func newFyneApp() fyne.App {
	return fyneapp.NewWithID(appID)
}

func newWidget(logger *zap.Logger, app fyne.App, cfg *config.AppConfig) *ui.Widget {
	return ui.NewWidget(logger, app, cfg.GetSpeed(), cfg.GetArtworkSize())
}

// newFrameStore loads the animation frames. A load failure is logged and
// leaves the store empty, so the widget runs without animation.
func newFrameStore(logger *zap.Logger, cfg *config.AppConfig, res *domain.ScreenResolution) domain.FrameStore {
	height := frames.FrameHeight(res, cfg.GetFrameHeight())
	store, err := frames.Load(logger, cfg.GetAnimationFile(), cfg.GetFrameCount(), height)
	if err != nil {
		logger.Error("Animation disabled", zap.Error(err))
	}
	return store
}

func newDriver(logger *zap.Logger, store domain.FrameStore, window *ui.Widget, sched animation.Scheduler) *animation.Driver {
	return animation.NewDriver(logger, store, window, window, sched)
}

func newArtworkLoader(logger *zap.Logger, f *fetcher.HTTPFetcher, cfg *config.AppConfig) domain.ArtworkLoader {
	return artwork.NewThumbnailLoader(logger, f, cfg.GetArtworkSize())
}

// newPlaybackClient builds the configured backend. For spotify this runs the
// interactive authorization and blocks until it completes or times out.
func newPlaybackClient(lc fx.Lifecycle, logger *zap.Logger, cfg *config.AppConfig, app fyne.App) (domain.PlaybackClient, error) {
	switch cfg.GetBackend() {
	case config.BackendMpris:
		client, err := mpris.NewClient(logger)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		return client, nil

	default:
		id, secret, redirect := cfg.Credentials()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GetAuthTimeout())
		defer cancel()

		openURL := func(raw string) error {
			u, err := url.Parse(raw)
			if err != nil {
				return err
			}
			return app.OpenURL(u)
		}
		client, err := spotify.Connect(ctx, logger, spotify.Credentials{
			ClientID:     id,
			ClientSecret: secret,
			RedirectURI:  redirect,
		}, openURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func newController(logger *zap.Logger, client domain.PlaybackClient, driver *animation.Driver) *control.Controller {
	return control.NewController(logger, client, driver)
}

func newPoller(
	logger *zap.Logger,
	cfg *config.AppConfig,
	client domain.PlaybackClient,
	window *ui.Widget,
	driver *animation.Driver,
	art domain.ArtworkLoader,
) *poller.Poller {
	return poller.NewPoller(logger, client, window, driver, art, cfg.GetPollInterval())
}

func newEngine(logger *zap.Logger, p *poller.Poller, driver *animation.Driver) *engine.Engine {
	return engine.NewEngine(logger, p, driver)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(
	lc fx.Lifecycle,
	logger *zap.Logger,
	cfg *config.AppConfig,
	window *ui.Widget,
	ctrl *control.Controller,
	eng *engine.Engine,
) {
	// Buttons are bound here to keep the widget free of a controller dependency
	window.Bind(ctrl, cfg.GetCommandTimeout())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Groove started")
			return eng.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			return eng.Stop(ctx)
		},
	})
}
