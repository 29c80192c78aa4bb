// Package facesheet assembles the service: configuration, the mapping
// registry built once at startup, the projection and sheet pipeline, the
// record store client, the browser renderer, and the HTTP listener, all
// wired through Fx.
package facesheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/0xalexb/facesheet/config"
	"github.com/0xalexb/facesheet/listener"
	"github.com/0xalexb/facesheet/logging"
	"github.com/0xalexb/facesheet/mapping"
	"github.com/0xalexb/facesheet/mapping/loader"
	"github.com/0xalexb/facesheet/projection"
	"github.com/0xalexb/facesheet/record"
	"github.com/0xalexb/facesheet/render"
	"github.com/0xalexb/facesheet/render/browser"
	"github.com/0xalexb/facesheet/sheet"
	"github.com/0xalexb/facesheet/webhook"
)

var errAppNotInitialized = errors.New("app not initialized")

// App is the configured service built on Fx.
type App struct {
	app *fx.App
}

// NewApp loads the configuration and builds the application graph. The
// mapping registry is resolved during provider construction, before any
// request handling begins, and is immutable afterwards.
func NewApp(opts ...Option) (*App, error) {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	cfg, err := config.Load(options.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if options.LogLevel != "" {
		cfg.LogLevel = options.LogLevel
	}

	logger := logging.NewLogger(logging.LoggerConfig{Level: cfg.LogLevel}, os.Stderr)
	slog.SetDefault(logger)

	return &App{app: configure(cfg, logger, &options)}, nil
}

func configure(cfg *config.Config, logger *slog.Logger, options *Options) *fx.App {
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger}
		}),
		fx.Supply(cfg),
		fx.Supply(logger),
		fx.Provide(
			loader.New(cfg.MappingDir),
			newRegistry,
			newProjector,
			newStore,
			newRenderer,
			newSheetService,
			newRouter,
		),
		listener.Module(),
		fx.Options(options.Modules...),
	)
}

func newRegistry(l *loader.Loader) *mapping.Registry {
	return mapping.NewRegistry(mapping.ResolveAll(l.Documents()))
}

func newProjector(cfg *config.Config) *projection.Projector {
	return projection.NewProjector(projection.Policy{
		DeniedPaths:     cfg.Reduced.DeniedPaths,
		EssentialLabels: cfg.Reduced.EssentialLabels,
	})
}

//nolint:ireturn // the DI graph binds the Store interface
func newStore(cfg *config.Config) record.Store {
	return record.NewHTTPStore(cfg.RecordStore.BaseURL, cfg.RecordStore.Token, cfg.RecordStore.CacheTTL)
}

// newRenderer provides the PDF renderer, tied to the Fx lifecycle so the
// browser launches on start and shuts down on stop. A disabled renderer
// provides nil, which the sheet service treats as HTML-only.
//
//nolint:ireturn // the DI graph binds the Renderer interface
func newRenderer(lifecycle fx.Lifecycle, cfg *config.Config) render.Renderer {
	if cfg.Renderer.Disabled {
		slog.Info("renderer: pdf output disabled")

		return nil
	}

	engine := browser.New(browser.Config{RemoteURL: cfg.Renderer.RemoteURL})

	lifecycle.Append(fx.Hook{
		OnStart: engine.Start,
		OnStop:  engine.Stop,
	})

	return engine
}

func newSheetService(
	registry *mapping.Registry,
	projector *projection.Projector,
	store record.Store,
	renderer render.Renderer,
	cfg *config.Config,
) *sheet.Service {
	return sheet.NewService(registry, projector, store, renderer, cfg.LinkBaseURL)
}

//nolint:ireturn // the DI graph binds http.Handler
func newRouter(sheets *sheet.Service) http.Handler {
	return webhook.NewHandler(sheets).Router()
}

// Start starts the Fx application.
func (app *App) Start() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	err := app.app.Start(context.Background())
	if err != nil {
		return fmt.Errorf("failed to start app: %w", err)
	}

	return nil
}

// Run starts the application and blocks until an OS signal is received,
// then shuts down gracefully.
func (app *App) Run() {
	if app == nil || app.app == nil {
		slog.Error("attempted to run an uninitialized app")

		return
	}

	app.app.Run()
}

// Stop stops the Fx application gracefully.
func (app *App) Stop() error {
	if app == nil || app.app == nil {
		return errAppNotInitialized
	}

	err := app.app.Stop(context.Background())
	if err != nil {
		return fmt.Errorf("failed to stop app: %w", err)
	}

	return nil
}
