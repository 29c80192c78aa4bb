package listener

import (
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"github.com/0xalexb/facesheet/config"
)

// Module wires the HTTP server into the Fx lifecycle: it consumes the
// service config and the router, starts serving on application start,
// and drains on stop. A fatal serve error triggers application shutdown.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func Module() fx.Option {
	return fx.Module("listener",
		fx.Invoke(func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, handler http.Handler) error {
			srv, err := NewServer(handler, cfg.Address, func() {
				shutdownErr := shutdowner.Shutdown()
				if shutdownErr != nil {
					slog.Error("listener: failed to trigger shutdown", "error", shutdownErr)
				}
			})
			if err != nil {
				return err
			}

			lifecycle.Append(fx.Hook{
				OnStart: srv.Start,
				OnStop:  srv.Stop,
			})

			return nil
		}),
	)
}
