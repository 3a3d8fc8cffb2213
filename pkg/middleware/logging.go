package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vango-dev/vroute/pkg/router"
)

// Logging creates middleware that logs every navigation once it settles.
// Successful and superseded navigations log at Info and Debug, failures
// at Warn. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) router.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return router.MiddlewareFunc(func(ctx context.Context, nav *router.Navigation, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"id", nav.ID,
			"from", nav.From,
			"to", nav.To,
			"mode", nav.Mode.String(),
			"route", nav.RouteName(),
			"duration", time.Since(start),
		}
		switch {
		case err == nil:
			logger.InfoContext(ctx, "navigation", attrs...)
		case errors.Is(err, router.ErrNavigationSuperseded):
			logger.DebugContext(ctx, "navigation superseded", attrs...)
		default:
			logger.WarnContext(ctx, "navigation failed", append(attrs, "error", err)...)
		}
		return err
	})
}
