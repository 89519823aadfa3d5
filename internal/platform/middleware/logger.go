package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carefind/carefind/internal/platform/auth"
)

// Logger emits one structured line per request after the handler chain
// returns. Authenticated requests carry the principal's id and role so
// patient and hospital traffic can be told apart in the stream.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			// Read the request after the chain: the auth middleware swaps
			// in a context carrying the verified principal.
			req := c.Request()
			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			if rid, ok := c.Get("request_id").(string); ok && rid != "" {
				evt = evt.Str("request_id", rid)
			}
			if userID := auth.UserIDFromContext(req.Context()); userID != uuid.Nil {
				evt = evt.
					Str("user_id", userID.String()).
					Str("role", auth.RoleFromContext(req.Context()))
			}

			evt.
				Str("method", req.Method).
				Str("route", c.Path()).
				Str("path", req.URL.Path).
				Int("status", c.Response().Status).
				Int64("bytes_out", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("http request")

			return err
		}
	}
}
