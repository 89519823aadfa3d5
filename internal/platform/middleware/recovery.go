package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carefind/carefind/internal/platform/apperror"
)

// Recovery converts a handler panic into the same error shape the domain
// handlers produce: an untagged failure mapped through the apperror status
// table. http.ErrAbortHandler is re-raised so the server still tears the
// connection down.
func Recovery(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				rid, _ := c.Get("request_id").(string)
				logger.Error().
					Str("request_id", rid).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Str("panic", fmt.Sprintf("%v", r)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				perr := apperror.New(apperror.KindRemoteFailure, "internal server error")
				err = echo.NewHTTPError(apperror.HTTPStatus(perr), perr.Error())
			}()
			return next(c)
		}
	}
}
