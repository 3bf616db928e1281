package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/locvowork/shift_scheduler/internal/logger"
)

// RequestLogger logs one zerolog line per request and hands a request-scoped
// logger to the handlers through the request context.
func RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		BeforeNextFunc: func(c echo.Context) {
			ctx := logger.WithLogger(c.Request().Context(), map[string]interface{}{
				"method": c.Request().Method,
				"path":   c.Path(),
			})
			c.SetRequest(c.Request().WithContext(ctx))
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			var ev *zerolog.Event
			if v.Error != nil || v.Status >= 500 {
				ev = logger.Global().Error().Err(v.Error)
			} else {
				ev = logger.Global().Info()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
