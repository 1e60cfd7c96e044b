// Package middleware holds the HTTP middleware for the Ogonek server:
// request logging, panic recovery, security headers, CORS, the API key
// gate, login rate limiting, and Prometheus request metrics. Registration
// order lives in internal/app.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger emits one slog line per request after the handler runs,
// once the final status is known. 5xx responses log at error, 4xx at
// warn, everything else at info, so log-level filters double as an
// error feed.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			status := c.Response().Status

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Duration("latency", time.Since(start)),
				slog.String("remote_ip", c.RealIP()),
			}
			if q := req.URL.RawQuery; q != "" {
				attrs = append(attrs, slog.String("query", q))
			}

			slog.LogAttrs(req.Context(), level, "request", attrs...)
			return err
		}
	}
}
