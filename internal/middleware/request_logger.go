package middleware

import (
	"time"

	"myMarketplace/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request and puts a request scoped logger
// carrying the request id into the request context.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = req.Header.Get(echo.HeaderXRequestID)
			}

			l := logger.With("request_id", requestID)
			c.SetRequest(req.WithContext(logger.IntoContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			l.Info("request",
				"method", req.Method,
				"path", c.Path(),
				"uri", req.RequestURI,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
				"remote_ip", c.RealIP(),
			)

			return nil
		}
	}
}
