package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with an identifier for log correlation. A
// caller-supplied value is honored only when it parses as a UUID, so
// arbitrary client strings never end up in logs or response headers.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(requestIDHeader)
			if _, err := uuid.Parse(requestID); err != nil {
				if requestID != "" {
					log.Debug().Str("request_id", requestID).Msg("replacing malformed request id")
				}
				requestID = uuid.NewString()
			}

			c.Response().Header().Set(requestIDHeader, requestID)
			c.Set("request_id", requestID)

			return next(c)
		}
	}
}
