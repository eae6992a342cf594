package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/carelink/booking/internal/platform/fhir"
)

// BearerPassthrough lifts the caller's Authorization credential into the
// request context so the FHIR client can forward it upstream. The outer
// layer has already authenticated the caller; nothing is verified here.
func BearerPassthrough() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(fhir.WithToken(req.Context(), token)))
			}
			return next(c)
		}
	}
}
