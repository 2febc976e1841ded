package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/api/middleware"
	"github.com/rentalhub/rental-api/internal/core/domain"
)

// ctxSessionID returns the session id attached by the Session middleware.
// Its absence means the middleware did not run, which is a wiring error.
func ctxSessionID(c echo.Context) (string, error) {
	sid, _ := c.Get(middleware.SessionIDKey).(string)
	if sid == "" {
		return "", domain.ErrNoSession
	}
	return sid, nil
}

// bindAndValidate decodes the request body into req and runs the validator
// when one is registered.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
