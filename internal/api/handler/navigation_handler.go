package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/core/guard"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

// NavigationHandler answers where a client-side navigation would land.
type NavigationHandler struct {
	sessions ports.SessionService
	routes   *guard.Table
}

func NewNavigationHandler(sessions ports.SessionService, routes *guard.Table) *NavigationHandler {
	return &NavigationHandler{sessions: sessions, routes: routes}
}

// Resolve handles POST /v1/navigation/resolve.
//
// @Summary      Resolve a navigation
// @Description  Applies static redirects and the route guard to a path for the caller's session.
// @Tags         navigation
// @Accept       json
// @Produce      json
// @Param        body  body      resolveRequest  true  "Requested path"
// @Success      200   {object}  guard.Resolution
// @Failure      400   {object}  errorResponse
// @Router       /v1/navigation/resolve [post]
func (h *NavigationHandler) Resolve(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req resolveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	st := h.sessions.Current(c.Request().Context(), sid)
	return c.JSON(http.StatusOK, h.routes.Resolve(req.Path, st))
}
