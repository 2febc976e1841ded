package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/api/metrics"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
)

// SessionHandler exposes the authentication state of the caller's session.
type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /v1/session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Current(c.Request().Context(), sid)))
}

// Login handles POST /v1/session/login.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if _, err := h.sessions.Login(ctx, sid, req.Username, req.Password); err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, toSessionResponse(h.sessions.Current(ctx, sid)))
}

// Logout handles POST /v1/session/logout.
//
// @Summary      Log out
// @Tags         session
// @Produce      json
// @Success      200  {object}  redirectResponse
// @Router       /v1/session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}
	nav := h.sessions.Logout(c.Request().Context(), sid)
	return c.JSON(http.StatusOK, redirectResponse{Redirect: nav.To})
}

// SwitchRole handles POST /v1/session/role. Only sessions whose identity
// holds ADMIN can change the viewed role; for anyone else the current state
// is returned unchanged, whatever role was asked for. Admins asking for an
// unknown role get a 400.
//
// @Summary      Switch the viewed role
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      switchRoleRequest  true  "Target role and the page the user is on"
// @Success      200   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/session/role [post]
func (h *SessionHandler) SwitchRole(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req switchRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	target := domain.Role(req.Role)

	st, nav, applied := h.sessions.SwitchRole(c.Request().Context(), sid, target, req.CurrentPath)
	if !applied && st.IsRealAdmin() && !target.Known() {
		return echo.NewHTTPError(http.StatusBadRequest, "role must be one of: ADMIN USER")
	}

	label := string(target)
	if !target.Known() {
		label = "unknown"
	}
	metrics.RoleSwitchesTotal.WithLabelValues(label, strconv.FormatBool(applied)).Inc()

	return c.JSON(http.StatusOK, roleResponse{
		sessionResponse: toSessionResponse(st),
		Redirect:        nav.To,
	})
}
