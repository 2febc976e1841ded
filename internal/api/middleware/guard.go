package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/api/metrics"
	"github.com/rentalhub/rental-api/internal/core/guard"
	"github.com/rentalhub/rental-api/internal/core/session"
)

// SessionResolver returns the state of a browser session.
type SessionResolver interface {
	Current(ctx context.Context, sessionID string) session.State
}

// Guard applies the navigation policy to an endpoint. Requests the policy
// rejects are redirected, with no distinction between anonymous visitors
// and signed-in users lacking the admin view.
func Guard(meta guard.RouteMeta, sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, _ := c.Get(SessionIDKey).(string)
			state := session.LoggedOut()
			if sid != "" {
				state = sessions.Current(c.Request().Context(), sid)
			}

			d := guard.Decide(meta, state)
			if !d.Allowed {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect").Inc()
				return c.Redirect(http.StatusFound, d.RedirectTo)
			}
			metrics.GuardDecisionsTotal.WithLabelValues("allow").Inc()
			return next(c)
		}
	}
}
