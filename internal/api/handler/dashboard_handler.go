package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/core/ports"
)

// DashboardHandler backs the two guarded pages: the user dashboard and the
// admin dashboard.
type DashboardHandler struct {
	sessions ports.SessionService
	carts    ports.CartService
	catalog  ports.CatalogService
}

func NewDashboardHandler(sessions ports.SessionService, carts ports.CartService, catalog ports.CatalogService) *DashboardHandler {
	return &DashboardHandler{sessions: sessions, carts: carts, catalog: catalog}
}

// User handles GET /v1/dashboard.
//
// @Summary      User dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dashboardResponse
// @Failure      302  {string}  string  "redirect to / when not logged in"
// @Router       /v1/dashboard [get]
func (h *DashboardHandler) User(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	st := h.sessions.Current(c.Request().Context(), sid)
	resp := dashboardResponse{
		User: st.Identity(),
		Cart: toCartResponse(h.carts.View(sid)),
	}
	if r, ok := st.ActiveRole(); ok {
		resp.ActiveRole = string(r)
	}
	return c.JSON(http.StatusOK, resp)
}

// Admin handles GET /v1/admin/dashboard.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  adminDashboardResponse
// @Failure      302  {string}  string  "redirect to / unless the admin view is active"
// @Router       /v1/admin/dashboard [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	summary, err := h.catalog.Summary(c.Request().Context())
	if err != nil {
		return err
	}

	resp := adminDashboardResponse{Catalog: make([]tableSummaryResponse, 0, len(summary))}
	for _, s := range summary {
		resp.Catalog = append(resp.Catalog, tableSummaryResponse{
			Table:      string(s.Table),
			Items:      s.Items,
			TotalStock: s.TotalStock,
			OutOfStock: s.OutOfStock,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
