package handler

import (
	"github.com/rentalhub/rental-api/internal/core/cart"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
	"github.com/rentalhub/rental-api/internal/core/session"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Session ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type switchRoleRequest struct {
	Role        string `json:"role"         validate:"required"`
	CurrentPath string `json:"current_path"`
}

type sessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	User          *domain.Identity `json:"user"`
	ActiveRole    string           `json:"active_role,omitempty"`
	IsAdmin       bool             `json:"is_admin"`
	IsRealAdmin   bool             `json:"is_real_admin"`
}

type roleResponse struct {
	sessionResponse
	Redirect string `json:"redirect,omitempty"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

func toSessionResponse(st session.State) sessionResponse {
	resp := sessionResponse{
		Authenticated: st.IsAuthenticated(),
		User:          st.Identity(),
		IsAdmin:       st.IsAdmin(),
		IsRealAdmin:   st.IsRealAdmin(),
	}
	if r, ok := st.ActiveRole(); ok {
		resp.ActiveRole = string(r)
	}
	return resp
}

// --- Navigation ---

type resolveRequest struct {
	Path string `json:"path" validate:"required"`
}

// --- Cart ---

type addItemRequest struct {
	Table    string `json:"table"    validate:"required"`
	ItemID   string `json:"item_id"  validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0,max=1000000"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=1000000"`
}

type cartResponse struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
}

type cartMutationResponse struct {
	cartResponse
	Outcome cart.Outcome `json:"outcome"`
	Warning string       `json:"warning,omitempty"`
}

func toCartResponse(v ports.CartView) cartResponse {
	items := v.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartResponse{Items: items, TotalItems: v.TotalItems}
}

func toCartMutationResponse(r ports.CartResult) cartMutationResponse {
	return cartMutationResponse{
		cartResponse: toCartResponse(r.CartView),
		Outcome:      r.Outcome,
		Warning:      r.Warning,
	}
}

// --- Catalog ---

type catalogItemResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Table      string `json:"table"`
	TotalStock int    `json:"total_stock"`
}

type catalogListResponse struct {
	Table string                `json:"table"`
	Items []catalogItemResponse `json:"items"`
}

type tableSummaryResponse struct {
	Table      string `json:"table"`
	Items      int    `json:"items"`
	TotalStock int    `json:"total_stock"`
	OutOfStock int    `json:"out_of_stock"`
}

// --- Dashboards ---

type dashboardResponse struct {
	User       *domain.Identity `json:"user"`
	ActiveRole string           `json:"active_role,omitempty"`
	Cart       cartResponse     `json:"cart"`
}

type adminDashboardResponse struct {
	Catalog []tableSummaryResponse `json:"catalog"`
}
