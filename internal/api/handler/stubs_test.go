package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rentalhub/rental-api/internal/api/middleware"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
	"github.com/rentalhub/rental-api/internal/core/session"
)

type stubSessionService struct {
	states     map[string]session.State
	loginFn    func(ctx context.Context, sid, username, password string) (*domain.Identity, error)
	switchArgs []string
}

func newStubSessions() *stubSessionService {
	return &stubSessionService{states: map[string]session.State{}}
}

func (s *stubSessionService) Current(_ context.Context, sid string) session.State {
	return s.states[sid]
}

func (s *stubSessionService) Login(ctx context.Context, sid, username, password string) (*domain.Identity, error) {
	id, err := s.loginFn(ctx, sid, username, password)
	if err != nil {
		return nil, err
	}
	s.states[sid] = session.LoggedIn(id)
	return id, nil
}

func (s *stubSessionService) Logout(_ context.Context, sid string) session.Navigation {
	next, nav := s.states[sid].Logout()
	s.states[sid] = next
	return nav
}

func (s *stubSessionService) SwitchRole(_ context.Context, sid string, target domain.Role, currentPath string) (session.State, session.Navigation, bool) {
	s.switchArgs = append(s.switchArgs, string(target)+" "+currentPath)
	next, nav, ok := s.states[sid].SwitchRole(target, currentPath)
	if !ok {
		return s.states[sid], session.Navigation{}, false
	}
	s.states[sid] = next
	return next, nav, true
}

type stubCartService struct {
	view       ports.CartView
	addFn      func(ctx context.Context, sid string, in ports.AddItemInput) (*ports.CartResult, error)
	result     ports.CartResult
	checkoutFn func(ctx context.Context, sid string, who *domain.Identity) (*domain.Rental, error)
}

func (s *stubCartService) View(string) ports.CartView { return s.view }

func (s *stubCartService) AddItem(ctx context.Context, sid string, in ports.AddItemInput) (*ports.CartResult, error) {
	return s.addFn(ctx, sid, in)
}

func (s *stubCartService) RemoveItem(string, string) ports.CartResult { return s.result }

func (s *stubCartService) UpdateQuantity(string, string, int) ports.CartResult { return s.result }

func (s *stubCartService) Clear(string) ports.CartView { return ports.CartView{} }

func (s *stubCartService) Checkout(ctx context.Context, sid string, who *domain.Identity) (*domain.Rental, error) {
	return s.checkoutFn(ctx, sid, who)
}

type stubCatalogService struct {
	items   []domain.CatalogItem
	summary []ports.TableSummary
	err     error
}

func (s *stubCatalogService) List(_ context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	if !table.Valid() {
		return nil, domain.ErrUnknownCatalog
	}
	return s.items, s.err
}

func (s *stubCatalogService) Summary(context.Context) ([]ports.TableSummary, error) {
	return s.summary, s.err
}

// newContext builds an echo context with the session id already attached,
// as the Session middleware would.
func newContext(method, target, body, sid string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sid != "" {
		c.Set(middleware.SessionIDKey, sid)
	}
	return c, rec
}

func admin() *domain.Identity {
	return &domain.Identity{ID: "u-1", Username: "ada", Roles: domain.NewRoles("USER", "ADMIN")}
}

func member() *domain.Identity {
	return &domain.Identity{ID: "u-2", Username: "bob", Roles: domain.NewRoles("USER")}
}
