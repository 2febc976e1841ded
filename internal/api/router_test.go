package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/rentalhub/rental-api/internal/api/middleware"
	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/ports"
	"github.com/rentalhub/rental-api/internal/core/service"
	"github.com/rentalhub/rental-api/internal/infrastructure/http/handlers"
)

type memUsers struct{}

func (memUsers) FindByCredentials(_ context.Context, username, digest string) (*domain.Identity, error) {
	if username == "ada" && digest == "lovelace" {
		return &domain.Identity{ID: "u-1", Username: "ada", Roles: domain.NewRoles("ADMIN", "USER")}, nil
	}
	return nil, domain.ErrRecordNotFound
}

func (memUsers) Create(context.Context, domain.NewUser) (*domain.Identity, error) {
	return nil, domain.ErrUserExists
}

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStorage) Get(_ context.Context, sid, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[sid+":"+key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sid+":"+key] = value
	return nil
}

func (m *memStorage) Remove(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, sid+":"+k)
	}
	return nil
}

func (m *memStorage) Enqueue(op ports.StorageOp) {
	if op.Delete {
		_ = m.Remove(context.Background(), op.SessionID, op.Key)
		return
	}
	_ = m.Set(context.Background(), op.SessionID, op.Key, op.Value)
}

type identityDigest struct{}

func (identityDigest) Digest(p string) string { return p }

type memCatalog struct{}

func (memCatalog) List(_ context.Context, table domain.CatalogTable) ([]domain.CatalogItem, error) {
	if table != domain.TableEquipment {
		return nil, nil
	}
	return []domain.CatalogItem{{ID: "cam-1", Name: "Camera", Table: table, TotalStock: 2}}, nil
}

func (c memCatalog) FindByID(ctx context.Context, table domain.CatalogTable, id string) (*domain.CatalogItem, error) {
	items, _ := c.List(ctx, table)
	for _, it := range items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

type memRentals struct{ n int }

func (r *memRentals) Create(context.Context, *domain.Rental) (string, error) {
	r.n++
	return "rental-1", nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	storage := &memStorage{data: map[string]string{}}
	catalog := memCatalog{}

	e := NewRouter(Dependencies{
		Sessions: service.NewSessionService(memUsers{}, storage, storage, identityDigest{}, log),
		Carts:    service.NewCartService(catalog, &memRentals{}, log),
		Catalog:  service.NewCatalogService(catalog),
		Tokens:   middleware.NewSessionTokens("test-secret", time.Hour),
		HealthChecks: map[string]handlers.Check{
			"memory": func(context.Context) error { return nil },
		},
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
	http  *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	return &client{
		t:    t,
		base: srv.URL,
		http: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
	}
}

func (c *client) do(method, path, body string) (*http.Response, map[string]any) {
	c.t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, c.base+path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, c.base+path, nil)
	}
	if err != nil {
		c.t.Fatalf("request: %v", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if tok := resp.Header.Get(middleware.SessionHeader); tok != "" {
		c.token = tok
	}

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func TestRouter_Health(t *testing.T) {
	c := newClient(t, newTestServer(t))

	if resp, _ := c.do(http.MethodGet, "/health", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp, body := c.do(http.MethodGet, "/health/ready", ""); resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected readiness: %d %+v", resp.StatusCode, body)
	}
}

func TestRouter_SessionIsMintedOnce(t *testing.T) {
	c := newClient(t, newTestServer(t))

	c.do(http.MethodGet, "/v1/session", "")
	first := c.token
	if first == "" {
		t.Fatalf("expected a session token on first request")
	}

	resp, _ := c.do(http.MethodGet, "/v1/session", "")
	if resp.Header.Get(middleware.SessionHeader) != "" {
		t.Fatalf("a valid session must not be re-issued")
	}
}

func TestRouter_GuardedRoutes(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodGet, "/v1/session", "")

	for _, path := range []string{"/v1/admin/dashboard", "/v1/dashboard"} {
		resp, _ := c.do(http.MethodGet, path, "")
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
			t.Fatalf("%s: expected 302 to /, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}

	resp, body := c.do(http.MethodPost, "/v1/session/login", `{"username":"ada","password":"nope"}`)
	if resp.StatusCode != http.StatusUnauthorized || body["error"] == nil {
		t.Fatalf("expected 401 envelope, got %d %+v", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodPost, "/v1/session/login", `{"username":"ada","password":"lovelace"}`)
	if resp.StatusCode != http.StatusOK || body["active_role"] != "ADMIN" {
		t.Fatalf("login failed: %d %+v", resp.StatusCode, body)
	}

	if resp, _ := c.do(http.MethodGet, "/v1/admin/dashboard", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin should reach the admin dashboard, got %d", resp.StatusCode)
	}

	_, body = c.do(http.MethodPost, "/v1/session/role", `{"role":"USER","current_path":"/admin/dashboard"}`)
	if body["active_role"] != "USER" || body["redirect"] != "/equipment" {
		t.Fatalf("unexpected role switch: %+v", body)
	}

	if resp, _ := c.do(http.MethodGet, "/v1/admin/dashboard", ""); resp.StatusCode != http.StatusFound {
		t.Fatalf("user view must be redirected away from admin, got %d", resp.StatusCode)
	}
	if resp, _ := c.do(http.MethodGet, "/v1/dashboard", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated user should reach the dashboard, got %d", resp.StatusCode)
	}

	_, body = c.do(http.MethodPost, "/v1/session/logout", "")
	if body["redirect"] != "/" {
		t.Fatalf("unexpected logout payload: %+v", body)
	}
	if resp, _ := c.do(http.MethodGet, "/v1/dashboard", ""); resp.StatusCode != http.StatusFound {
		t.Fatalf("logged out session must be redirected, got %d", resp.StatusCode)
	}
}

func TestRouter_CartFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))
	c.do(http.MethodGet, "/v1/session", "")
	c.do(http.MethodPost, "/v1/session/login", `{"username":"ada","password":"lovelace"}`)

	resp, body := c.do(http.MethodPost, "/v1/cart/checkout", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("empty checkout: expected 422, got %d %+v", resp.StatusCode, body)
	}

	_, body = c.do(http.MethodPost, "/v1/cart/items", `{"table":"equipment","item_id":"cam-1","quantity":3}`)
	if body["warning"] == nil || body["total_items"] != float64(0) {
		t.Fatalf("expected rejection with warning, got %+v", body)
	}

	_, body = c.do(http.MethodPost, "/v1/cart/items", `{"table":"equipment","item_id":"cam-1"}`)
	if body["total_items"] != float64(1) {
		t.Fatalf("expected one item, got %+v", body)
	}

	_, body = c.do(http.MethodPatch, "/v1/cart/items/cam-1", `{"quantity":9}`)
	if body["total_items"] != float64(2) || body["warning"] == nil {
		t.Fatalf("expected clamp to 2, got %+v", body)
	}

	resp, body = c.do(http.MethodPost, "/v1/cart/items", `{"table":"equipment","item_id":"ghost"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown item: expected 404, got %d %+v", resp.StatusCode, body)
	}

	resp, body = c.do(http.MethodPost, "/v1/cart/checkout", "")
	if resp.StatusCode != http.StatusCreated || body["id"] != "rental-1" {
		t.Fatalf("checkout failed: %d %+v", resp.StatusCode, body)
	}

	_, body = c.do(http.MethodGet, "/v1/cart", "")
	if body["total_items"] != float64(0) {
		t.Fatalf("cart should be empty after checkout, got %+v", body)
	}
}

func TestRouter_UnknownCatalog(t *testing.T) {
	c := newClient(t, newTestServer(t))

	resp, body := c.do(http.MethodGet, "/v1/catalog/users", "")
	if resp.StatusCode != http.StatusNotFound || body["error"] != "unknown catalog table" {
		t.Fatalf("expected 404, got %d %+v", resp.StatusCode, body)
	}
}
