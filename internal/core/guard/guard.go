// Package guard decides whether a navigation may proceed given the target
// route's requirements and the session viewing it.
package guard

import (
	"strings"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// RouteMeta carries the requirement flags a route declares.
type RouteMeta struct {
	RequiresAuth  bool `json:"requires_auth"`
	RequiresAdmin bool `json:"requires_admin"`
}

// Viewer is the part of a session the guard looks at.
type Viewer interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

var allow = Decision{Allowed: true}

func redirectToRoot() Decision {
	return Decision{RedirectTo: domain.RouteRoot}
}

// Decide applies the navigation policy. Admin routes are checked against the
// viewed role, so an unauthenticated visitor and a signed-in non-admin end
// up at the same place.
func Decide(meta RouteMeta, v Viewer) Decision {
	if meta.RequiresAdmin && !v.IsAdmin() {
		return redirectToRoot()
	}
	if meta.RequiresAuth && !v.IsAuthenticated() {
		return redirectToRoot()
	}
	return allow
}

// Route is one navigable entry of the route table. A non-empty Redirect makes
// the route an alias that is resolved before the guard runs.
type Route struct {
	Path     string
	Name     string
	Meta     RouteMeta
	Redirect string
}

// DefaultRoutes is the application's route table.
var DefaultRoutes = []Route{
	{Path: "/", Name: "landing"},
	{Path: "/equipment", Name: "home"},
	{Path: "/dashboard", Name: "dashboard", Meta: RouteMeta{RequiresAuth: true}},
	{Path: "/meeting-rooms", Name: "meeting-rooms"},
	{Path: "/cart", Name: "cart"},
	{Path: "/consumables", Name: "consumables"},
	{Path: "/login", Redirect: "/"},
	{Path: "/admin/login", Redirect: "/"},
	{Path: "/debug", Name: "debug"},
	{Path: "/admin/dashboard", Name: "admin-dashboard", Meta: RouteMeta{RequiresAdmin: true}},
}

// Table resolves paths against a fixed set of routes.
type Table struct {
	routes map[string]Route
}

// NewTable indexes routes by path.
func NewTable(routes []Route) *Table {
	t := &Table{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		t.routes[normalizePath(r.Path)] = r
	}
	return t
}

// Resolution describes where a navigation request ends up.
type Resolution struct {
	Requested string    `json:"requested"`
	Target    string    `json:"target"`
	Route     string    `json:"route,omitempty"`
	Meta      RouteMeta `json:"meta"`
	Allowed   bool      `json:"allowed"`
	Final     string    `json:"final"`
}

// Lookup returns the route registered for path.
func (t *Table) Lookup(path string) (Route, bool) {
	r, ok := t.routes[normalizePath(path)]
	return r, ok
}

// Resolve follows a static redirect, if any, then guards the resulting
// target. Unknown paths carry no requirements.
func (t *Table) Resolve(path string, v Viewer) Resolution {
	requested := normalizePath(path)
	target := requested

	route, _ := t.Lookup(target)
	if route.Redirect != "" {
		target = normalizePath(route.Redirect)
		route, _ = t.Lookup(target)
	}

	d := Decide(route.Meta, v)
	res := Resolution{
		Requested: requested,
		Target:    target,
		Route:     route.Name,
		Meta:      route.Meta,
		Allowed:   d.Allowed,
		Final:     target,
	}
	if !d.Allowed {
		res.Final = d.RedirectTo
	}
	return res
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
