// Package session holds the authentication state of one browser session as a
// value type. Every transition returns a new State and, where the
// application should move the user elsewhere, a Navigation. Nothing here
// performs I/O; persisting the identity is the caller's job.
package session

import (
	"strings"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// Navigation is a requested route change. The zero value means "stay".
type Navigation struct {
	To string
}

// Requested reports whether a route change was asked for.
func (n Navigation) Requested() bool { return n.To != "" }

// State is the identity plus the role currently presented. A zero State is
// logged out.
type State struct {
	identity   *domain.Identity
	activeRole domain.Role
}

// LoggedOut returns the empty state.
func LoggedOut() State { return State{} }

// LoggedIn returns the state for a freshly authenticated identity: the
// active role is ADMIN when held, otherwise the first role. A nil identity
// yields the logged-out state.
func LoggedIn(identity *domain.Identity) State {
	if identity == nil {
		return State{}
	}
	id := identity.Clone()
	role, _ := id.Roles.Default()
	return State{identity: id, activeRole: role}
}

// Identity returns a copy of the current identity, or nil when logged out.
func (s State) Identity() *domain.Identity { return s.identity.Clone() }

// ActiveRole returns the role currently presented and whether one is set.
func (s State) ActiveRole() (domain.Role, bool) {
	return s.activeRole, s.activeRole != ""
}

// IsAuthenticated reports whether an identity is present.
func (s State) IsAuthenticated() bool { return s.identity != nil }

// IsAdmin reports whether the viewed role is ADMIN. A real admin previewing
// the USER experience is not an admin by this measure.
func (s State) IsAdmin() bool { return s.activeRole == domain.RoleAdmin }

// IsRealAdmin reports whether the identity possesses ADMIN, regardless of
// the role currently viewed.
func (s State) IsRealAdmin() bool { return s.identity.HasRole(domain.RoleAdmin) }

// Logout clears the identity and sends the user to the root route.
func (s State) Logout() (State, Navigation) {
	return State{}, Navigation{To: domain.RouteRoot}
}

// SwitchRole changes the viewed role. Only identities that hold ADMIN may
// switch, and only to a role token the application knows; otherwise the
// state is returned unchanged and ok is false. currentPath decides the
// landing route.
func (s State) SwitchRole(target domain.Role, currentPath string) (next State, nav Navigation, ok bool) {
	if !s.IsRealAdmin() || !target.Known() {
		return s, Navigation{}, false
	}

	next = State{identity: s.identity, activeRole: target}
	switch {
	case target == domain.RoleUser && strings.HasPrefix(currentPath, domain.AdminRoutePrefix):
		nav = Navigation{To: domain.RouteEquipment}
	case target == domain.RoleAdmin:
		nav = Navigation{To: domain.RouteAdminDashboard}
	}
	return next, nav, true
}
