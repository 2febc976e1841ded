package ports

import (
	"context"

	"github.com/rentalhub/rental-api/internal/core/domain"
	"github.com/rentalhub/rental-api/internal/core/session"
)

// SessionService owns the authentication state of every browser session.
type SessionService interface {
	// Current returns the session state, hydrating it from durable storage
	// the first time a session id is seen.
	Current(ctx context.Context, sessionID string) session.State
	// Login fails with domain.ErrAuthentication and nothing else.
	Login(ctx context.Context, sessionID, username, password string) (*domain.Identity, error)
	Logout(ctx context.Context, sessionID string) session.Navigation
	// SwitchRole reports through ok whether the switch was applied.
	SwitchRole(ctx context.Context, sessionID string, target domain.Role, currentPath string) (st session.State, nav session.Navigation, ok bool)
}
