package ports

import (
	"context"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

// UserRepository is the credential side of the record store.
type UserRepository interface {
	// FindByCredentials performs an equality lookup on username and password
	// digest. It returns domain.ErrRecordNotFound when nothing matches and
	// domain.ErrAmbiguousRecord when more than one record does.
	FindByCredentials(ctx context.Context, username, passwordDigest string) (*domain.Identity, error)
	Create(ctx context.Context, user domain.NewUser) (*domain.Identity, error)
}
