package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rentalhub/rental-api/internal/core/domain"
)

const usersTable = "users"

// reserved fields are interpreted by the application and never copied into
// Identity.Attributes.
var reserved = map[string]struct{}{
	"_id": {}, "username": {}, "password": {}, "display_name": {}, "role": {},
}

type UserRepository struct {
	store *RecordStore
}

func NewUserRepository(store *RecordStore) *UserRepository {
	return &UserRepository{store: store}
}

// FindByCredentials matches username and password digest by equality.
func (r *UserRepository) FindByCredentials(ctx context.Context, username, passwordDigest string) (*domain.Identity, error) {
	var doc bson.M
	filter := bson.M{"username": username, "password": passwordDigest}
	if err := r.store.FindOne(ctx, usersTable, filter, &doc); err != nil {
		return nil, err
	}
	return toIdentity(doc), nil
}

// Create inserts a user. Duplicate usernames map to domain.ErrUserExists
// when the unique index is in place.
func (r *UserRepository) Create(ctx context.Context, u domain.NewUser) (*domain.Identity, error) {
	roles := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		roles[i] = string(role)
	}
	doc := bson.M{
		"username":   u.Username,
		"password":   u.PasswordDigest,
		"role":       roles,
		"created_at": time.Now().UTC(),
	}
	if u.DisplayName != "" {
		doc["display_name"] = u.DisplayName
	}

	id, err := r.store.Insert(ctx, usersTable, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &domain.Identity{
		ID:          id,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Roles:       u.Roles,
	}, nil
}

// EnsureIndexes makes usernames unique.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.store.db.Collection(usersTable).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	return nil
}

// toIdentity normalizes a user document. The role column may hold a single
// token or a list; both become domain.Roles here.
func toIdentity(doc bson.M) *domain.Identity {
	id := &domain.Identity{
		ID:          idString(doc["_id"]),
		Username:    stringField(doc, "username"),
		DisplayName: stringField(doc, "display_name"),
		Roles:       domain.ParseRoles(plain(doc["role"])),
	}
	for k, v := range doc {
		if _, skip := reserved[k]; skip {
			continue
		}
		if id.Attributes == nil {
			id.Attributes = make(map[string]any)
		}
		id.Attributes[k] = plain(v)
	}
	return id
}
