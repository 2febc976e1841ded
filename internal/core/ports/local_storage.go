package ports

import "context"

// Durable storage keys.
const (
	StorageKeyUser = "user"
	// StorageKeyLegacyAdminToken belonged to an older admin login flow. It is
	// only ever removed.
	StorageKeyLegacyAdminToken = "admin_token"
)

// LocalStorage is a string key-value store scoped to one browser session.
// Values survive restarts of the service but carry no schema version.
type LocalStorage interface {
	Get(ctx context.Context, sessionID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, sessionID, key, value string) error
	Remove(ctx context.Context, sessionID string, keys ...string) error
}

// StorageOp is a single fire-and-forget durable write.
type StorageOp struct {
	SessionID string
	Key       string
	Value     string
	Delete    bool
}

// StorageWriter accepts durable writes without acknowledging them. Failures
// are the writer's concern and are never reported back.
type StorageWriter interface {
	Enqueue(op StorageOp)
}
