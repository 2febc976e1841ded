// Package credentials derives the value stored in the users table's password
// column. Login matches that column by equality, so the derivation must be
// deterministic: the pepper acts as a service-wide salt.
package credentials

import (
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Digester hashes passwords with argon2id under a fixed pepper. Without a
// pepper it returns passwords unchanged, which keeps rows created by the old
// backend usable.
type Digester struct {
	pepper []byte
}

func NewDigester(pepper string) Digester {
	return Digester{pepper: []byte(pepper)}
}

// Digest returns the hex-encoded argon2id key for password.
func (d Digester) Digest(password string) string {
	if len(d.pepper) == 0 {
		return password
	}
	key := argon2.IDKey([]byte(password), d.pepper, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}
