// Package tokenstore holds the current session token for one client context.
//
// Two backings exist and a deployment uses exactly one of them: CookieStore keeps the
// token in an HTTP-only cookie issued by the gateway, FileStore (and MemoryStore) keep it
// in client-managed storage. Setting a token overwrites any previous value.
package tokenstore

import (
	"errors"
	"time"
)

// DefaultTTL is the lifetime of a session cookie
const DefaultTTL = 24 * time.Hour

var ErrEmptyToken = errors.New("token cannot be empty")

type Store interface {
	// Set persists token, replacing any previous value. Backings without expiry ignore ttl.
	Set(token string, ttl time.Duration) error
	// Get returns the current token, or false when there is none.
	Get() (string, bool)
	// Clear removes the token. Clearing an empty store is not an error.
	Clear() error
}
