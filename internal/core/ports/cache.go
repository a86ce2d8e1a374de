package ports

import "context"

// IdempotencyStore remembers which record a create request produced.
type IdempotencyStore interface {
	// Lookup returns the record id stored for key, or "" when unseen.
	Lookup(ctx context.Context, scope, key string) (string, error)
	Remember(ctx context.Context, scope, key, recordID string) error
}

// LoginThrottle counts failed logins per email.
type LoginThrottle interface {
	// Blocked reports whether email has exhausted its attempts.
	Blocked(ctx context.Context, email string) (bool, error)
	// Fail records a failed attempt and returns the count in the current window.
	Fail(ctx context.Context, email string) (int64, error)
	Reset(ctx context.Context, email string) error
}
