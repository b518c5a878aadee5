package sessions

import "context"

// Registry tracks each account's currently live session tokens. Membership is
// authoritative for liveness: a token that verifies cryptographically but is
// absent here has been revoked.
type Registry interface {
	// Add records token as a live session for the account.
	Add(ctx context.Context, accountID, token string) error

	// Revoke removes exactly the given token. Revoking an absent token is
	// a no-op.
	Revoke(ctx context.Context, accountID, token string) error

	// RevokeAll empties the account's session collection.
	RevokeAll(ctx context.Context, accountID string) error

	// Contains reports whether token is currently live for the account.
	Contains(ctx context.Context, accountID, token string) (bool, error)
}
