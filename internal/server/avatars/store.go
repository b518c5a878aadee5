// Package avatars stores the normalized profile image of an account, either
// on the account row itself (PostgreSQL) or in an S3-compatible object store.
package avatars

import "context"

// Store persists one avatar per account. Get returns common.ErrNotFound when
// the account has no avatar; Delete of an absent avatar is a no-op.
type Store interface {
	Put(ctx context.Context, accountID string, data []byte) error
	Get(ctx context.Context, accountID string) ([]byte, error)
	Delete(ctx context.Context, accountID string) error
}
