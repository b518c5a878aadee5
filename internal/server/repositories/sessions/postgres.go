// Package sessions provides the session-token registry with PostgreSQL and
// Redis backends. Each mutation touches only its own token row or set member,
// so concurrent logins and logouts against one account never clobber each
// other's entries.
package sessions

import (
	"context"
	"fmt"

	"github.com/annagruz/taskvault/internal/dbx"
)

// PostgresRegistry implements Registry over a session_tokens table.
type PostgresRegistry struct {
	db dbx.DBTX
}

// NewPostgresRegistry constructs a registry bound to the given DBTX.
func NewPostgresRegistry(db dbx.DBTX) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

func (r *PostgresRegistry) Add(ctx context.Context, accountID, token string) error {
	query := `
		INSERT INTO session_tokens (account_id, token)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Revoke(ctx context.Context, accountID, token string) error {
	query := `
		DELETE FROM session_tokens
		WHERE account_id = $1 AND token = $2
	`
	if _, err := r.db.ExecContext(ctx, query, accountID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) RevokeAll(ctx context.Context, accountID string) error {
	query := `
		DELETE FROM session_tokens
		WHERE account_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRegistry) Contains(ctx context.Context, accountID, token string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM session_tokens
			WHERE account_id = $1 AND token = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountID, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}
