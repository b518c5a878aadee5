package avatars

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/dbx"
)

// PostgresStore keeps the avatar in the accounts.avatar bytea column, so the
// image lives and dies with the account row.
type PostgresStore struct {
	db dbx.DBTX
}

func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, accountID string, data []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET avatar = $2, updated_at = now() WHERE id = $1`,
		accountID, data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, accountID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT avatar FROM accounts WHERE id = $1`, accountID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(data) == 0 {
		return nil, common.ErrNotFound
	}
	return data, nil
}

func (s *PostgresStore) Delete(ctx context.Context, accountID string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET avatar = NULL, updated_at = now() WHERE id = $1`,
		accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
