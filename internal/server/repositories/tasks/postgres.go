// Package tasks provides a PostgreSQL-backed repository for task rows.
// All reads and writes are scoped to the owning account at the SQL level.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/dbx"
	"github.com/annagruz/taskvault/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `
		INSERT INTO tasks (id, owner_id, description, completed)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed).
		Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Task, error) {
	query := `
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&task.ID, &task.OwnerID, &task.Description, &task.Completed,
			&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*models.Task, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1`)

	args := []any{ownerID}

	if opts.Filter.Completed != nil {
		args = append(args, *opts.Filter.Completed)
		fmt.Fprintf(&sb, " AND completed = $%d", len(args))
	}

	column, err := sortColumn(opts.SortBy)
	if err != nil {
		return nil, err
	}
	direction := "ASC"
	if opts.Desc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", column, direction)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(&task.ID, &task.OwnerID, &task.Description, &task.Completed,
			&task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update writes the task's mutable fields and scans back the database's
// updated_at, so the struct reflects exactly what a later read will see.
func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET description = $3, completed = $4, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed).
		Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

// DeleteByOwner purges every task the account owns. Used by the account
// deletion cascade; deleting zero rows is fine.
func (r *PostgresRepository) DeleteByOwner(ctx context.Context, ownerID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE owner_id = $1`, ownerID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// sortColumn maps a SortKey to its column name. The switch over declared
// constants is what keeps caller-supplied sort input out of the SQL text.
func sortColumn(key SortKey) (string, error) {
	switch key {
	case "", SortByCreatedAt:
		return string(SortByCreatedAt), nil
	case SortByUpdatedAt, SortByDescription, SortByCompleted:
		return string(key), nil
	default:
		return "", common.NewValidationError("sortBy", fmt.Sprintf("unsupported sort key %q", key))
	}
}
