package tasks

import (
	"context"

	"github.com/annagruz/taskvault/internal/server/models"
)

// SortKey names a column tasks may be ordered by. Only a fixed set is
// accepted; anything else fails before reaching SQL.
type SortKey string

const (
	SortByCreatedAt   SortKey = "created_at"
	SortByUpdatedAt   SortKey = "updated_at"
	SortByDescription SortKey = "description"
	SortByCompleted   SortKey = "completed"
)

// ListFilter refines a list query. The owner filter is not part of it:
// owner scoping is mandatory and applied by the repository itself.
type ListFilter struct {
	Completed *bool
}

// ListOptions carries filter, pagination and sort for list queries.
// Limit <= 0 means no limit.
type ListOptions struct {
	Filter ListFilter
	Limit  int
	Skip   int
	SortBy SortKey
	Desc   bool
}

// Repository persists tasks. Every single-task operation takes the owner ID
// alongside the task ID; a row owned by someone else behaves exactly like a
// missing row (common.ErrNotFound).
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id, ownerID string) (*models.Task, error)
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID string) error
	DeleteByOwner(ctx context.Context, ownerID string) error
}
