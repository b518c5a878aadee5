package accounts

import (
	"context"

	"github.com/annagruz/taskvault/internal/server/models"
)

// Repository persists accounts. Lookups that find nothing return
// common.ErrNotFound; duplicate emails on create/update return
// common.ErrConflict.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}
