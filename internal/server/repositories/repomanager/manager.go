// Package repomanager wires repository constructors to a database handle and
// owns schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/annagruz/taskvault/internal/dbx"
	"github.com/annagruz/taskvault/internal/server/repositories/accounts"
	"github.com/annagruz/taskvault/internal/server/repositories/sessions"
	"github.com/annagruz/taskvault/internal/server/repositories/tasks"
)

// RepositoryManager hands out repositories bound to the given handle, so a
// service can run the same repository code inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Sessions(db dbx.DBTX) sessions.Registry
}
