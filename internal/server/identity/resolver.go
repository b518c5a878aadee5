// Package identity resolves a presented bearer credential to exactly one
// live account session. Resolution is all-or-nothing and every failure path
// collapses to the same generic unauthenticated signal, so a caller can't
// tell a forged token from a revoked one or from a deleted account.
package identity

import (
	"context"
	"strings"

	"github.com/annagruz/taskvault/internal/common"
	"github.com/annagruz/taskvault/internal/server/models"
	"github.com/annagruz/taskvault/internal/server/repositories/sessions"
)

// AccountLoader is the slice of the accounts repository the resolver needs.
type AccountLoader interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
}

// TokenVerifier checks a token's signature and expiry and returns the
// embedded account ID. Liveness is not its concern.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Resolver combines token verification, account lookup and registry
// membership into a single per-request identity check.
type Resolver struct {
	accounts AccountLoader
	registry sessions.Registry
	tokens   TokenVerifier
}

func NewResolver(accounts AccountLoader, registry sessions.Registry, tokens TokenVerifier) *Resolver {
	return &Resolver{accounts: accounts, registry: registry, tokens: tokens}
}

// Resolve authenticates the value of an Authorization header. On success it
// returns the account together with the exact token that authenticated the
// request, which later single-session revocation needs.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*models.Account, string, error) {
	token, ok := strings.CutPrefix(authorization, common.BearerPrefix)
	if !ok || token == "" {
		return nil, "", common.ErrUnauthenticated
	}

	accountID, err := r.tokens.Verify(token)
	if err != nil {
		return nil, "", common.ErrUnauthenticated
	}

	account, err := r.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, "", common.ErrUnauthenticated
	}

	live, err := r.registry.Contains(ctx, account.ID, token)
	if err != nil || !live {
		return nil, "", common.ErrUnauthenticated
	}

	return account, token, nil
}
