package identity

import (
	"context"

	"github.com/annagruz/taskvault/internal/server/models"
)

type ctxKey int

const sessionKey ctxKey = 0

// Session is the resolved identity attached to a request context: the
// authenticated account and the specific token that authenticated it.
type Session struct {
	Account *models.Account
	Token   string
}

// NewContext returns ctx carrying the resolved session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the resolved session, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}
