// Package notifications sends outbound account emails. Delivery is always
// fire-and-forget from the caller's point of view: a failed send is logged
// and never blocks or fails the account operation that triggered it.
package notifications

import "context"

// Notifier delivers account lifecycle messages.
type Notifier interface {
	// Welcome greets a freshly created account.
	Welcome(ctx context.Context, email, name string) error

	// Goodbye acknowledges an account deletion.
	Goodbye(ctx context.Context, email, name string) error
}
