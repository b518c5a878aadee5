package notifications

import (
	"context"

	"github.com/annagruz/taskvault/internal/logging"
)

// LogNotifier records the would-be message instead of sending it. Used when
// no SMTP relay is configured (development, tests).
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifications")}
}

func (n *LogNotifier) Welcome(ctx context.Context, email, name string) error {
	n.logger.Info(ctx, "welcome mail skipped, no relay configured", "email", email, "name", name)
	return nil
}

func (n *LogNotifier) Goodbye(ctx context.Context, email, name string) error {
	n.logger.Info(ctx, "goodbye mail skipped, no relay configured", "email", email, "name", name)
	return nil
}
