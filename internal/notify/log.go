package notify

import (
	"context"

	"go.uber.org/zap"
)

type logNotifier struct {
	log *zap.Logger
}

// NewLogNotifier builds a Notifier that only writes events to the
// application log. Used when no broker is configured.
func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (n *logNotifier) BookingStatusChanged(_ context.Context, e Event) error {
	n.log.Info("booking notification",
		zap.String("type", e.Type),
		zap.String("booking_id", e.BookingID),
		zap.String("user_id", e.UserID),
		zap.String("status", e.Status),
		zap.String("message", Message(e)),
	)
	return nil
}

func (n *logNotifier) Close() error {
	return nil
}
