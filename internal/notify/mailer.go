package notify

import (
	"context"
	"log/slog"

	"github.com/fleetdesk/fleetdesk/internal/users/auth"
)

// Mailer delivers one user's alert digest. Delivery is external to the scan:
// implementations may talk SMTP, queue into a broker, or log.
type Mailer interface {
	SendExpiryAlerts(context context.Context, user *auth.User, alerts []Alert) error
}

// LogMailer is the development Mailer: it writes the digest to the log
// instead of sending anything.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (mailer *LogMailer) SendExpiryAlerts(context context.Context, user *auth.User, alerts []Alert) error {
	mailer.logger.Info("expiry_alert_digest",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.Int("alert_count", len(alerts)),
	)
	return nil
}
