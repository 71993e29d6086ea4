// Package notification holds Mailer implementations.
package notification

import (
	"context"
	"errors"
	"strings"

	appnotification "github.com/erp/backoffice/internal/application/notification"
	"go.uber.org/zap"
)

// ErrNoRecipients is returned for a message addressed to nobody.
var ErrNoRecipients = errors.New("message has no recipients")

// LogMailer writes each message to the logger instead of delivering it.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg appnotification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("Notification sent",
		zap.String("to", strings.Join(msg.To, ", ")),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

var _ appnotification.Mailer = (*LogMailer)(nil)
