// Package notify delivers best-effort order status notifications. Delivery
// is at-most-once: callers dispatch after the status transaction commits,
// and a failed send is logged, never retried, never surfaced.
package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/erdalnejdet/MYE-aydinlatma-be/internal/config"
)

type StatusChange struct {
	OrderNumber string
	OldStatus   string
	NewStatus   string
	Email       string
}

type Notifier interface {
	NotifyStatusChange(ctx context.Context, change StatusChange) error
}

// New returns an SMTP notifier when a host is configured, otherwise a
// log-only notifier.
func New(cfg config.SMTPConfig, log *zap.Logger) Notifier {
	if cfg.Host == "" {
		return &logNotifier{log: log}
	}
	return &smtpNotifier{cfg: cfg}
}

type logNotifier struct {
	log *zap.Logger
}

func (n *logNotifier) NotifyStatusChange(_ context.Context, change StatusChange) error {
	n.log.Info("order status notification",
		zap.String("order_number", change.OrderNumber),
		zap.String("old_status", change.OldStatus),
		zap.String("new_status", change.NewStatus),
		zap.String("email", change.Email),
	)
	return nil
}

type smtpNotifier struct {
	cfg config.SMTPConfig
}

func (n *smtpNotifier) NotifyStatusChange(_ context.Context, change StatusChange) error {
	if change.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Siparis %s durum guncellemesi", change.OrderNumber)
	body := fmt.Sprintf("Siparisinizin durumu %q oldu.", change.NewStatus)

	msg := "From: " + n.cfg.From + "\r\n" +
		"To: " + change.Email + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	addr := n.cfg.Host + ":" + n.cfg.Port
	if err := smtp.SendMail(addr, nil, n.cfg.From, []string{change.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("send status mail: %w", err)
	}
	return nil
}
