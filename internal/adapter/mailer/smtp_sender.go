// Package mailer sends vendor notifications over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/mujahidkhanofficial/medixra-sub000/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
}

// dialer is the part of gomail.Dialer the sender uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	cfg    SMTPConfig
	logger *logger.Logger
	d      dialer
}

func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	if cfg.Port == 465 {
		d.SSL = true
	}
	return &SMTPSender{cfg: cfg, logger: log.Named("SMTPSender"), d: d}, nil
}

// Send delivers a plain-text message. The SMTP exchange runs in its own
// goroutine so ctx can abandon a slow server.
func (s *SMTPSender) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients provided for email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled or timed out", zap.Strings("to", to), zap.String("subject", subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email", zap.Strings("to", to), zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
		s.logger.Info("Email sent", zap.Strings("to", to), zap.String("subject", subject))
		return nil
	}
}
