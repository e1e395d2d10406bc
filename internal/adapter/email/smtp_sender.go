package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

var ErrIncompleteConfig = errors.New("SMTP configuration is incomplete")

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	cfg config.SMTPConfig
	log logger.Logger
	d   dialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (EmailSender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: host, port and sender email are required", ErrIncompleteConfig)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		d.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{cfg: cfg, log: log, d: d}, nil
}

func (s *smtpSender) buildMessage(to []string, subject, bodyHTML, bodyText string) (*gomail.Message, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("no recipients provided for email")
	}
	if bodyHTML == "" && bodyText == "" {
		return nil, fmt.Errorf("email body (HTML or Text) must be provided")
	}

	m := gomail.NewMessage()
	if s.cfg.SenderName != "" {
		m.SetAddressHeader("From", s.cfg.SenderEmail, s.cfg.SenderName)
	} else {
		m.SetHeader("From", s.cfg.SenderEmail)
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)

	if bodyText != "" {
		m.SetBody("text/plain", bodyText)
		if bodyHTML != "" {
			m.AddAlternative("text/html", bodyHTML)
		}
	} else {
		m.SetBody("text/html", bodyHTML)
	}
	return m, nil
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	m, err := s.buildMessage(to, subject, bodyHTML, bodyText)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warnf("Email to %v (subject: %s) cancelled or timed out: %v", to, subject, ctx.Err())
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Infof("Email sent to %v, subject: %s", to, subject)
	return nil
}
