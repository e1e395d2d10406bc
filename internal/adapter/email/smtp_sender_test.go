package email

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/app/config"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func validConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host:        "smtp.example.com",
		Port:        587,
		SenderEmail: "no-reply@sneakup.com",
		SenderName:  "SneakUp",
		Encryption:  "tls",
	}
}

func TestNewSMTPSender_IncompleteConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  config.SMTPConfig
	}{
		{name: "Missing Host", cfg: config.SMTPConfig{Port: 587, SenderEmail: "a@b.c"}},
		{name: "Missing Port", cfg: config.SMTPConfig{Host: "smtp.example.com", SenderEmail: "a@b.c"}},
		{name: "Missing SenderEmail", cfg: config.SMTPConfig{Host: "smtp.example.com", Port: 587}},
		{name: "All Missing", cfg: config.SMTPConfig{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sender, err := NewSMTPSender(tc.cfg, logger.NewNop())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIncompleteConfig)
			assert.Nil(t, sender)
		})
	}
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &smtpSender{cfg: validConfig(), log: logger.NewNop(), d: d}

	err := s.Send(context.Background(), []string{"buyer@example.com"}, "Order Confirmation", "", "Thanks for your order")
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"Order Confirmation"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"buyer@example.com"}, msg.GetHeader("To"))
	assert.Contains(t, msg.GetHeader("From")[0], "no-reply@sneakup.com")

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Thanks for your order")
}

func TestSMTPSender_Send_Validation(t *testing.T) {
	s := &smtpSender{cfg: validConfig(), log: logger.NewNop(), d: &fakeDialer{}}

	assert.Error(t, s.Send(context.Background(), nil, "s", "", "body"))
	assert.Error(t, s.Send(context.Background(), []string{"a@b.c"}, "s", "", ""))
}

func TestSMTPSender_Send_DialError(t *testing.T) {
	s := &smtpSender{cfg: validConfig(), log: logger.NewNop(), d: &fakeDialer{err: errors.New("connection refused")}}

	err := s.Send(context.Background(), []string{"a@b.c"}, "s", "", "body")
	assert.ErrorContains(t, err, "connection refused")
}

func TestSMTPSender_Send_ContextTimeout(t *testing.T) {
	s := &smtpSender{cfg: validConfig(), log: logger.NewNop(), d: &fakeDialer{delay: 200 * time.Millisecond}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Send(ctx, []string{"a@b.c"}, "s", "", "body")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
