package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/devhermez/full-stack-sneakup/internal/domain/entity"
	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/platform/metrics"
)

const (
	templateOrderPlaced   = "order_placed"
	templatePasswordReset = "password_reset"
)

type EmailSender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

// Notifier delivers best-effort emails. Calls return immediately; failures are
// only logged and counted.
type Notifier interface {
	OrderPlaced(user entity.User, order entity.Order)
	PasswordReset(user entity.User, resetURL string)
}

type EmailNotifier struct {
	sender  EmailSender
	timeout time.Duration
	log     logger.Logger
	metrics *metrics.MetricsManager
	wg      sync.WaitGroup
}

// NewEmailNotifier returns a notifier backed by sender. A nil sender turns
// every notification into a logged no-op.
func NewEmailNotifier(sender EmailSender, timeout time.Duration, log logger.Logger, m *metrics.MetricsManager) *EmailNotifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &EmailNotifier{
		sender:  sender,
		timeout: timeout,
		log:     log.With("component", "notifier"),
		metrics: m,
	}
}

func (n *EmailNotifier) OrderPlaced(user entity.User, order entity.Order) {
	n.dispatch(templateOrderPlaced, user.Email, "SneakUp Order Confirmation", OrderConfirmationText(user, order))
}

func (n *EmailNotifier) PasswordReset(user entity.User, resetURL string) {
	n.dispatch(templatePasswordReset, user.Email, "Password Reset Request", PasswordResetText(resetURL))
}

func (n *EmailNotifier) dispatch(template, to, subject, body string) {
	if n.sender == nil {
		n.log.Debugf("Email disabled, dropping %s notification for %s", template, to)
		n.count(template, "skipped")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sender.Send(ctx, []string{to}, subject, "", body); err != nil {
			n.log.Errorf("Failed to send %s email to %s: %v", template, to, err)
			n.count(template, "failed")
			return
		}
		n.count(template, "sent")
	}()
}

func (n *EmailNotifier) count(template, outcome string) {
	if n.metrics != nil {
		n.metrics.EmailsSentTotal.WithLabelValues(template, outcome).Inc()
	}
}

// Wait blocks until in-flight sends finish or ctx is done.
func (n *EmailNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func OrderConfirmationText(user entity.User, order entity.Order) string {
	var items strings.Builder
	for i, item := range order.Items {
		if i > 0 {
			items.WriteString("\n")
		}
		fmt.Fprintf(&items, "- %s (x%d, Size: %s) - $%.2f", item.Name, item.Quantity, item.Size, item.Price)
	}

	return fmt.Sprintf(`Hello %s,

Thank you for shopping with SneakUp!

Your order has been placed successfully.

Order Details:
%s

Shipping Address:
%s

Total: $%.2f

We will notify you once your order is shipped.

- SneakUp Team
`, user.Name, items.String(), order.ShippingAddress.String(), order.TotalPrice)
}

func PasswordResetText(resetURL string) string {
	return "You requested a password reset.\n\nPlease click this link to reset your password:\n\n" + resetURL
}
