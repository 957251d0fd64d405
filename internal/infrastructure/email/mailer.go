// Package email implements the notification port over SMTP using gomail.
package email

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/mit-motorsports/purchasing-api/internal/application/ports"
	"github.com/mit-motorsports/purchasing-api/internal/domain/entity"
	"github.com/mit-motorsports/purchasing-api/pkg/config"
	"github.com/mit-motorsports/purchasing-api/pkg/logger"
)

var _ ports.NotificationPort = (*Mailer)(nil)

// Mailer sends workflow notifications over SMTP. With an empty host or
// Suppress set, messages are logged instead of sent; every method still
// returns nil so the workflow is never coupled to mail delivery (callers
// additionally treat errors as best-effort).
type Mailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewMailer builds the mailer.
func NewMailer(cfg config.SMTPConfig, log *logger.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// NotifyApprovalRequested asks the designated approver to act on the order.
func (m *Mailer) NotifyApprovalRequested(p *entity.Purchase, approverEmail, stage string) error {
	subject := "Purchase Order Needs Sublead Approval - MIT Motorsports"
	if stage == "executive" {
		subject = "Purchase Order Needs Executive Approval - MIT Motorsports"
	}
	body := fmt.Sprintf(
		"A purchase order is waiting for your approval.\n\n"+
			"Item: %s\nVendor: %s\nQuantity: %d\nTotal cost: $%s\nSubteam: %s\nRequested by: %s (%s)\n\n"+
			"Please log in to approve or reject it.",
		p.ItemName, p.VendorName, p.Quantity, p.TotalCost().StringFixed(2),
		p.Subteam, p.RequesterName, p.RequesterEmail,
	)
	return m.send(approverEmail, subject, body)
}

// NotifyApprovalStatus tells the requester the outcome of a decision.
func (m *Mailer) NotifyApprovalStatus(p *entity.Purchase, outcome, reason string) error {
	subject := fmt.Sprintf("Purchase Order %s - MIT Motorsports", capitalize(outcome))
	body := fmt.Sprintf(
		"Your purchase order for %q has been %s.\n\nCurrent approval status: %s",
		p.ItemName, outcome, p.ApprovalStatus,
	)
	if reason != "" {
		body += "\nReason: " + reason
	}
	return m.send(p.RequesterEmail, subject, body)
}

// NotifyStatusChanged tells the requester the fulfillment stage moved.
func (m *Mailer) NotifyStatusChanged(p *entity.Purchase, oldStatus, newStatus entity.FulfillmentStatus) error {
	subject := "Purchase Order Status Update - MIT Motorsports"
	body := fmt.Sprintf(
		"Your purchase order for %q moved from %q to %q.",
		p.ItemName, oldStatus, newStatus,
	)
	return m.send(p.RequesterEmail, subject, body)
}

// NotifyArrived tells the requester the order has arrived.
func (m *Mailer) NotifyArrived(p *entity.Purchase) error {
	subject := "Purchase Order Has Arrived - MIT Motorsports"
	body := fmt.Sprintf(
		"Your purchase order for %q has arrived and is ready for pickup.",
		p.ItemName,
	)
	return m.send(p.RequesterEmail, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("email: empty recipient")
	}
	if m.cfg.Host == "" || m.cfg.Suppress {
		m.log.Info().
			Str("to", to).
			Str("subject", subject).
			Msg("email suppressed")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
