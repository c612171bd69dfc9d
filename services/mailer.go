package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/metrics"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// Vendor is the email delivery service the dashboard sends through.
type Vendor interface {
	Template(ctx context.Context, name string) (*Template, error)
	Message(subject, html string, recipients []string) EmailMessage
	Send(ctx context.Context, msg EmailMessage) (*EmailSend, error)
	Statistics(ctx context.Context, from time.Time, to *time.Time) (*Statistics, error)
}

// Journal records accepted sends.
type Journal interface {
	Record(ctx context.Context, tx *models.EmailTransaction) error
}

type Mailer struct {
	vendor  Vendor
	journal Journal
	now     func() time.Time
}

func NewMailer(vendor Vendor, journal Journal) *Mailer {
	return &Mailer{vendor: vendor, journal: journal, now: time.Now}
}

func (m *Mailer) Vendor() Vendor {
	return m.vendor
}

// Send delivers one HTML message to every recipient. A send the vendor
// accepted with both a message id and a transaction id is journaled; a
// journal failure is logged and does not fail the send.
func (m *Mailer) Send(ctx context.Context, emailType, subject, html string, recipients []string, userID string) (*EmailSend, error) {
	receipt, err := m.vendor.Send(ctx, m.vendor.Message(subject, html, recipients))
	if err != nil {
		metrics.EmailSends.WithLabelValues(emailType, "failed").Inc()
		return nil, err
	}
	metrics.EmailSends.WithLabelValues(emailType, "sent").Inc()

	if receipt.MessageID == "" || receipt.TransactionID == "" {
		log.Warn().Str("emailType", emailType).Msg("email accepted without ids, not journaled")
		return receipt, nil
	}

	if subject == "" {
		subject = "N/A"
	}
	tx := &models.EmailTransaction{
		MessageID:     receipt.MessageID,
		TransactionID: receipt.TransactionID,
		EmailType:     emailType,
		Subject:       subject,
		Recipients:    len(recipients),
		SendAt:        m.now().UTC(),
		SendBy:        userID,
	}
	if err := m.journal.Record(ctx, tx); err != nil {
		log.Error().Err(err).Str("transactionID", receipt.TransactionID).Msg("failed to journal email transaction")
	}
	return receipt, nil
}
