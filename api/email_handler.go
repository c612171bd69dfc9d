package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/services"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// Recipient lists a custom email can go to.
const (
	RecipientsRiders     = "riders"
	RecipientsNewsletter = "newsletter"
)

type emailSender interface {
	Vendor() services.Vendor
	Send(ctx context.Context, emailType, subject, html string, recipients []string, userID string) (*services.EmailSend, error)
}

type emailHandler struct {
	responder    Responder
	logger       zerolog.Logger
	mailer       emailSender
	recipients   map[string]services.Recipients
	transactions pager[*models.EmailTransaction]
	sessions     session.Store
}

func newEmailHandler(mailer emailSender, riders, newsletter services.Recipients, transactions pager[*models.EmailTransaction], sessions session.Store) emailHandler {
	logger := log.With().Str("handlerName", "emailHandler").Logger()
	return emailHandler{
		responder: NewResponder(logger),
		logger:    logger,
		mailer:    mailer,
		recipients: map[string]services.Recipients{
			RecipientsRiders:     riders,
			RecipientsNewsletter: newsletter,
		},
		transactions: transactions,
		sessions:     sessions,
	}
}

// getTemplate returns a vendor template by name, with its HTML body
// @Router /vikin/emails/templates/{name} [get]
func (h emailHandler) getTemplate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := idParam(r, "name")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tmpl, err := h.mailer.Vendor().Template(r.Context(), name)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, templateResponse{Name: tmpl.Name, Subject: tmpl.Subject, HTML: tmpl.HTML()})
	}
}

type templateResponse struct {
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	HTML    string `json:"html"`
}

type recipientsResponse struct {
	Type   string   `json:"type"`
	Emails []string `json:"emails"`
	Count  int      `json:"count"`
}

func (h emailHandler) loadRecipients(ctx context.Context, listType string) ([]string, error) {
	source, ok := h.recipients[listType]
	if !ok {
		return nil, errs.NewInvalidFieldError("type", "must be riders or newsletter")
	}
	emails, err := source.Emails(ctx)
	if err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []string{}
	}
	return emails, nil
}

// getRecipients lists the addresses of one recipient list
// @Param type query string true "riders or newsletter"
// @Router /vikin/emails/recipients [get]
func (h emailHandler) getRecipients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listType := strings.ToLower(r.URL.Query().Get("type"))
		emails, err := h.loadRecipients(r.Context(), listType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, recipientsResponse{Type: listType, Emails: emails, Count: len(emails)})
	}
}

type sendEmailRequest struct {
	Subject       string   `json:"subject" validate:"required,max=200"`
	HTML          string   `json:"html" validate:"required"`
	RecipientType string   `json:"recipientType" validate:"omitempty,oneof=riders newsletter"`
	Recipients    []string `json:"recipients" validate:"required_without=RecipientType,dive,email"`
}

// sendEmail sends a custom email to explicit addresses or to a recipient list
// @Router /vikin/emails/send [post]
func (h emailHandler) sendEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req sendEmailRequest
		if err := decodeJSON(w, r, "email", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipients := req.Recipients
		if len(recipients) == 0 {
			if recipients, err = h.loadRecipients(r.Context(), req.RecipientType); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		receipt, err := h.mailer.Send(r.Context(), models.EmailTypeCustom, req.Subject, req.HTML, recipients, sess.UserID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Int("recipients", len(recipients)).Str("transactionID", receipt.TransactionID).Msg("custom email sent")
		h.responder.WriteJSON(w, receipt)
	}
}

func (h emailHandler) transactionsTable() *listing.Table[*models.EmailTransaction] {
	return newTable(h.sessions, listingSource[*models.EmailTransaction]{
		name: "email-transactions",
		repo: h.transactions,
	}, listingTable[*models.EmailTransaction]{
		columns:    transactionColumns,
		searchable: []string{"subject", "email_type"},
		exportName: "email-transactions",
	})
}

// @Router /vikin/emails/transactions [get]
func (h emailHandler) getTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveListing(h.responder, w, r, h.transactionsTable())
	}
}

// @Router /vikin/emails/transactions/export [get]
func (h emailHandler) exportTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serveExport(h.responder, w, r, h.transactionsTable())
	}
}

// getStatistics returns the vendor's delivery statistics for a date range
// @Param from query string true "start date, YYYY-MM-DD or RFC3339"
// @Param to query string false "end date, YYYY-MM-DD or RFC3339"
// @Router /vikin/emails/statistics [get]
func (h emailHandler) getStatistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := parseDate(r.URL.Query().Get("from"), "from")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if from == nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("from"))
			return
		}
		to, err := parseDate(r.URL.Query().Get("to"), "to")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if to != nil && to.Before(*from) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("to", "must not be before from"))
			return
		}

		stats, err := h.mailer.Vendor().Statistics(r.Context(), *from, to)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, stats)
	}
}

// parseDate accepts a calendar date or an RFC3339 timestamp; blank is nil.
func parseDate(raw, field string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errs.NewInvalidFieldError(field, "must be a date like 2024-01-31")
}
