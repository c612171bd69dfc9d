package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/services"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type fakeVendor struct {
	templates map[string]*services.Template
	statsFrom time.Time
	statsTo   *time.Time
}

func (v *fakeVendor) Template(_ context.Context, name string) (*services.Template, error) {
	tmpl, ok := v.templates[name]
	if !ok {
		return nil, errs.NewNotFound("template")
	}
	return tmpl, nil
}

func (v *fakeVendor) Message(subject, html string, recipients []string) services.EmailMessage {
	return services.EmailMessage{}
}

func (v *fakeVendor) Send(context.Context, services.EmailMessage) (*services.EmailSend, error) {
	return &services.EmailSend{TransactionID: "tx-1"}, nil
}

func (v *fakeVendor) Statistics(_ context.Context, from time.Time, to *time.Time) (*services.Statistics, error) {
	v.statsFrom, v.statsTo = from, to
	return &services.Statistics{Recipients: 12, Delivered: 10}, nil
}

type sentEmail struct {
	emailType  string
	subject    string
	recipients []string
	userID     string
}

type fakeSender struct {
	vendor *fakeVendor
	sent   []sentEmail
}

func (s *fakeSender) Vendor() services.Vendor {
	return s.vendor
}

func (s *fakeSender) Send(_ context.Context, emailType, subject, html string, recipients []string, userID string) (*services.EmailSend, error) {
	if len(recipients) == 0 {
		return nil, errs.NewEmptyRecipientsError()
	}
	s.sent = append(s.sent, sentEmail{emailType: emailType, subject: subject, recipients: recipients, userID: userID})
	return &services.EmailSend{TransactionID: "tx-1", MessageID: "msg-1"}, nil
}

type staticRecipients []string

func (r staticRecipients) Emails(context.Context) ([]string, error) {
	return r, nil
}

func emailRouter(sender *fakeSender, sess *session.Context) http.Handler {
	h := newEmailHandler(sender,
		staticRecipients{"rider@example.com"},
		staticRecipients{"reader1@example.com", "reader2@example.com"},
		nil, nil)

	r := chi.NewRouter()
	r.Use(withSession(sess))
	r.Get("/emails/templates/{name}", h.getTemplate())
	r.Get("/emails/recipients", h.getRecipients())
	r.Post("/emails/send", h.sendEmail())
	r.Get("/emails/statistics", h.getStatistics())
	return r
}

func newFakeSender() *fakeSender {
	return &fakeSender{vendor: &fakeVendor{templates: map[string]*services.Template{
		"new-ride": {Name: "new-ride", Subject: "A new ride", Body: []services.BodyPart{{Content: "<p>Ride!</p>"}}},
	}}}
}

func TestSendEmail(t *testing.T) {
	sender := newFakeSender()
	sess := session.New("uid-1", "announcer@example.com", models.RoleVikin, models.SubRoleVikinAnnouncer, fixedNow)
	router := emailRouter(sender, sess)

	rec := doJSON(t, router, http.MethodPost, "/emails/send", sendEmailRequest{
		Subject:    "Hello",
		HTML:       "<p>hi</p>",
		Recipients: []string{"a@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "tx-1", decodeBody[services.EmailSend](t, rec).TransactionID)

	rec = doJSON(t, router, http.MethodPost, "/emails/send", sendEmailRequest{
		Subject:       "Newsletter",
		HTML:          "<p>news</p>",
		RecipientType: RecipientsNewsletter,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, sender.sent, 2)
	assert.Equal(t, sentEmail{emailType: models.EmailTypeCustom, subject: "Hello", recipients: []string{"a@example.com"}, userID: "uid-1"}, sender.sent[0])
	assert.Equal(t, []string{"reader1@example.com", "reader2@example.com"}, sender.sent[1].recipients)
}

func TestSendEmailValidation(t *testing.T) {
	sender := newFakeSender()
	router := emailRouter(sender, session.New("uid-1", "a@example.com", models.RoleAdmin, "", fixedNow))

	tests := []struct {
		name string
		req  sendEmailRequest
	}{
		{"no recipients", sendEmailRequest{Subject: "s", HTML: "<p/>"}},
		{"bad address", sendEmailRequest{Subject: "s", HTML: "<p/>", Recipients: []string{"nope"}}},
		{"unknown list", sendEmailRequest{Subject: "s", HTML: "<p/>", RecipientType: "everyone"}},
		{"no subject", sendEmailRequest{HTML: "<p/>", Recipients: []string{"a@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/emails/send", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, sender.sent)
}

func TestGetTemplateAndRecipients(t *testing.T) {
	router := emailRouter(newFakeSender(), session.New("uid-1", "a@example.com", models.RoleAdmin, "", fixedNow))

	rec := doJSON(t, router, http.MethodGet, "/emails/templates/new-ride", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, templateResponse{Name: "new-ride", Subject: "A new ride", HTML: "<p>Ride!</p>"}, decodeBody[templateResponse](t, rec))

	rec = doJSON(t, router, http.MethodGet, "/emails/templates/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/emails/recipients?type=riders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, recipientsResponse{Type: "riders", Emails: []string{"rider@example.com"}, Count: 1}, decodeBody[recipientsResponse](t, rec))

	rec = doJSON(t, router, http.MethodGet, "/emails/recipients?type=admins", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatistics(t *testing.T) {
	sender := newFakeSender()
	router := emailRouter(sender, session.New("uid-1", "a@example.com", models.RoleAdmin, "", fixedNow))

	rec := doJSON(t, router, http.MethodGet, "/emails/statistics?from=2024-01-01&to=2024-01-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(10), decodeBody[services.Statistics](t, rec).Delivered)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), sender.vendor.statsFrom)
	require.NotNil(t, sender.vendor.statsTo)

	rec = doJSON(t, router, http.MethodGet, "/emails/statistics?from=2024-01-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, sender.vendor.statsTo)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/emails/statistics", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/emails/statistics?from=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodGet, "/emails/statistics?from=2024-02-01&to=2024-01-01", nil).Code)
}
