package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

type fakeVendorServer struct {
	mu       sync.Mutex
	sent     []EmailMessage
	receipt  EmailSend
	template Template
	status   int
}

func (f *fakeVendorServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/templates/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "test-key", r.Header.Get("X-ElasticEmail-ApiKey"))
		if f.status != 0 {
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(map[string]string{"Error": "template lookup refused"})
			return
		}
		name := r.URL.Path[len("/templates/"):]
		if name != f.template.Name {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"Error": "Template not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(f.template)
	})
	mux.HandleFunc("/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, http.MethodPost, r.Method)
		var msg EmailMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))
		f.mu.Lock()
		f.sent = append(f.sent, msg)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.receipt)
	})
	mux.HandleFunc("/statistics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.NotEmpty(t, r.URL.Query().Get("from"))
		assert.Empty(t, r.URL.Query().Get("to"))
		_ = json.NewEncoder(w).Encode(Statistics{Recipients: 12, Delivered: 10, Bounced: 2})
	})
	return mux
}

func newTestVendor(t *testing.T, f *fakeVendorServer) *ElasticEmail {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	vendor, err := NewElasticEmail("test-key", srv.URL, "")
	require.NoError(t, err)
	return vendor
}

type fakeJournal struct {
	records []*models.EmailTransaction
	err     error
}

func (j *fakeJournal) Record(_ context.Context, tx *models.EmailTransaction) error {
	j.records = append(j.records, tx)
	return j.err
}

type staticRecipients []string

func (r staticRecipients) Emails(context.Context) ([]string, error) { return r, nil }

func TestElasticEmailClient(t *testing.T) {
	f := &fakeVendorServer{
		template: Template{Name: "announcement", Body: []BodyPart{{ContentType: "HTML", Content: "<p>hi</p>"}}},
		receipt:  EmailSend{TransactionID: "tx-1", MessageID: "msg-1"},
	}
	vendor := newTestVendor(t, f)
	ctx := context.Background()

	tmpl, err := vendor.Template(ctx, "announcement")
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", tmpl.HTML())

	_, err = vendor.Template(ctx, "missing")
	assert.True(t, errs.IsNotFound(err))

	receipt, err := vendor.Send(ctx, vendor.Message("Hello", "<p>hi</p>", []string{"a@example.com", "b@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "tx-1", receipt.TransactionID)
	require.Len(t, f.sent, 1)
	assert.Equal(t, DefaultSender, f.sent[0].Content.From)
	assert.Equal(t, "Hello", f.sent[0].Content.Subject)
	assert.Equal(t, []Recipient{{Email: "a@example.com"}, {Email: "b@example.com"}}, f.sent[0].Recipients)

	_, err = vendor.Send(ctx, vendor.Message("Hello", "<p>hi</p>", nil))
	assert.ErrorIs(t, err, errs.ErrEmptyRecipients)

	stats, err := vendor.Statistics(ctx, time.Now().AddDate(0, -1, 0), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Delivered)

	f.status = http.StatusBadRequest
	_, err = vendor.Template(ctx, "announcement")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrVendorRejected)
	assert.Contains(t, err.(*errs.ApiErr).Details, "template lookup refused")

	f.status = http.StatusUnauthorized
	_, err = vendor.Template(ctx, "announcement")
	assert.ErrorIs(t, err, errs.ErrInvalidAPIKey)

	_, err = NewElasticEmail("", "", "")
	assert.True(t, errs.IsConfigMissingError(err))
}

func TestMailerJournalsOnlyCompleteReceipts(t *testing.T) {
	f := &fakeVendorServer{receipt: EmailSend{TransactionID: "tx-9", MessageID: "msg-9"}}
	journal := &fakeJournal{}
	mailer := NewMailer(newTestVendor(t, f), journal)
	ctx := context.Background()

	_, err := mailer.Send(ctx, models.EmailTypeCustom, "", "<p>x</p>", []string{"a@example.com"}, "user-1")
	require.NoError(t, err)
	require.Len(t, journal.records, 1)
	tx := journal.records[0]
	assert.Equal(t, "tx-9", tx.TransactionID)
	assert.Equal(t, "N/A", tx.Subject)
	assert.Equal(t, models.EmailTypeCustom, tx.EmailType)
	assert.Equal(t, "user-1", tx.SendBy)
	assert.Equal(t, 1, tx.Recipients)

	f.receipt = EmailSend{TransactionID: "tx-10"}
	_, err = mailer.Send(ctx, models.EmailTypeCustom, "s", "<p>x</p>", []string{"a@example.com"}, "user-1")
	require.NoError(t, err)
	assert.Len(t, journal.records, 1)

	// a journal failure does not fail a send the vendor accepted
	f.receipt = EmailSend{TransactionID: "tx-11", MessageID: "msg-11"}
	journal.err = errors.New("store down")
	_, err = mailer.Send(ctx, models.EmailTypeCustom, "s", "<p>x</p>", []string{"a@example.com"}, "user-1")
	assert.NoError(t, err)
}

func TestBroadcasts(t *testing.T) {
	f := &fakeVendorServer{
		template: Template{Name: models.EmailTypeNewRide, Body: []BodyPart{{Content: "<h1>ride</h1>"}}},
		receipt:  EmailSend{TransactionID: "tx-1", MessageID: "msg-1"},
	}
	journal := &fakeJournal{}
	b := NewBroadcaster(NewMailer(newTestVendor(t, f), journal), staticRecipients{"r1@example.com", "r2@example.com"})
	ctx := context.Background()

	ride := &models.Ride{Base: models.Base{ID: "ride-1"}, Title: "Sunrise"}
	require.NoError(t, b.NewRide(ctx, ride, "host-1"))
	require.Len(t, f.sent, 1)
	assert.Equal(t, SubjectNewRide, f.sent[0].Content.Subject)
	assert.Equal(t, "<h1>ride</h1>", f.sent[0].Content.Body[0].Content)
	assert.Len(t, f.sent[0].Recipients, 2)
	assert.Equal(t, models.EmailTypeNewRide, journal.records[0].EmailType)

	// the announcement template is not on the vendor side
	err := b.Announcement(ctx, &models.Announcement{Base: models.Base{ID: "a-1"}}, "host-1")
	assert.True(t, errs.IsNotFound(err))
	assert.Len(t, f.sent, 1)

	empty := NewBroadcaster(NewMailer(newTestVendor(t, f), journal), staticRecipients{})
	assert.NoError(t, empty.NewRide(ctx, ride, "host-1"))
	assert.Len(t, f.sent, 1)
}
