package services

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

const (
	DefaultElasticEmailURL = "https://api.elasticemail.com/v4"
	DefaultSender          = "Vikin <info@vikin.club>"
	elasticEmail           = "elastic email"
)

type BodyPart struct {
	ContentType string `json:"ContentType"`
	Content     string `json:"Content"`
	Charset     string `json:"Charset,omitempty"`
}

type Template struct {
	Name    string     `json:"Name"`
	Subject string     `json:"Subject,omitempty"`
	Body    []BodyPart `json:"Body"`
}

// HTML returns the first body part, which is what the dashboard edits.
func (t *Template) HTML() string {
	if t == nil || len(t.Body) == 0 {
		return ""
	}
	return t.Body[0].Content
}

type Recipient struct {
	Email string `json:"Email"`
}

type EmailContent struct {
	Body         []BodyPart `json:"Body"`
	From         string     `json:"From"`
	EnvelopeFrom string     `json:"EnvelopeFrom,omitempty"`
	Subject      string     `json:"Subject"`
}

type EmailMessage struct {
	Recipients []Recipient  `json:"Recipients"`
	Content    EmailContent `json:"Content"`
}

// EmailSend is the vendor's receipt for an accepted message.
type EmailSend struct {
	TransactionID string `json:"TransactionID"`
	MessageID     string `json:"MessageID"`
}

type Statistics struct {
	Recipients   int64 `json:"Recipients"`
	EmailTotal   int64 `json:"EmailTotal"`
	SmsTotal     int64 `json:"SmsTotal"`
	Delivered    int64 `json:"Delivered"`
	Bounced      int64 `json:"Bounced"`
	InProgress   int64 `json:"InProgress"`
	Unsubscribed int64 `json:"Unsubscribed"`
	Complaints   int64 `json:"Complaints"`
	Inbound      int64 `json:"Inbound"`
	ManualCancel int64 `json:"ManualCancel"`
	NotDelivered int64 `json:"NotDelivered"`
}

type vendorError struct {
	Error string `json:"Error"`
}

// ElasticEmail is a small client for the Elastic Email v4 REST API.
type ElasticEmail struct {
	client *resty.Client
	from   string
}

func NewElasticEmail(apiKey, baseURL, from string) (*ElasticEmail, error) {
	if apiKey == "" {
		return nil, errs.NewConfigMissingError("ELASTIC_EMAIL_API_KEY")
	}
	if baseURL == "" {
		baseURL = DefaultElasticEmailURL
	}
	if from == "" {
		from = DefaultSender
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("X-ElasticEmail-ApiKey", apiKey).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)
	return &ElasticEmail{client: client, from: from}, nil
}

func (e *ElasticEmail) From() string {
	return e.from
}

func (e *ElasticEmail) Template(ctx context.Context, name string) (*Template, error) {
	var template Template
	resp, err := e.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		SetResult(&template).
		SetError(&vendorError{}).
		Get("/templates/{name}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &template, nil
}

// Message builds an HTML message from the configured sender.
func (e *ElasticEmail) Message(subject, html string, recipients []string) EmailMessage {
	msg := EmailMessage{
		Content: EmailContent{
			Body:         []BodyPart{{ContentType: "HTML", Charset: "utf-8", Content: html}},
			From:         e.from,
			EnvelopeFrom: e.from,
			Subject:      subject,
		},
	}
	for _, r := range recipients {
		msg.Recipients = append(msg.Recipients, Recipient{Email: r})
	}
	return msg
}

func (e *ElasticEmail) Send(ctx context.Context, msg EmailMessage) (*EmailSend, error) {
	if len(msg.Recipients) == 0 {
		return nil, errs.NewEmptyRecipientsError()
	}
	var receipt EmailSend
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(msg).
		SetResult(&receipt).
		SetError(&vendorError{}).
		Post("/emails")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	log.Info().
		Str("transactionID", receipt.TransactionID).
		Int("recipients", len(msg.Recipients)).
		Msg("Successfully sent email via Elastic Email")
	return &receipt, nil
}

// Statistics returns delivery totals from from until to; a nil to means now.
func (e *ElasticEmail) Statistics(ctx context.Context, from time.Time, to *time.Time) (*Statistics, error) {
	var stats Statistics
	req := e.client.R().
		SetContext(ctx).
		SetQueryParam("from", from.UTC().Format(time.RFC3339)).
		SetResult(&stats).
		SetError(&vendorError{})
	if to != nil {
		req.SetQueryParam("to", to.UTC().Format(time.RFC3339))
	}
	resp, err := req.Get("/statistics")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &stats, nil
}

func checkResponse(resp *resty.Response, err error) error {
	// a body that fails to decode still leaves the status code usable
	if resp == nil || !resp.IsError() {
		if err != nil {
			return errs.NewServiceUnavailableError(elasticEmail, err)
		}
		return nil
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.NewInvalidAPIKeyError(elasticEmail)
	case http.StatusTooManyRequests:
		return errs.NewRateLimitError(elasticEmail)
	case http.StatusNotFound:
		return errs.NewNotFoundError("email template not found")
	}

	msg := resp.String()
	if ve, ok := resp.Error().(*vendorError); ok && ve.Error != "" {
		msg = ve.Error
	}
	return errs.NewVendorError(elasticEmail, resp.StatusCode(), msg)
}
