package models

import "time"

// Email types recorded on every journaled send.
const (
	EmailTypeCustom       = "custom"
	EmailTypeAnnouncement = "announcement"
	EmailTypeNewRide      = "vikin-new-ride"
)

// EmailTransaction journals one accepted bulk send. The id is the vendor transaction id.
type EmailTransaction struct {
	Base          `bson:",inline"`
	MessageID     string    `bson:"MessageID" json:"MessageID"`
	TransactionID string    `bson:"TransactionID" json:"TransactionID"`
	EmailType     string    `bson:"email_type" json:"email_type"`
	Subject       string    `bson:"subject" json:"subject"`
	Recipients    int       `bson:"recipients" json:"recipients"`
	SendAt        time.Time `bson:"send_at" json:"send_at"`
	SendBy        string    `bson:"send_by" json:"send_by"`
}
