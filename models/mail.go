package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MailMessage is the subject/body pair of an outbound notification.
type MailMessage struct {
	Subject string `bson:"subject" json:"subject"`
	HTML    string `bson:"html" json:"html"`
}

// MailTask is one queued outbound notification, written into the
// per-event mail collection and consumed by the mail dispatcher.
// Delivery is best effort; failures are logged and retried on the
// next dispatcher sweep.
type MailTask struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	To           []string           `bson:"to" json:"to"`
	Message      MailMessage        `bson:"message" json:"message"`
	Dispatched   bool               `bson:"dispatched" json:"dispatched"`
	DispatchedAt *time.Time         `bson:"dispatchedAt,omitempty" json:"dispatched_at,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"created_at"`
}
