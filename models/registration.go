package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verification status values for a registration record. The only legal
// transition is not-required|pending -> verified, performed by an admin.
const (
	VerificationNotRequired = "not-required"
	VerificationPending     = "pending"
	VerificationVerified    = "verified"
)

// Participant categories
const (
	CategoryStudent = "student"
	CategoryFaculty = "faculty"
)

// Registration is one submitted registration (an individual or a whole
// team). Per-participant answers are stored flat alongside the fixed
// fields (p1_name, p2_email, custom_q_..., and so on) so the persisted
// document keeps the shape the export tooling expects.
type Registration struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TimeStamp           time.Time          `bson:"timeStamp" json:"time_stamp"`
	ParticipantCategory string             `bson:"participantCategory" json:"participant_category"`
	ParticipantCount    int                `bson:"participantCount" json:"participant_count"`
	TransactionID       string             `bson:"transactionId,omitempty" json:"transaction_id,omitempty"`
	ScreenshotURL       string             `bson:"screenshotURL,omitempty" json:"screenshot_url,omitempty"`
	MembershipID        string             `bson:"membershipId,omitempty" json:"membership_id,omitempty"`
	MembershipCardURL   string             `bson:"membershipCardURL,omitempty" json:"membership_card_url,omitempty"`
	IsIeeeMember        *bool              `bson:"isIeeeMember,omitempty" json:"is_ieee_member,omitempty"`
	VerificationStatus  string             `bson:"verificationStatus" json:"verification_status"`

	// Answers holds the flat p{i}_* and custom_q_* form values.
	Answers map[string]string `bson:",inline" json:"answers"`
}

// ParticipantEmails collects every non-empty p{i}_email across the
// registered participants, in participant order.
func (r *Registration) ParticipantEmails() []string {
	return r.participantValues("email")
}

// ParticipantNames collects every non-empty p{i}_name across the
// registered participants, in participant order.
func (r *Registration) ParticipantNames() []string {
	return r.participantValues("name")
}

func (r *Registration) participantValues(attr string) []string {
	count := r.ParticipantCount
	if count < 1 {
		count = 1
	}
	var out []string
	for i := 1; i <= count; i++ {
		if v := r.Answers[ParticipantField(i, attr)]; v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ParticipantField builds the flat field id for participant i, e.g.
// ParticipantField(2, "email") == "p2_email".
func ParticipantField(i int, attr string) string {
	return fmt.Sprintf("p%d_%s", i, attr)
}
