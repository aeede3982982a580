package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event status values
const (
	EventStatusOpen   = "open"
	EventStatusClosed = "closed"
)

// Event audience values
const (
	AudienceStudentsOnly       = "students_only"
	AudienceFacultyOnly        = "faculty_only"
	AudienceStudentsAndFaculty = "students_and_faculty"
)

// Participation types
const (
	ParticipationIndividual = "individual"
	ParticipationTeam       = "team"
)

// CustomQuestion is one admin-defined question appended to the
// registration form for a given audience category.
type CustomQuestion struct {
	Label string `bson:"label" json:"label" binding:"required"`
	Type  string `bson:"type" json:"type" binding:"required,oneof=text yesno rating"`
}

type Event struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventName         string             `bson:"eventName" json:"event_name"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	PosterURL         string             `bson:"posterURL,omitempty" json:"poster_url,omitempty"`
	Status            string             `bson:"status" json:"status"` // open, closed
	IsActive          bool               `bson:"isActive" json:"is_active"`
	EventAudience     string             `bson:"eventAudience" json:"event_audience"`
	ParticipationType string             `bson:"participationType" json:"participation_type"`
	MinTeamSize       int                `bson:"minTeamSize,omitempty" json:"min_team_size,omitempty"`
	MaxTeamSize       int                `bson:"maxTeamSize,omitempty" json:"max_team_size,omitempty"`

	PaymentsEnabled     bool    `bson:"paymentsEnabled" json:"payments_enabled"`
	StudentFee          float64 `bson:"studentFee,omitempty" json:"student_fee,omitempty"`
	FacultyFee          float64 `bson:"facultyFee,omitempty" json:"faculty_fee,omitempty"`
	PaymentInstructions string  `bson:"paymentInstructions,omitempty" json:"payment_instructions,omitempty"`
	QRCodeURL           string  `bson:"qrCodeURL,omitempty" json:"qr_code_url,omitempty"`
	UpiID               string  `bson:"upiId,omitempty" json:"upi_id,omitempty"`
	PayeeName           string  `bson:"payeeName,omitempty" json:"payee_name,omitempty"`

	// Waives the fee for verified IEEE members. Defaults to true for new events.
	IsFreeForIeeeMembers bool `bson:"isFreeForIeeeMembers" json:"is_free_for_ieee_members"`

	StudentCustomQuestions []CustomQuestion `bson:"studentCustomQuestions" json:"student_custom_questions"`
	FacultyCustomQuestions []CustomQuestion `bson:"facultyCustomQuestions" json:"faculty_custom_questions"`

	EmailTemplate             string `bson:"emailTemplate,omitempty" json:"email_template,omitempty"`
	ConfirmationEmailTemplate string `bson:"confirmationEmailTemplate,omitempty" json:"confirmation_email_template,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

// CustomQuestions returns the question list for the given participant category.
func (e *Event) CustomQuestions(category string) []CustomQuestion {
	if category == "faculty" {
		return e.FacultyCustomQuestions
	}
	return e.StudentCustomQuestions
}

// Fee returns the registration fee for the given participant category.
func (e *Event) Fee(category string) float64 {
	if category == "faculty" {
		return e.FacultyFee
	}
	return e.StudentFee
}
