package registration

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ieee-vbit/registration-backend-go/formplan"
	models "github.com/ieee-vbit/registration-backend-go/models"
)

var (
	validate  = validator.New()
	rollRegex = regexp.MustCompile("^" + formplan.RollPattern + "$")
)

// Submission carries the raw form input of one registration attempt.
// Files maps file-field ids (screenshot, membershipCard) to whether an
// attachment was provided; the bytes themselves are uploaded by the
// caller only after validation passes.
type Submission struct {
	Category string
	TeamSize int
	Values   map[string]string
	Files    map[string]bool
}

// Uploads holds the object-store URLs of the submission's attachments,
// produced between validation and assembly.
type Uploads struct {
	ScreenshotURL     string
	MembershipCardURL string
}

// Prepared is a validated submission: the plan it was checked against and
// the resolved form state.
type Prepared struct {
	Plan  *formplan.Plan
	State formplan.State
}

// Validate checks the submission against the event's form plan: every
// currently-required field must be present and well-formed. It returns a
// ValidationError naming the first offending field, and must be called
// before any file is uploaded so a rejected submission leaves no trace.
func Validate(event *models.Event, sub Submission) (*Prepared, error) {
	plan, err := formplan.Build(event, sub.Category, sub.TeamSize)
	if err != nil {
		if cfgErr, ok := err.(*formplan.ConfigurationError); ok {
			return nil, cfgErr
		}
		return nil, &ValidationError{Reason: err.Error()}
	}

	state := formplan.State{
		Category:   sub.Category,
		TeamSize:   plan.TeamSize,
		IeeeMember: formplan.ParseAnswer(sub.Values[models.ParticipantField(1, "ieee_member")]),
	}

	for _, field := range formplan.Apply(plan, event, state) {
		if !field.Required {
			continue
		}
		if field.Kind == formplan.KindFile {
			if !sub.Files[field.FieldID] {
				return nil, &ValidationError{FieldID: field.FieldID, Reason: "file is required"}
			}
			continue
		}
		value := strings.TrimSpace(sub.Values[field.FieldID])
		if value == "" {
			return nil, &ValidationError{FieldID: field.FieldID, Reason: "field is required"}
		}
		if field.Pattern != "" && !rollRegex.MatchString(value) {
			return nil, &ValidationError{FieldID: field.FieldID, Reason: "must be 10 alphanumeric characters"}
		}
		if field.Kind == formplan.KindEmail {
			if err := validate.Var(value, "email"); err != nil {
				return nil, &ValidationError{FieldID: field.FieldID, Reason: "invalid email address"}
			}
		}
	}

	return &Prepared{Plan: plan, State: state}, nil
}

// Assemble normalizes a validated submission into the registration record
// and its confirmation mail task. Only values belonging to visible fields
// survive into the record, so answers from hidden participant blocks are
// never persisted.
func Assemble(event *models.Event, prep *Prepared, sub Submission, up Uploads) (*models.Registration, *models.MailTask) {
	rec := &models.Registration{
		TimeStamp:           time.Now(),
		ParticipantCategory: sub.Category,
		ParticipantCount:    prep.State.TeamSize,
		VerificationStatus:  verificationStatus(event),
		Answers:             map[string]string{},
	}

	for _, field := range formplan.Apply(prep.Plan, event, prep.State) {
		if !field.Visible || field.Kind == formplan.KindFile {
			continue
		}
		value := strings.TrimSpace(sub.Values[field.FieldID])
		if value == "" {
			continue
		}
		switch field.FieldID {
		case "transactionId":
			rec.TransactionID = value
		case "membershipId":
			rec.MembershipID = value
		default:
			rec.Answers[field.FieldID] = value
		}
	}

	if event.PaymentsEnabled {
		member := prep.State.IsMember()
		rec.IsIeeeMember = &member
	}
	if formplan.NeedsPayment(event, prep.State) {
		rec.ScreenshotURL = up.ScreenshotURL
	}
	if prep.State.IsMember() && event.IsFreeForIeeeMembers {
		rec.MembershipCardURL = up.MembershipCardURL
	}

	task := &models.MailTask{
		To: rec.ParticipantEmails(),
		Message: models.MailMessage{
			Subject: "CONFIRMATION MAIL OF REGISTRATION | IEEE - VBIT SB",
			HTML:    RenderTemplate(event.EmailTemplate, event.EventName, rec.ParticipantNames()),
		},
		CreatedAt: time.Now(),
	}

	return rec, task
}

// RenderTemplate substitutes the {name} and {eventName} placeholders.
// Multiple participant names are joined with " & ".
func RenderTemplate(tmpl, eventName string, names []string) string {
	out := strings.ReplaceAll(tmpl, "{name}", strings.Join(names, " & "))
	return strings.ReplaceAll(out, "{eventName}", eventName)
}

func verificationStatus(event *models.Event) string {
	// Payment proof and membership proof both go through the same admin
	// verification queue; free events skip it entirely.
	if !event.PaymentsEnabled {
		return models.VerificationNotRequired
	}
	return models.VerificationPending
}
