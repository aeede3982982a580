package registration

import (
	"context"
	"errors"
	"time"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

// ErrAlreadyVerified is returned when verification is re-attempted on a
// record that has already transitioned. The transition is one-way; there
// is no unverify path.
var ErrAlreadyVerified = errors.New("registration already verified")

// VerifyStore is the storage surface the verification workflow needs.
type VerifyStore interface {
	GetRegistration(ctx context.Context, collection, id string) (*models.Registration, error)
	SetVerified(ctx context.Context, collection, id string) error
	EnqueueMail(ctx context.Context, collection string, task *models.MailTask) error
}

// Verify transitions a registration to verified and enqueues exactly one
// confirmation mail task addressed to every participant email on the
// record. The status update and the mail write are two separate writes:
// a failure after the first leaves a verified-but-unnotified record,
// which is logged by the caller for manual reconciliation rather than
// rolled back.
func Verify(ctx context.Context, store VerifyStore, event *models.Event, collection, id string) (*models.MailTask, error) {
	rec, err := store.GetRegistration(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if rec.VerificationStatus == models.VerificationVerified {
		return nil, ErrAlreadyVerified
	}

	if err := store.SetVerified(ctx, collection, id); err != nil {
		return nil, err
	}

	task, err := BuildConfirmationMail(event, rec)
	if err != nil {
		return nil, err
	}
	if err := store.EnqueueMail(ctx, MailCollectionFor(event), task); err != nil {
		return nil, err
	}
	return task, nil
}

// BuildConfirmationMail composes the verification confirmation. The
// dedicated confirmation template is used when the event has one; events
// created before that field existed fall back to the registration
// template. A record with no participant email yields NoRecipientError.
func BuildConfirmationMail(event *models.Event, rec *models.Registration) (*models.MailTask, error) {
	emails := rec.ParticipantEmails()
	if len(emails) == 0 {
		return nil, &NoRecipientError{RecordID: rec.ID.Hex()}
	}

	tmpl := event.ConfirmationEmailTemplate
	if tmpl == "" {
		tmpl = event.EmailTemplate
	}

	return &models.MailTask{
		To: emails,
		Message: models.MailMessage{
			Subject: "Your Registration is Confirmed for " + event.EventName + "!",
			HTML:    RenderTemplate(tmpl, event.EventName, rec.ParticipantNames()),
		},
		CreatedAt: time.Now(),
	}, nil
}
