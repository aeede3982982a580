package registration

import (
	"errors"
	"fmt"
)

// ErrInvalidID is returned when a registration id is not a valid object
// id. The HTTP layer maps it to a 400.
var ErrInvalidID = errors.New("invalid registration id")

// ValidationError reports a submission that failed required-field or
// pattern checks. It is recoverable: the user corrects the form and
// resubmits, and nothing has been persisted.
type ValidationError struct {
	FieldID string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.FieldID == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s: %s", e.FieldID, e.Reason)
}

// SubmissionError reports a storage or database failure mid-submission.
// The submission is re-attemptable; no partial record was persisted.
type SubmissionError struct {
	Step string
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed during %s: %v", e.Step, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// NoRecipientError reports a verification with no participant email to
// notify.
type NoRecipientError struct {
	RecordID string
}

func (e *NoRecipientError) Error() string {
	return "no participant email found on registration " + e.RecordID
}
