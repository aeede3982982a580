package registration

import (
	"strings"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

// Slug strips all whitespace from an event name. Collection names and
// storage keys are derived from it.
func Slug(name string) string {
	return strings.Join(strings.Fields(name), "")
}

// CollectionFor names the registration collection of an event:
// the slugged event name plus Teams or Participants.
func CollectionFor(event *models.Event) string {
	suffix := "Participants"
	if event.ParticipationType == models.ParticipationTeam {
		suffix = "Teams"
	}
	return Slug(event.EventName) + suffix
}

// MailCollectionFor names the mail-task collection of an event.
func MailCollectionFor(event *models.Event) string {
	return Slug(event.EventName) + "Mails"
}

// ExportFileName names the CSV download of an event's registrations,
// whitespace replaced with underscores.
func ExportFileName(event *models.Event) string {
	return strings.Join(strings.Fields(event.EventName), "_") + "_registrations.csv"
}
