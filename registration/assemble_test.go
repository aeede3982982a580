package registration

import (
	"errors"
	"testing"

	"github.com/ieee-vbit/registration-backend-go/formplan"
	models "github.com/ieee-vbit/registration-backend-go/models"
)

func paidTeamEvent() *models.Event {
	return &models.Event{
		EventName:            "Hack Night",
		EventAudience:        models.AudienceStudentsOnly,
		ParticipationType:    models.ParticipationTeam,
		MinTeamSize:          1,
		MaxTeamSize:          3,
		PaymentsEnabled:      true,
		StudentFee:           150,
		IsFreeForIeeeMembers: true,
		EmailTemplate:        "<p>Hi {name}, you are registered for {eventName}.</p>",
	}
}

func freeEvent() *models.Event {
	return &models.Event{
		EventName:         "Open Talk",
		EventAudience:     models.AudienceStudentsOnly,
		ParticipationType: models.ParticipationIndividual,
		EmailTemplate:     "<p>Hi {name}, see you at {eventName}.</p>",
	}
}

func studentValues(i int) map[string]string {
	return map[string]string{
		models.ParticipantField(i, "name"):    "Asha",
		models.ParticipantField(i, "college"): "VBIT",
		models.ParticipantField(i, "year"):    "3",
		models.ParticipantField(i, "branch"):  "CSE",
		models.ParticipantField(i, "section"): "A",
		models.ParticipantField(i, "roll"):    "20P61A0501",
		models.ParticipantField(i, "email"):   "asha@example.com",
		models.ParticipantField(i, "phone"):   "9876543210",
	}
}

func TestValidateRejectsMissingScreenshot(t *testing.T) {
	values := studentValues(1)
	values["p1_ieee_member"] = "No"
	values["transactionId"] = "TXN123"

	_, err := Validate(paidTeamEvent(), Submission{
		Category: models.CategoryStudent,
		TeamSize: 1,
		Values:   values,
		Files:    map[string]bool{},
	})

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if vErr.FieldID != "screenshot" {
		t.Fatalf("FieldID = %q, want screenshot", vErr.FieldID)
	}
}

func TestValidateIgnoresHiddenBlocks(t *testing.T) {
	// A two-member team never has to fill participant 3.
	values := map[string]string{}
	for k, v := range studentValues(1) {
		values[k] = v
	}
	for k, v := range studentValues(2) {
		values[k] = v
	}
	values["p1_ieee_member"] = "Yes"
	values["membershipId"] = "98765432"

	_, err := Validate(paidTeamEvent(), Submission{
		Category: models.CategoryStudent,
		TeamSize: 2,
		Values:   values,
		Files:    map[string]bool{"membershipCard": true},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateFieldFormats(t *testing.T) {
	base := func() map[string]string { return studentValues(1) }

	cases := []struct {
		name    string
		mutate  func(map[string]string)
		fieldID string
	}{
		{"missing name", func(v map[string]string) { delete(v, "p1_name") }, "p1_name"},
		{"blank name", func(v map[string]string) { v["p1_name"] = "   " }, "p1_name"},
		{"short roll", func(v map[string]string) { v["p1_roll"] = "ABC" }, "p1_roll"},
		{"roll with symbols", func(v map[string]string) { v["p1_roll"] = "20P61A05@1" }, "p1_roll"},
		{"bad email", func(v map[string]string) { v["p1_email"] = "not-an-email" }, "p1_email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := base()
			tc.mutate(values)
			_, err := Validate(freeEvent(), Submission{
				Category: models.CategoryStudent,
				Values:   values,
			})
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if vErr.FieldID != tc.fieldID {
				t.Fatalf("FieldID = %q, want %q", vErr.FieldID, tc.fieldID)
			}
		})
	}
}

func TestValidateRejectsBrokenEventConfig(t *testing.T) {
	event := paidTeamEvent()
	event.MinTeamSize = 5

	_, err := Validate(event, Submission{Category: models.CategoryStudent, Values: studentValues(1)})
	var cfgErr *formplan.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
}

func TestAssembleVerificationStatus(t *testing.T) {
	values := studentValues(1)
	prep, err := Validate(freeEvent(), Submission{Category: models.CategoryStudent, Values: values})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	rec, _ := Assemble(freeEvent(), prep, Submission{Category: models.CategoryStudent, Values: values}, Uploads{})
	if rec.VerificationStatus != models.VerificationNotRequired {
		t.Errorf("free event status = %q, want %q", rec.VerificationStatus, models.VerificationNotRequired)
	}

	event := paidTeamEvent()
	values = studentValues(1)
	values["p1_ieee_member"] = "No"
	values["transactionId"] = "TXN9"
	sub := Submission{
		Category: models.CategoryStudent,
		TeamSize: 1,
		Values:   values,
		Files:    map[string]bool{"screenshot": true},
	}
	prep, err = Validate(event, sub)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	rec, _ = Assemble(event, prep, sub, Uploads{ScreenshotURL: "https://cdn/shot.png"})
	if rec.VerificationStatus != models.VerificationPending {
		t.Errorf("paid event status = %q, want %q", rec.VerificationStatus, models.VerificationPending)
	}
	if rec.ScreenshotURL != "https://cdn/shot.png" {
		t.Errorf("ScreenshotURL = %q", rec.ScreenshotURL)
	}
	if rec.MembershipCardURL != "" {
		t.Errorf("non-member record has MembershipCardURL %q", rec.MembershipCardURL)
	}
	if rec.IsIeeeMember == nil || *rec.IsIeeeMember {
		t.Error("IsIeeeMember should be set false for a No answer")
	}
	if rec.TransactionID != "TXN9" {
		t.Errorf("TransactionID = %q", rec.TransactionID)
	}
}

func TestAssembleMemberWithWaiver(t *testing.T) {
	event := paidTeamEvent()
	values := studentValues(1)
	values["p1_ieee_member"] = "Yes"
	values["membershipId"] = "98765432"
	sub := Submission{
		Category: models.CategoryStudent,
		TeamSize: 1,
		Values:   values,
		Files:    map[string]bool{"membershipCard": true},
	}
	prep, err := Validate(event, sub)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	rec, task := Assemble(event, prep, sub, Uploads{MembershipCardURL: "https://cdn/card.png"})

	if rec.MembershipCardURL != "https://cdn/card.png" {
		t.Errorf("MembershipCardURL = %q", rec.MembershipCardURL)
	}
	if rec.ScreenshotURL != "" {
		t.Errorf("waived member has ScreenshotURL %q", rec.ScreenshotURL)
	}
	if rec.MembershipID != "98765432" {
		t.Errorf("MembershipID = %q", rec.MembershipID)
	}
	if rec.IsIeeeMember == nil || !*rec.IsIeeeMember {
		t.Error("IsIeeeMember should be true")
	}

	if len(task.To) != 1 || task.To[0] != "asha@example.com" {
		t.Errorf("task.To = %v", task.To)
	}
	if task.Message.HTML != "<p>Hi Asha, you are registered for Hack Night.</p>" {
		t.Errorf("mail body = %q", task.Message.HTML)
	}
}

func TestAssembleDropsHiddenValues(t *testing.T) {
	event := paidTeamEvent()
	values := map[string]string{}
	for k, v := range studentValues(1) {
		values[k] = v
	}
	for k, v := range studentValues(2) {
		values[k] = v
	}
	// Leftover input from a block hidden by shrinking the team.
	values["p3_name"] = "Ghost"
	values["p1_ieee_member"] = "Yes"
	values["membershipId"] = "11112222"

	sub := Submission{
		Category: models.CategoryStudent,
		TeamSize: 2,
		Values:   values,
		Files:    map[string]bool{"membershipCard": true},
	}
	prep, err := Validate(event, sub)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	rec, _ := Assemble(event, prep, sub, Uploads{MembershipCardURL: "https://cdn/card.png"})

	if _, ok := rec.Answers["p3_name"]; ok {
		t.Error("hidden participant value persisted")
	}
	if rec.ParticipantCount != 2 {
		t.Errorf("ParticipantCount = %d, want 2", rec.ParticipantCount)
	}
	if rec.Answers["p2_name"] == "" {
		t.Error("visible participant 2 value lost")
	}
}

func TestRenderTemplate(t *testing.T) {
	got := RenderTemplate("Hi {name}, welcome to {eventName}", "Expo", []string{"Asha", "Ravi"})
	want := "Hi Asha & Ravi, welcome to Expo"
	if got != want {
		t.Fatalf("RenderTemplate = %q, want %q", got, want)
	}
}
