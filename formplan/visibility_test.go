package formplan

import (
	"testing"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

func effective(t *testing.T, event *models.Event, s State) map[string]EffectiveField {
	t.Helper()
	plan, err := Build(event, s.Category, s.TeamSize)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := map[string]EffectiveField{}
	for _, f := range Apply(plan, event, s) {
		out[f.FieldID] = f
	}
	return out
}

func TestApplyTeamSizeTogglesRequirement(t *testing.T) {
	event := teamEvent()
	plan, err := Build(event, models.CategoryStudent, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	shrunk := map[string]EffectiveField{}
	for _, f := range Apply(plan, event, State{Category: models.CategoryStudent, TeamSize: 2}) {
		shrunk[f.FieldID] = f
	}
	if f := shrunk["p3_name"]; f.Visible || f.Required {
		t.Errorf("p3_name after shrink: visible=%v required=%v, want hidden and optional", f.Visible, f.Required)
	}
	if f := shrunk["p2_name"]; !f.Visible || !f.Required {
		t.Errorf("p2_name after shrink: visible=%v required=%v, want visible and required", f.Visible, f.Required)
	}

	grown := map[string]EffectiveField{}
	for _, f := range Apply(plan, event, State{Category: models.CategoryStudent, TeamSize: 3}) {
		grown[f.FieldID] = f
	}
	if f := grown["p3_name"]; !f.Visible || !f.Required {
		t.Errorf("p3_name after grow: visible=%v required=%v, want visible and required", f.Visible, f.Required)
	}
}

func TestApplyNeverForcesMembershipIDRequired(t *testing.T) {
	event := teamEvent()
	plan, err := Build(event, models.CategoryStudent, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	// An optional per-participant membership id must stay optional no
	// matter how often the team size changes.
	plan.Fields = append(plan.Fields, FieldSpec{
		FieldID: "p2_ieee_id",
		Label:   "IEEE ID",
		Kind:    KindText,
		Section: ParticipantSection(2),
	})

	for _, size := range []int{2, 3, 2, 3} {
		for _, f := range Apply(plan, event, State{Category: models.CategoryStudent, TeamSize: size}) {
			if f.FieldID == "p2_ieee_id" && f.Required {
				t.Fatalf("p2_ieee_id became required at size %d", size)
			}
		}
	}
}

func TestNeedsPayment(t *testing.T) {
	cases := []struct {
		name    string
		enabled bool
		free    bool
		answer  Answer
		want    bool
	}{
		{"payments off", false, true, AnswerYes, false},
		{"non-member pays", true, true, AnswerNo, true},
		{"unset answer pays", true, true, AnswerUnset, true},
		{"member waived", true, true, AnswerYes, false},
		{"member pays without waiver", true, false, AnswerYes, true},
		{"non-member without waiver", true, false, AnswerNo, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			event := teamEvent()
			event.PaymentsEnabled = tc.enabled
			event.IsFreeForIeeeMembers = tc.free
			got := NeedsPayment(event, State{IeeeMember: tc.answer})
			if got != tc.want {
				t.Fatalf("NeedsPayment = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestApplyPaymentSection(t *testing.T) {
	event := teamEvent()

	nonMember := effective(t, event, State{Category: models.CategoryStudent, TeamSize: 1, IeeeMember: AnswerNo})
	if f := nonMember["screenshot"]; !f.Visible || !f.Required {
		t.Errorf("screenshot for non-member: visible=%v required=%v", f.Visible, f.Required)
	}
	if f := nonMember["membershipId"]; f.Visible {
		t.Error("membership section visible for non-member")
	}

	member := effective(t, event, State{Category: models.CategoryStudent, TeamSize: 1, IeeeMember: AnswerYes})
	if f := member["screenshot"]; f.Visible || f.Required {
		t.Errorf("screenshot for waived member: visible=%v required=%v", f.Visible, f.Required)
	}
	if f := member["membershipId"]; !f.Visible || !f.Required {
		t.Errorf("membershipId for member: visible=%v required=%v", f.Visible, f.Required)
	}
	if f := member["membershipCard"]; !f.Visible || !f.Required {
		t.Errorf("membershipCard while it gates free entry: visible=%v required=%v", f.Visible, f.Required)
	}
}

func TestApplyHiddenIsNeverRequired(t *testing.T) {
	event := teamEvent()
	plan, err := Build(event, models.CategoryStudent, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, answer := range []Answer{AnswerUnset, AnswerYes, AnswerNo} {
		for size := 1; size <= 3; size++ {
			s := State{Category: models.CategoryStudent, TeamSize: size, IeeeMember: answer}
			for _, f := range Apply(plan, event, s) {
				if !f.Visible && f.Required {
					t.Fatalf("hidden field %s required in state %+v", f.FieldID, s)
				}
			}
		}
	}
}

func TestRequiredFieldIDs(t *testing.T) {
	event := teamEvent()
	plan, err := Build(event, models.CategoryStudent, 1)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := RequiredFieldIDs(plan, event, State{Category: models.CategoryStudent, TeamSize: 1, IeeeMember: AnswerNo})
	want := map[string]bool{"p1_name": true, "transactionId": true, "screenshot": true}
	got := map[string]bool{}
	for _, id := range ids {
		got[id] = true
	}
	for id := range want {
		if !got[id] {
			t.Errorf("missing required field %s", id)
		}
	}
	if got["membershipId"] || got["membershipCard"] {
		t.Error("membership fields required for a non-member")
	}
}

func TestParseAnswer(t *testing.T) {
	if ParseAnswer("Yes") != AnswerYes || ParseAnswer("No") != AnswerNo {
		t.Fatal("literal answers misparsed")
	}
	for _, v := range []string{"", "yes", "maybe"} {
		if ParseAnswer(v) != AnswerUnset {
			t.Errorf("ParseAnswer(%q) != AnswerUnset", v)
		}
	}
}
