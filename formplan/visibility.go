package formplan

import (
	"strings"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

// Answer is the participant-1 IEEE membership answer.
type Answer int

const (
	AnswerUnset Answer = iota
	AnswerYes
	AnswerNo
)

// ParseAnswer maps a submitted form value onto an Answer.
func ParseAnswer(v string) Answer {
	switch v {
	case "Yes":
		return AnswerYes
	case "No":
		return AnswerNo
	}
	return AnswerUnset
}

// State is the user-driven form state that visibility and requirement
// decisions depend on. All transitions are synchronous and single
// threaded within one session; there is no concurrent mutation.
type State struct {
	Category   string
	TeamSize   int
	IeeeMember Answer
}

// IsMember reports whether participant 1 answered Yes.
func (s State) IsMember() bool { return s.IeeeMember == AnswerYes }

// NeedsPayment reports whether the payment section applies in this state:
// non-members always pay, and members pay unless the event waives the fee
// for them. Free events never need payment.
func NeedsPayment(event *models.Event, s State) bool {
	if !event.PaymentsEnabled {
		return false
	}
	return !s.IsMember() || !event.IsFreeForIeeeMembers
}

// EffectiveField is a FieldSpec with visibility and requirement resolved
// against the current state. A hidden field is never required, so an
// invisible input can never block submission.
type EffectiveField struct {
	FieldSpec
	Visible bool `json:"visible"`
}

// Apply recomputes visibility and requirement for every field of the plan
// under the given state. The rules are:
//   - participant blocks 1..teamSize are visible and required; blocks past
//     the selected size are hidden with requirement cleared,
//   - membership-id-like fields are never forced required by a team-size
//     change,
//   - the membership section is visible and required iff participant 1 is
//     a member,
//   - the payment section is visible and required iff payment is needed,
//   - the membership card is required only while it gates free entry.
func Apply(plan *Plan, event *models.Event, s State) []EffectiveField {
	size := s.TeamSize
	if size == 0 {
		size = plan.TeamSize
	}
	needsPayment := NeedsPayment(event, s)
	member := s.IsMember()

	out := make([]EffectiveField, 0, len(plan.Fields))
	for _, f := range plan.Fields {
		ef := EffectiveField{FieldSpec: f, Visible: true}

		switch {
		case strings.HasPrefix(f.Section, "participant_"):
			idx := participantIndex(f.Section)
			ef.Visible = idx <= size
			ef.Required = ef.Visible && f.Required && !membershipIDLike(f.FieldID)

		case f.Section == SectionPayment:
			ef.Visible = needsPayment
			ef.Required = needsPayment

		case f.Section == SectionMembership:
			ef.Visible = member
			if f.FieldID == "membershipCard" {
				ef.Required = member && event.IsFreeForIeeeMembers
			} else {
				ef.Required = member
			}
		}

		if !ef.Visible {
			ef.Required = false
		}
		out = append(out, ef)
	}
	return out
}

// RequiredFieldIDs lists the field ids that must be present in a
// submission under the given state.
func RequiredFieldIDs(plan *Plan, event *models.Event, s State) []string {
	var ids []string
	for _, f := range Apply(plan, event, s) {
		if f.Required {
			ids = append(ids, f.FieldID)
		}
	}
	return ids
}

func membershipIDLike(fieldID string) bool {
	return strings.HasSuffix(fieldID, "_ieee_id") || fieldID == "membershipId"
}

func participantIndex(section string) int {
	n := 0
	for _, r := range section[len("participant_"):] {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
