package formplan

import (
	"fmt"
	"strconv"
	"strings"

	models "github.com/ieee-vbit/registration-backend-go/models"
)

// Field kinds
const (
	KindText   = "text"
	KindEmail  = "email"
	KindTel    = "tel"
	KindSelect = "select"
	KindFile   = "file"
	KindHidden = "hidden"
)

// Form sections
const (
	SectionQuestions  = "questions"
	SectionPayment    = "payment"
	SectionMembership = "membership"
)

// Fixed select options for student participant fields.
var (
	YearOptions    = []string{"2", "3", "4"}
	BranchOptions  = []string{"CIVIL", "CSB", "CSC", "CSD", "CSE", "CSM", "ECE", "EEE", "IT", "MECH", "OTHERS"}
	SectionOptions = []string{"A", "B", "C", "D", "OTHERS"}
	YesNoOptions   = []string{"Yes", "No"}
)

// RollPattern is the input pattern for student roll numbers.
const RollPattern = "[a-zA-Z0-9]{10}"

// ErrTeamSizeOutOfRange is returned by Build when the caller-chosen team
// size falls outside the event's [min, max] bounds.
var ErrTeamSizeOutOfRange = fmt.Errorf("team size out of range")

// ConfigurationError reports a malformed event descriptor. It is raised
// at admin save time and again when a plan is built.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("event configuration invalid: %s: %s", e.Field, e.Reason)
}

// FieldSpec describes one field of the rendered registration form.
type FieldSpec struct {
	FieldID  string   `json:"field_id"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Section  string   `json:"section"`
	Pattern  string   `json:"pattern,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// Plan is the ordered field list for one (event, category, team size)
// combination. Building a plan is deterministic: identical inputs always
// produce an identical field list in identical order.
type Plan struct {
	Category        string      `json:"category"`
	TeamSize        int         `json:"team_size"`
	TeamSizeChoices []int       `json:"team_size_choices,omitempty"`
	Fields          []FieldSpec `json:"fields"`
}

// ValidateEvent checks an event descriptor for the misconfigurations that
// would make a registration form unbuildable. Admin save handlers must
// reject descriptors that fail this check so a broken event never reaches
// the public form.
func ValidateEvent(event *models.Event) error {
	switch event.ParticipationType {
	case models.ParticipationIndividual:
	case models.ParticipationTeam:
		if event.MinTeamSize < 1 || event.MaxTeamSize < 1 {
			return &ConfigurationError{Field: "minTeamSize", Reason: "team sizes must be at least 1"}
		}
		if event.MinTeamSize > event.MaxTeamSize {
			return &ConfigurationError{Field: "minTeamSize", Reason: "minTeamSize exceeds maxTeamSize"}
		}
	default:
		return &ConfigurationError{Field: "participationType", Reason: "unknown participation type " + strconv.Quote(event.ParticipationType)}
	}

	switch event.EventAudience {
	case models.AudienceStudentsOnly, models.AudienceFacultyOnly, models.AudienceStudentsAndFaculty:
	default:
		return &ConfigurationError{Field: "eventAudience", Reason: "unknown audience " + strconv.Quote(event.EventAudience)}
	}

	if event.PaymentsEnabled {
		if event.StudentFee < 0 || event.FacultyFee < 0 {
			return &ConfigurationError{Field: "studentFee", Reason: "fees must be non-negative"}
		}
		if event.StudentFee == 0 && event.FacultyFee == 0 {
			return &ConfigurationError{Field: "studentFee", Reason: "payments enabled but no fee configured"}
		}
	}

	for _, q := range append(append([]models.CustomQuestion{}, event.StudentCustomQuestions...), event.FacultyCustomQuestions...) {
		if strings.TrimSpace(q.Label) == "" {
			return &ConfigurationError{Field: "customQuestions", Reason: "question label is empty"}
		}
		switch q.Type {
		case "text", "yesno", "rating":
		default:
			return &ConfigurationError{Field: "customQuestions", Reason: "unknown question type " + strconv.Quote(q.Type)}
		}
	}

	return nil
}

// ResolveTeamSize applies the team-size selection rule: individual events
// are always size 1, fixed-size team events are pinned to maxTeamSize, and
// ranged team events use the caller's choice (0 means "not chosen yet" and
// resolves to maxTeamSize so every block can be rendered).
func ResolveTeamSize(event *models.Event, chosen int) (int, error) {
	if event.ParticipationType != models.ParticipationTeam {
		return 1, nil
	}
	if event.MinTeamSize == event.MaxTeamSize {
		return event.MaxTeamSize, nil
	}
	if chosen == 0 {
		return event.MaxTeamSize, nil
	}
	if chosen < event.MinTeamSize || chosen > event.MaxTeamSize {
		return 0, fmt.Errorf("%w: %d not in [%d, %d]", ErrTeamSizeOutOfRange, chosen, event.MinTeamSize, event.MaxTeamSize)
	}
	return chosen, nil
}

// Build derives the registration form plan for the given event, participant
// category and chosen team size.
func Build(event *models.Event, category string, teamSize int) (*Plan, error) {
	if err := ValidateEvent(event); err != nil {
		return nil, err
	}
	if category != models.CategoryStudent && category != models.CategoryFaculty {
		return nil, fmt.Errorf("unknown participant category %q", category)
	}

	size, err := ResolveTeamSize(event, teamSize)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Category: category, TeamSize: size}
	if event.ParticipationType == models.ParticipationTeam && event.MinTeamSize < event.MaxTeamSize {
		for i := event.MinTeamSize; i <= event.MaxTeamSize; i++ {
			plan.TeamSizeChoices = append(plan.TeamSizeChoices, i)
		}
	}

	for i := 1; i <= size; i++ {
		plan.Fields = append(plan.Fields, participantBlock(event, category, i)...)
	}

	for _, q := range event.CustomQuestions(category) {
		plan.Fields = append(plan.Fields, customQuestionField(q))
	}

	if event.PaymentsEnabled {
		plan.Fields = append(plan.Fields,
			FieldSpec{FieldID: "transactionId", Label: "Transaction ID", Kind: KindText, Section: SectionPayment},
			FieldSpec{FieldID: "screenshot", Label: "Payment Screenshot", Kind: KindFile, Section: SectionPayment},
		)
		if event.IsFreeForIeeeMembers {
			plan.Fields = append(plan.Fields,
				FieldSpec{FieldID: "membershipId", Label: "IEEE Membership ID", Kind: KindText, Section: SectionMembership},
				FieldSpec{FieldID: "membershipCard", Label: "IEEE Membership Card", Kind: KindFile, Section: SectionMembership},
			)
		}
	}

	return plan, nil
}

func participantBlock(event *models.Event, category string, i int) []FieldSpec {
	section := ParticipantSection(i)
	var fields []FieldSpec

	add := func(attr, label, kind string, opts []string, pattern string) {
		fields = append(fields, FieldSpec{
			FieldID:  models.ParticipantField(i, attr),
			Label:    label,
			Kind:     kind,
			Required: true,
			Section:  section,
			Pattern:  pattern,
			Options:  opts,
		})
	}

	if category == models.CategoryFaculty {
		add("name", "Name", KindText, nil, "")
		add("dept", "Department", KindText, nil, "")
		add("email", "Email", KindEmail, nil, "")
		add("phone", "Phone No.", KindTel, nil, "")
	} else {
		add("name", "Name", KindText, nil, "")
		add("college", "College Name", KindText, nil, "")
		add("year", "Year", KindSelect, YearOptions, "")
		add("branch", "Branch", KindSelect, BranchOptions, "")
		add("section", "Section", KindSelect, SectionOptions, "")
		add("roll", "Roll No.", KindText, nil, RollPattern)
		add("email", "Email", KindEmail, nil, "")
		add("phone", "Phone No.", KindTel, nil, "")
	}

	// The membership question sits on participant 1 only, and only when
	// payments are on: for free events the answer changes nothing.
	if i == 1 && event.PaymentsEnabled {
		add("ieee_member", "Are you an IEEE Member?", KindSelect, YesNoOptions, "")
	}

	return fields
}

func customQuestionField(q models.CustomQuestion) FieldSpec {
	field := FieldSpec{
		FieldID:  CustomQuestionFieldID(q.Label),
		Label:    q.Label,
		Required: true,
		Section:  SectionQuestions,
	}
	switch q.Type {
	case "yesno":
		field.Kind = KindSelect
		field.Options = YesNoOptions
	case "rating":
		field.Kind = KindSelect
		for j := 1; j <= 10; j++ {
			field.Options = append(field.Options, strconv.Itoa(j))
		}
	default:
		field.Kind = KindText
	}
	return field
}

// ParticipantSection names the form section of participant i's block.
func ParticipantSection(i int) string {
	return "participant_" + strconv.Itoa(i)
}

// CustomQuestionFieldID derives the flat field id for a custom question
// label, e.g. "How did you hear" -> "custom_q_How_did_you_hear".
func CustomQuestionFieldID(label string) string {
	return "custom_q_" + strings.Join(strings.Fields(label), "_")
}
