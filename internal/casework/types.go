package casework

import "errors"

// ActionStatus tracks the lifecycle of a case action.
type ActionStatus int

const (
	ActionStatusPending    ActionStatus = 0
	ActionStatusInProgress ActionStatus = 1
	ActionStatusDone       ActionStatus = 2
)

// Valid reports whether the status is within the closed domain.
func (s ActionStatus) Valid() bool {
	return s >= ActionStatusPending && s <= ActionStatusDone
}

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Case is a managed family case. Number is assigned sequentially at
// creation and never reused; Editor references the account responsible
// for the case.
type Case struct {
	ID               string  `json:"id"`
	Number           int64   `json:"number"`
	Active           bool    `json:"active"`
	RegistrationDate string  `json:"registration_date"` // YYYY-MM-DD
	Editor           string  `json:"editor"`
	Address          *string `json:"address"`
	Description      *string `json:"description"`
}

// Person is a member of a case's family.
type Person struct {
	ID                string  `json:"id"`
	FirstName         string  `json:"first_name"`
	LastName          string  `json:"last_name"`
	FatherName        string  `json:"father_name"`
	Birthday          string  `json:"birthday"` // YYYY-MM-DD
	NationalNumber    string  `json:"national_number"`
	PhoneNumber       string  `json:"phone_number"`
	CaseID            string  `json:"case_id"`
	IsLeader          bool    `json:"is_leader"`
	FamilyRole        int     `json:"family_role"`
	Description       *string `json:"description"`
	EducationField    *string `json:"education_field"`
	EducationLocation *string `json:"education_location"`
}

// PersonJob is an occupation record for a person. Income is monthly,
// in whole currency units, when known.
type PersonJob struct {
	ID       string  `json:"id"`
	PersonID string  `json:"person_id"`
	Title    string  `json:"title"`
	Income   *int64  `json:"income"`
	Location *string `json:"location"`
}

// PersonSkill is a free-text skill attached to a person.
type PersonSkill struct {
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
	Skill    string `json:"skill"`
}

// PersonRequirement is a recorded need of a person.
type PersonRequirement struct {
	ID          string `json:"id"`
	PersonID    string `json:"person_id"`
	Description string `json:"description"`
}

// CaseAction is a task scheduled against a case. ActionDate is nil for
// unscheduled actions.
type CaseAction struct {
	ID         string       `json:"id"`
	CaseID     string       `json:"case_id"`
	Action     string       `json:"action"`
	Status     ActionStatus `json:"status"`
	ActionDate *string      `json:"action_date"` // YYYY-MM-DD
}
