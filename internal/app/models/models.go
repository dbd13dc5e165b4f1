package models

// RoleType defines the user role type
type RoleType string

const (
	RoleVolunteer RoleType = "VOLUNTEER"
	RoleManager   RoleType = "MANAGER"
)

// Valid reports whether r is a known role
func (r RoleType) Valid() bool {
	return r == RoleVolunteer || r == RoleManager
}

// ParticipationState is the relationship of a user to an event. A user with no
// participation row is in StateNone.
type ParticipationState string

const (
	StateNone        ParticipationState = "NONE"
	StateRequested   ParticipationState = "REQUESTED"
	StateParticipant ParticipationState = "PARTICIPANT"
	StateRejected    ParticipationState = "REJECTED"
)

// Terminal reports whether no further transition is possible from s
func (s ParticipationState) Terminal() bool {
	return s == StateParticipant || s == StateRejected
}

// RequestDecision is the outcome recorded in a request audit row
type RequestDecision string

const (
	DecisionApproved RequestDecision = "APPROVED"
	DecisionRejected RequestDecision = "REJECTED"
)
