package models

import "time"

// Participation defines the 'event_participations' table
type Participation struct {
	EventID     int64              `json:"eventId" db:"event_id"`
	UserID      int64              `json:"userId" db:"user_id"`
	State       ParticipationState `json:"state" db:"state"`
	RequestedAt time.Time          `json:"requestedAt" db:"requested_at"`
	UpdatedAt   time.Time          `json:"updatedAt" db:"updated_at"`
	User        *User              `json:"user,omitempty"` // Relation, no db tag
}

// RequestStatus defines the 'request_statuses' audit table
type RequestStatus struct {
	ID         int64           `json:"id" db:"id"`
	EventID    int64           `json:"eventId" db:"event_id"`
	UserID     int64           `json:"userId" db:"user_id"`
	ManagerID  int64           `json:"managerId" db:"manager_id"`
	Status     RequestDecision `json:"status" db:"status"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty" db:"approved_at"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}
