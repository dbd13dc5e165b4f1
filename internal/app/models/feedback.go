package models

import (
	"time"
	"unicode/utf8"

	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

// Feedback limits
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

// Feedback defines the 'event_feedbacks' table
type Feedback struct {
	ID          int64     `json:"id" db:"id"`
	EventID     int64     `json:"eventId" db:"event_id"`
	VolunteerID int64     `json:"volunteerId" db:"volunteer_id"`
	Rating      int       `json:"rating" db:"rating"`
	Comment     string    `json:"comment" db:"comment"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Volunteer   *User     `json:"volunteer,omitempty"` // Relation, no db tag
}

// Validate checks the rating range and comment length
func (f *Feedback) Validate() error {
	if f.Rating < MinRating || f.Rating > MaxRating {
		return apperrors.NewValidationError("rating", "rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(f.Comment) > MaxCommentLength {
		return apperrors.NewValidationError("comment", "comment must be at most 500 characters")
	}
	return nil
}
