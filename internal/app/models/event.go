package models

import (
	"strings"
	"time"

	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// Event limits
const (
	MinDurationHours   = 1
	MaxDurationHours   = 24
	MinMaxParticipants = 1
	MaxMaxParticipants = 1000
)

// Event defines the 'events' table
type Event struct {
	ID              int64         `json:"id" db:"id"`
	ManagerID       int64         `json:"managerId" db:"manager_id"`
	Name            string        `json:"name" db:"name"`
	Type            string        `json:"type" db:"type"`
	Address         string        `json:"address" db:"address"`
	Pincode         string        `json:"pincode" db:"pincode"`
	ImagePath       *string       `json:"-" db:"image_path"`
	ImageURL        *string       `json:"imageUrl,omitempty" db:"image_url"`
	Date            time.Time     `json:"date" db:"date"`
	StartTime       time.Duration `json:"startTime" db:"time"`
	DurationHours   int           `json:"durationHours" db:"duration_hours"`
	MaxParticipants int           `json:"maxParticipants" db:"max_participants"`
	Latitude        *float64      `json:"latitude,omitempty" db:"latitude"`
	Longitude       *float64      `json:"longitude,omitempty" db:"longitude"`
	IsCompleted     bool          `json:"isCompleted" db:"is_completed"`
	CompletionDate  *time.Time    `json:"completionDate,omitempty" db:"completion_date"`
	IsFeatured      bool          `json:"isFeatured" db:"is_featured"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// Location returns the event location, nil when unknown
func (e *Event) Location() *geo.Point {
	return geo.NewPoint(e.Latitude, e.Longitude)
}

// IsPast reports whether the event date lies before the calendar day of now
func (e *Event) IsPast(now time.Time) bool {
	return clock.DateOf(e.Date).Before(clock.DateOf(now))
}

// Completed reports whether the event counts as completed at now. Elapsed events are
// completed even before the completion job has flagged them.
func (e *Event) Completed(now time.Time) bool {
	return e.IsCompleted || e.IsPast(now)
}

// StartsAt returns the wall clock start of the event in loc
func (e *Event) StartsAt(loc *time.Location) time.Time {
	y, m, d := e.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(e.StartTime)
}

// Normalize trims text fields, truncates the date to a calendar day and rounds the
// coordinates to the stored precision
func (e *Event) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Type = strings.TrimSpace(e.Type)
	e.Address = strings.TrimSpace(e.Address)
	e.Pincode = strings.TrimSpace(e.Pincode)
	e.Date = clock.DateOf(e.Date)
	if p := e.Location(); p != nil {
		r := p.Rounded()
		e.Latitude, e.Longitude = &r.Lat, &r.Lon
	}
}

// Validate checks the event against the save-time rules
func (e *Event) Validate() error {
	if e.Name == "" {
		return apperrors.NewValidationError("name", "name is required")
	}
	if e.Type == "" {
		return apperrors.NewValidationError("type", "type is required")
	}
	if e.DurationHours < MinDurationHours || e.DurationHours > MaxDurationHours {
		return apperrors.NewValidationError("durationHours", "duration must be between 1 and 24 hours")
	}
	if e.MaxParticipants < MinMaxParticipants || e.MaxParticipants > MaxMaxParticipants {
		return apperrors.NewValidationError("maxParticipants", "maximum participants must be between 1 and 1000")
	}
	if e.StartTime < 0 || e.StartTime >= 24*time.Hour {
		return apperrors.NewValidationError("time", "time must be within the day")
	}
	if (e.Latitude == nil) != (e.Longitude == nil) {
		return apperrors.NewValidationError("location", "latitude and longitude must be given together")
	}
	if p := e.Location(); p != nil {
		return p.Validate()
	}
	return nil
}
