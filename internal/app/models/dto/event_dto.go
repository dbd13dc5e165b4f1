package dto

import (
	"time"

	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

const timestampLayout = time.RFC3339

// EventRequest is the create/update form. It binds from JSON or multipart form data; the
// optional image travels as the "image" form file.
type EventRequest struct {
	Name            string   `json:"name" form:"name" binding:"required,max=200"`
	Type            string   `json:"type" form:"type" binding:"required,max=100" example:"Health Camp"`
	Address         string   `json:"address" form:"address"`
	Pincode         string   `json:"pincode" form:"pincode" binding:"max=10"`
	Date            string   `json:"date" form:"date" binding:"required" example:"2024-06-15"`
	Time            string   `json:"time" form:"time" binding:"required" example:"09:30"`
	DurationHours   int      `json:"durationHours" form:"durationHours" binding:"required,min=1,max=24"`
	MaxParticipants int      `json:"maxParticipants" form:"maxParticipants" binding:"required,min=1,max=1000"`
	Latitude        *float64 `json:"latitude" form:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude       *float64 `json:"longitude" form:"longitude" binding:"omitempty,min=-180,max=180"`
	IsFeatured      bool     `json:"isFeatured" form:"isFeatured"`
}

// ApplyTo copies the request onto e, parsing the date and time fields
func (r *EventRequest) ApplyTo(e *models.Event) error {
	date, err := clock.ParseDate(r.Date)
	if err != nil {
		return apperrors.NewValidationError("date", err.Error())
	}
	start, err := clock.ParseTimeOfDay(r.Time)
	if err != nil {
		return apperrors.NewValidationError("time", err.Error())
	}

	e.Name = r.Name
	e.Type = r.Type
	e.Address = r.Address
	e.Pincode = r.Pincode
	e.Date = date
	e.StartTime = start
	e.DurationHours = r.DurationHours
	e.MaxParticipants = r.MaxParticipants
	e.Latitude = r.Latitude
	e.Longitude = r.Longitude
	e.IsFeatured = r.IsFeatured
	return nil
}

// EventResponse is the public view of an event
type EventResponse struct {
	ID                      int64    `json:"id"`
	ManagerID               int64    `json:"managerId"`
	Name                    string   `json:"name"`
	Type                    string   `json:"type"`
	Address                 string   `json:"address,omitempty"`
	Pincode                 string   `json:"pincode,omitempty"`
	ImageURL                *string  `json:"imageUrl,omitempty"`
	Date                    string   `json:"date" example:"2024-06-15"`
	Time                    string   `json:"time" example:"09:30"`
	DurationHours           int      `json:"durationHours"`
	MaxParticipants         int      `json:"maxParticipants"`
	Latitude                *float64 `json:"latitude,omitempty"`
	Longitude               *float64 `json:"longitude,omitempty"`
	IsCompleted             bool     `json:"isCompleted"`
	CompletionDate          *string  `json:"completionDate,omitempty"`
	IsFeatured              bool     `json:"isFeatured"`
	ParticipantCount        int      `json:"participantCount"`
	ParticipationPercentage float64  `json:"participationPercentage" example:"45.5"`
	DistanceKm              *float64 `json:"distanceKm,omitempty"`
}

// NewEventResponse renders e as seen at now. participants is the current participant count.
func NewEventResponse(e *models.Event, participants int, now time.Time) EventResponse {
	resp := EventResponse{
		ID:               e.ID,
		ManagerID:        e.ManagerID,
		Name:             e.Name,
		Type:             e.Type,
		Address:          e.Address,
		Pincode:          e.Pincode,
		ImageURL:         e.ImageURL,
		Date:             e.Date.Format(clock.DateLayout),
		Time:             clock.FormatTimeOfDay(e.StartTime),
		DurationHours:    e.DurationHours,
		MaxParticipants:  e.MaxParticipants,
		Latitude:         e.Latitude,
		Longitude:        e.Longitude,
		IsCompleted:      e.Completed(now),
		IsFeatured:       e.IsFeatured,
		ParticipantCount: participants,
	}
	if e.CompletionDate != nil {
		d := e.CompletionDate.Format(clock.DateLayout)
		resp.CompletionDate = &d
	}
	if e.MaxParticipants > 0 {
		resp.ParticipationPercentage = geo.Round(float64(participants)*100/float64(e.MaxParticipants), 1)
	}
	return resp
}

// EventDetailResponse adds the caller's relationship to the event
type EventDetailResponse struct {
	EventResponse
	IsPast        bool                      `json:"isPast"`
	State         models.ParticipationState `json:"participationState" enums:"NONE,REQUESTED,PARTICIPANT,REJECTED"`
	IsParticipant bool                      `json:"isParticipant"`
	HasRequested  bool                      `json:"hasRequested"`
	IsManager     bool                      `json:"isManager"`
}

// EventListResponse is the public listing, split at today
type EventListResponse struct {
	Upcoming   []EventResponse `json:"upcoming"`
	Past       []EventResponse `json:"past"`
	Pagination PaginationInfo  `json:"pagination"`
}
