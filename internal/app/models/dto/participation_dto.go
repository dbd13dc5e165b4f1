package dto

import (
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

// ParticipationStatusResponse reports where a user stands with an event
type ParticipationStatusResponse struct {
	EventID int64                     `json:"eventId"`
	UserID  int64                     `json:"userId"`
	State   models.ParticipationState `json:"state" enums:"NONE,REQUESTED,PARTICIPANT,REJECTED"`
}

// RequesterResponse is a user who asked to join an event
type RequesterResponse struct {
	UserID      int64  `json:"userId"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	RequestedAt string `json:"requestedAt"`
}

// ParticipationRequestsResponse is the manager view of an event's requests
type ParticipationRequestsResponse struct {
	EventID  int64               `json:"eventId"`
	Pending  []RequesterResponse `json:"pending"`
	Approved []RequesterResponse `json:"approved"`
	Rejected []RequesterResponse `json:"rejected"`
}

// NewParticipationRequestsResponse groups rows by state
func NewParticipationRequestsResponse(eventID int64, rows []*models.Participation) ParticipationRequestsResponse {
	resp := ParticipationRequestsResponse{
		EventID:  eventID,
		Pending:  []RequesterResponse{},
		Approved: []RequesterResponse{},
		Rejected: []RequesterResponse{},
	}
	for _, p := range rows {
		r := RequesterResponse{
			UserID:      p.UserID,
			RequestedAt: p.RequestedAt.UTC().Format(timestampLayout),
		}
		if p.User != nil {
			r.Email = p.User.Email
			r.FullName = p.User.FullName()
		}
		switch p.State {
		case models.StateRequested:
			resp.Pending = append(resp.Pending, r)
		case models.StateParticipant:
			resp.Approved = append(resp.Approved, r)
		case models.StateRejected:
			resp.Rejected = append(resp.Rejected, r)
		}
	}
	return resp
}

// MyEventsResponse lists a volunteer's events, newest first
type MyEventsResponse struct {
	Participated []EventResponse `json:"participated"`
	Requested    []EventResponse `json:"requested"`
}

// CertificateResponse holds what is printed on a participation certificate
type CertificateResponse struct {
	EventName     string `json:"eventName"`
	EventDate     string `json:"eventDate" example:"June 15, 2024"`
	VolunteerName string `json:"volunteerName"`
	EventType     string `json:"eventType"`
}

// NewCertificateResponse fills a certificate for user's participation in e
func NewCertificateResponse(e *models.Event, user *models.User) CertificateResponse {
	return CertificateResponse{
		EventName:     e.Name,
		EventDate:     e.Date.Format(clock.CertificateDateLayout),
		VolunteerName: user.FullName(),
		EventType:     e.Type,
	}
}
