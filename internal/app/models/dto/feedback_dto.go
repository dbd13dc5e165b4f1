package dto

import "github.com/yigit/volunteerhub/internal/app/models"

// FeedbackRequest is a volunteer's rating of an event they took part in
type FeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

// FeedbackResponse is one stored feedback
type FeedbackResponse struct {
	ID            int64  `json:"id"`
	EventID       int64  `json:"eventId"`
	VolunteerID   int64  `json:"volunteerId"`
	VolunteerName string `json:"volunteerName,omitempty"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
	CreatedAt     string `json:"createdAt"`
}

// NewFeedbackResponse converts a stored feedback
func NewFeedbackResponse(f *models.Feedback) FeedbackResponse {
	resp := FeedbackResponse{
		ID:          f.ID,
		EventID:     f.EventID,
		VolunteerID: f.VolunteerID,
		Rating:      f.Rating,
		Comment:     f.Comment,
		CreatedAt:   f.CreatedAt.UTC().Format(timestampLayout),
	}
	if f.Volunteer != nil {
		resp.VolunteerName = f.Volunteer.FullName()
	}
	return resp
}
