package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

// FeedbackService records volunteer ratings of events
type FeedbackService struct {
	uow    UnitOfWork
	logger zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(uow UnitOfWork, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		uow:    uow,
		logger: logger.With().Str("service", "feedback").Logger(),
	}
}

// SubmitFeedback stores the one allowed feedback of volunteerID for eventID. Only
// participants may rate an event.
func (s *FeedbackService) SubmitFeedback(ctx context.Context, eventID, volunteerID int64, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	feedback := &models.Feedback{
		EventID:     eventID,
		VolunteerID: volunteerID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
	}
	if err := feedback.Validate(); err != nil {
		return nil, err
	}

	stores := s.uow.Stores()
	if _, err := stores.Events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	state, err := stores.Participations.GetState(ctx, eventID, volunteerID)
	if err != nil {
		return nil, err
	}
	if state != models.StateParticipant {
		return nil, apperrors.ErrNotParticipant
	}

	exists, err := stores.Feedback.Exists(ctx, eventID, volunteerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrFeedbackExists
	}

	// the unique constraint reports a concurrent duplicate as ErrFeedbackExists too
	if err := stores.Feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", eventID).Int64("volunteerID", volunteerID).Int("rating", feedback.Rating).Msg("Feedback submitted")
	resp := dto.NewFeedbackResponse(feedback)
	return &resp, nil
}
