package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// VolunteerService updates volunteer profile data
type VolunteerService struct {
	uow    UnitOfWork
	now    clock.Clock
	logger zerolog.Logger
}

// NewVolunteerService creates a new VolunteerService
func NewVolunteerService(uow UnitOfWork, now clock.Clock, logger zerolog.Logger) *VolunteerService {
	return &VolunteerService{
		uow:    uow,
		now:    now,
		logger: logger.With().Str("service", "volunteer").Logger(),
	}
}

// UpdateLocation stores the volunteer's position rounded to six decimals and returns it
func (s *VolunteerService) UpdateLocation(ctx context.Context, userID int64, lat, lon *float64) (*geo.Point, error) {
	p := geo.NewPoint(lat, lon)
	if p == nil {
		return nil, apperrors.NewValidationError("location", "latitude and longitude are required")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rounded := p.Rounded()

	if err := s.uow.Stores().Volunteers.UpdateLocation(ctx, userID, rounded.Lat, rounded.Lon, s.now()); err != nil {
		return nil, err
	}

	s.logger.Debug().Int64("userID", userID).Msg("Volunteer location updated")
	return &rounded, nil
}

// ResetInterests clears every volunteer's interests
func (s *VolunteerService) ResetInterests(ctx context.Context) (int64, error) {
	n, err := s.uow.Stores().Volunteers.ResetInterests(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("profiles", n).Msg("Volunteer interests reset")
	return n, nil
}
