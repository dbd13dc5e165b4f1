package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

// CompletionService flags elapsed events as completed
type CompletionService struct {
	uow    UnitOfWork
	now    clock.Clock
	logger zerolog.Logger
}

// NewCompletionService creates a new CompletionService
func NewCompletionService(uow UnitOfWork, now clock.Clock, logger zerolog.Logger) *CompletionService {
	return &CompletionService{
		uow:    uow,
		now:    now,
		logger: logger.With().Str("service", "completion").Logger(),
	}
}

// CompleteElapsedEvents marks every event dated before today that has at least one
// participant as completed on its own date. It returns the number of events changed.
func (s *CompletionService) CompleteElapsedEvents(ctx context.Context) (int64, error) {
	today := clock.DateOf(s.now())
	n, err := s.uow.Stores().Events.CompleteElapsed(ctx, today)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("events", n).Str("before", today.Format(clock.DateLayout)).Msg("Elapsed events completed")
	return n, nil
}
