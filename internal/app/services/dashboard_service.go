package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/domain/ranking"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
)

// DistanceResolver turns coordinates into kilometres, nil meaning unknown
type DistanceResolver interface {
	Resolve(ctx context.Context, origin *geo.Point, destinations []*geo.Point) []*float64
}

// DashboardService builds the categorized volunteer dashboard
type DashboardService struct {
	uow      UnitOfWork
	distance DistanceResolver
	now      clock.Clock
	logger   zerolog.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(uow UnitOfWork, distance DistanceResolver, now clock.Clock, logger zerolog.Logger) *DashboardService {
	return &DashboardService{
		uow:      uow,
		distance: distance,
		now:      now,
		logger:   logger.With().Str("service", "dashboard").Logger(),
	}
}

// Dashboard groups the upcoming events for volunteerID into priority buckets. Distances
// that cannot be resolved are left unknown and never fail the request.
func (s *DashboardService) Dashboard(ctx context.Context, volunteerID int64) (*dto.DashboardResponse, error) {
	stores := s.uow.Stores()
	profile, err := stores.Volunteers.GetByUserID(ctx, volunteerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	all, err := stores.Events.ListFrom(ctx, clock.DateOf(now))
	if err != nil {
		return nil, err
	}
	upcoming := make([]*models.Event, 0, len(all))
	for _, e := range all {
		if ranking.IsUpcoming(now, e.Date, e.StartTime) {
			upcoming = append(upcoming, e)
		}
	}

	origin := profile.Location()
	destinations := make([]*geo.Point, len(upcoming))
	for i, e := range upcoming {
		destinations[i] = e.Location()
	}
	distances := s.distance.Resolve(ctx, origin, destinations)

	counts, err := stores.Participations.CountParticipantsByEvents(ctx, eventIDs(upcoming))
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*models.Event, len(upcoming))
	candidates := make([]ranking.Candidate, len(upcoming))
	for i, e := range upcoming {
		byID[e.ID] = e
		candidates[i] = ranking.Candidate{
			ID:         e.ID,
			Category:   e.Type,
			Date:       e.Date,
			StartTime:  e.StartTime,
			Completed:  e.IsCompleted,
			DistanceKm: distances[i],
		}
	}

	result := ranking.Categorize(now, profile.Interests, candidates)

	render := func(members []ranking.Candidate) []dto.EventResponse {
		out := make([]dto.EventResponse, 0, len(members))
		for _, c := range members {
			item := dto.NewEventResponse(byID[c.ID], counts[c.ID], now)
			item.DistanceKm = c.DistanceKm
			out = append(out, item)
		}
		return out
	}

	interests := profile.Interests
	if interests == nil {
		interests = []string{}
	}
	resp := &dto.DashboardResponse{
		Buckets:       make([]dto.DashboardBucket, 0, len(result.Buckets)),
		Completed:     render(result.Completed()),
		Interests:     interests,
		LocationKnown: origin != nil,
	}
	for _, b := range result.Buckets {
		resp.Buckets = append(resp.Buckets, dto.DashboardBucket{
			Key:    string(b.Key),
			Title:  b.Title,
			Badge:  b.Badge,
			Events: render(b.Events),
		})
	}

	s.logger.Debug().
		Int64("volunteerID", volunteerID).
		Int("events", len(upcoming)).
		Int("buckets", len(resp.Buckets)).
		Msg("Dashboard built")
	return resp, nil
}
