package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/volunteerhub/internal/app/auth"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/filestorage"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
	"github.com/yigit/volunteerhub/internal/pkg/helpers"
)

// EventService manages events and the manager dashboard
type EventService struct {
	uow         UnitOfWork
	authz       *appauth.AuthorizationService
	images      filestorage.ImageStore
	imageFolder string
	now         clock.Clock
	logger      zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	uow UnitOfWork,
	authz *appauth.AuthorizationService,
	images filestorage.ImageStore,
	imageFolder string,
	now clock.Clock,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		uow:         uow,
		authz:       authz,
		images:      images,
		imageFolder: imageFolder,
		now:         now,
		logger:      logger.With().Str("service", "event").Logger(),
	}
}

func buildEvent(e *models.Event, req *dto.EventRequest) error {
	if err := req.ApplyTo(e); err != nil {
		return err
	}
	e.Normalize()
	return e.Validate()
}

// storeImage saves image when one was uploaded. A nil result means no upload.
func (s *EventService) storeImage(ctx context.Context, image *multipart.FileHeader) (*filestorage.StoredImage, error) {
	if image == nil {
		return nil, nil
	}
	if err := filestorage.ValidateImage(image); err != nil {
		return nil, err
	}
	return s.images.Save(ctx, image, s.imageFolder)
}

func (s *EventService) discardImage(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.images.Delete(ctx, path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to delete event image")
	}
}

// CreateEvent validates and stores a new event owned by managerID. image may be nil.
func (s *EventService) CreateEvent(ctx context.Context, managerID int64, req *dto.EventRequest, image *multipart.FileHeader) (*dto.EventResponse, error) {
	if err := s.authz.ValidateManager(ctx, managerID); err != nil {
		return nil, err
	}

	event := &models.Event{ManagerID: managerID}
	if err := buildEvent(event, req); err != nil {
		return nil, err
	}

	stored, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		event.ImagePath, event.ImageURL = &stored.Path, &stored.URL
	}

	if err := s.uow.Stores().Events.Create(ctx, event); err != nil {
		if stored != nil {
			s.discardImage(ctx, stored.Path)
		}
		return nil, err
	}

	s.logger.Info().Int64("eventID", event.ID).Int64("managerID", managerID).Msg("Event created")
	resp := dto.NewEventResponse(event, 0, s.now())
	return &resp, nil
}

// UpdateEvent edits an event. Only the manager who created it may do so, and the capacity
// cannot drop below the current participant count.
func (s *EventService) UpdateEvent(ctx context.Context, managerID, eventID int64, req *dto.EventRequest, image *multipart.FileHeader) (*dto.EventResponse, error) {
	stored, err := s.storeImage(ctx, image)
	if err != nil {
		return nil, err
	}

	var (
		event        *models.Event
		participants int
		oldImage     string
	)
	err = s.uow.WithTransaction(ctx, func(ctx context.Context, tx Stores) error {
		var err error
		event, err = tx.Events.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if err := appauth.ValidateEventManager(event, managerID); err != nil {
			return err
		}
		if err := buildEvent(event, req); err != nil {
			return err
		}

		participants, err = tx.Participations.CountParticipants(ctx, eventID)
		if err != nil {
			return err
		}
		if event.MaxParticipants < participants {
			return apperrors.NewValidationError("maxParticipants", "maximum participants cannot be lower than the current participant count")
		}

		if stored != nil {
			if event.ImagePath != nil {
				oldImage = *event.ImagePath
			}
			event.ImagePath, event.ImageURL = &stored.Path, &stored.URL
		}
		return tx.Events.Update(ctx, event)
	})
	if err != nil {
		if stored != nil {
			s.discardImage(ctx, stored.Path)
		}
		return nil, err
	}
	s.discardImage(ctx, oldImage)

	s.logger.Info().Int64("eventID", eventID).Int64("managerID", managerID).Msg("Event updated")
	resp := dto.NewEventResponse(event, participants, s.now())
	return &resp, nil
}

// GetEventDetail returns the event with the caller's relationship to it
func (s *EventService) GetEventDetail(ctx context.Context, eventID, userID int64) (*dto.EventDetailResponse, error) {
	stores := s.uow.Stores()
	event, err := stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	participants, err := stores.Participations.CountParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}
	state, err := stores.Participations.GetState(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return &dto.EventDetailResponse{
		EventResponse: dto.NewEventResponse(event, participants, now),
		IsPast:        event.IsPast(now),
		State:         state,
		IsParticipant: state == models.StateParticipant,
		HasRequested:  state == models.StateRequested,
		IsManager:     appauth.CanManageEvent(event, userID),
	}, nil
}

// ListEvents returns one page of every event, split into upcoming and past
func (s *EventService) ListEvents(ctx context.Context, page, size int) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	stores := s.uow.Stores()

	events, total, err := stores.Events.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	counts, err := stores.Participations.CountParticipantsByEvents(ctx, eventIDs(events))
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.EventListResponse{
		Upcoming:   []dto.EventResponse{},
		Past:       []dto.EventResponse{},
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}
	for _, e := range events {
		item := dto.NewEventResponse(e, counts[e.ID], now)
		if e.IsPast(now) {
			resp.Past = append(resp.Past, item)
		} else {
			resp.Upcoming = append(resp.Upcoming, item)
		}
	}
	return resp, nil
}

// ManagerDashboard lists the manager's events with participant counts and feedback
func (s *EventService) ManagerDashboard(ctx context.Context, managerID int64) (*dto.ManagerDashboardResponse, error) {
	if err := s.authz.ValidateManager(ctx, managerID); err != nil {
		return nil, err
	}
	stores := s.uow.Stores()

	events, err := stores.Events.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	ids := eventIDs(events)
	counts, err := stores.Participations.CountParticipantsByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	feedback, err := stores.Feedback.ListByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	byEvent := make(map[int64][]*models.Feedback, len(events))
	for _, f := range feedback {
		byEvent[f.EventID] = append(byEvent[f.EventID], f)
	}

	now := s.now()
	resp := &dto.ManagerDashboardResponse{
		Upcoming: []dto.ManagedEventResponse{},
		Past:     []dto.ManagedEventResponse{},
	}
	for _, e := range events {
		item := dto.ManagedEventResponse{
			Event:         dto.NewEventResponse(e, counts[e.ID], now),
			Feedback:      make([]dto.FeedbackResponse, 0, len(byEvent[e.ID])),
			AverageRating: averageRating(byEvent[e.ID]),
		}
		for _, f := range byEvent[e.ID] {
			item.Feedback = append(item.Feedback, dto.NewFeedbackResponse(f))
		}
		if e.IsPast(now) {
			resp.Past = append(resp.Past, item)
		} else {
			resp.Upcoming = append(resp.Upcoming, item)
		}
	}
	return resp, nil
}

// averageRating is rounded to one decimal, nil without feedback
func averageRating(feedback []*models.Feedback) *float64 {
	if len(feedback) == 0 {
		return nil
	}
	sum := 0
	for _, f := range feedback {
		sum += f.Rating
	}
	avg := geo.Round(float64(sum)/float64(len(feedback)), 1)
	return &avg
}

func eventIDs(events []*models.Event) []int64 {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}
