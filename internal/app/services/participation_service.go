package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/volunteerhub/internal/app/auth"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/domain/ranking"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
)

// ParticipationService drives the request lifecycle:
// NONE -> REQUESTED -> PARTICIPANT or REJECTED. Both outcomes are final.
//
// Every transition runs in one transaction that first locks the event row, so capacity
// checks and writes for the same event never interleave.
type ParticipationService struct {
	uow    UnitOfWork
	now    clock.Clock
	logger zerolog.Logger
}

// NewParticipationService creates a new ParticipationService
func NewParticipationService(uow UnitOfWork, now clock.Clock, logger zerolog.Logger) *ParticipationService {
	return &ParticipationService{
		uow:    uow,
		now:    now,
		logger: logger.With().Str("service", "participation").Logger(),
	}
}

func status(eventID, userID int64, state models.ParticipationState) *dto.ParticipationStatusResponse {
	return &dto.ParticipationStatusResponse{EventID: eventID, UserID: userID, State: state}
}

// RequestParticipation asks to join eventID on behalf of userID. Asking again while the
// request is pending is a no-op.
func (s *ParticipationService) RequestParticipation(ctx context.Context, eventID, userID int64) (*dto.ParticipationStatusResponse, error) {
	now := s.now()
	err := s.uow.WithTransaction(ctx, func(ctx context.Context, tx Stores) error {
		event, err := tx.Events.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Completed(now) || !ranking.IsUpcoming(now, event.Date, event.StartTime) {
			return apperrors.ErrEventClosed
		}

		user, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.RoleType != models.RoleVolunteer {
			return appauth.ErrNotVolunteer
		}

		state, err := tx.Participations.GetState(ctx, eventID, userID)
		if err != nil {
			return err
		}
		switch state {
		case models.StateRequested:
			return nil
		case models.StateParticipant:
			return apperrors.ErrAlreadyParticipant
		case models.StateRejected:
			return apperrors.ErrRequestRejected
		}

		if err := checkCapacity(ctx, tx, event); err != nil {
			return err
		}
		return tx.Participations.SetState(ctx, eventID, userID, models.StateRequested, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("eventID", eventID).Int64("userID", userID).Msg("Participation requested")
	return status(eventID, userID, models.StateRequested), nil
}

// ApproveRequest admits userID to eventID. Only the event's manager may approve, and
// never beyond capacity.
func (s *ParticipationService) ApproveRequest(ctx context.Context, eventID, userID, actingUserID int64) (*dto.ParticipationStatusResponse, error) {
	return s.decide(ctx, eventID, userID, actingUserID, models.DecisionApproved)
}

// RejectRequest turns down userID's pending request for eventID
func (s *ParticipationService) RejectRequest(ctx context.Context, eventID, userID, actingUserID int64) (*dto.ParticipationStatusResponse, error) {
	return s.decide(ctx, eventID, userID, actingUserID, models.DecisionRejected)
}

func (s *ParticipationService) decide(ctx context.Context, eventID, userID, actingUserID int64, decision models.RequestDecision) (*dto.ParticipationStatusResponse, error) {
	now := s.now()
	next := models.StateRejected
	if decision == models.DecisionApproved {
		next = models.StateParticipant
	}

	err := s.uow.WithTransaction(ctx, func(ctx context.Context, tx Stores) error {
		event, err := tx.Events.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if err := appauth.ValidateEventManager(event, actingUserID); err != nil {
			return err
		}

		state, err := tx.Participations.GetState(ctx, eventID, userID)
		if err != nil {
			return err
		}
		switch state {
		case models.StateNone:
			return apperrors.ErrRequestNotFound
		case models.StateParticipant:
			return apperrors.ErrAlreadyParticipant
		case models.StateRejected:
			return apperrors.ErrRequestRejected
		}

		audit := &models.RequestStatus{
			EventID:   eventID,
			UserID:    userID,
			ManagerID: actingUserID,
			Status:    decision,
		}
		if decision == models.DecisionApproved {
			if err := checkCapacity(ctx, tx, event); err != nil {
				return err
			}
			audit.ApprovedAt = &now
		}

		if err := tx.Participations.SetState(ctx, eventID, userID, next, now); err != nil {
			return err
		}
		return tx.RequestStatus.Create(ctx, audit)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("eventID", eventID).
		Int64("userID", userID).
		Int64("managerID", actingUserID).
		Str("decision", string(decision)).
		Msg("Participation request decided")
	return status(eventID, userID, next), nil
}

func checkCapacity(ctx context.Context, tx Stores, event *models.Event) error {
	participants, err := tx.Participations.CountParticipants(ctx, event.ID)
	if err != nil {
		return err
	}
	if participants >= event.MaxParticipants {
		return apperrors.ErrCapacityExceeded
	}
	return nil
}

// ListRequests returns the pending, approved and rejected users of eventID. Only the
// event's manager may see them.
func (s *ParticipationService) ListRequests(ctx context.Context, eventID, actingUserID int64) (*dto.ParticipationRequestsResponse, error) {
	stores := s.uow.Stores()
	event, err := stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := appauth.ValidateEventManager(event, actingUserID); err != nil {
		return nil, err
	}

	rows, err := stores.Participations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewParticipationRequestsResponse(eventID, rows)
	return &resp, nil
}

// MyEvents lists the events userID takes part in or asked to join, newest first
func (s *ParticipationService) MyEvents(ctx context.Context, userID int64) (*dto.MyEventsResponse, error) {
	stores := s.uow.Stores()
	rows, err := stores.Participations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	states := make(map[int64]models.ParticipationState, len(rows))
	ids := make([]int64, 0, len(rows))
	for _, p := range rows {
		if p.State == models.StateParticipant || p.State == models.StateRequested {
			states[p.EventID] = p.State
			ids = append(ids, p.EventID)
		}
	}

	events, err := stores.Events.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := stores.Participations.CountParticipantsByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	resp := &dto.MyEventsResponse{
		Participated: []dto.EventResponse{},
		Requested:    []dto.EventResponse{},
	}
	for _, e := range events {
		item := dto.NewEventResponse(e, counts[e.ID], now)
		if states[e.ID] == models.StateParticipant {
			resp.Participated = append(resp.Participated, item)
		} else {
			resp.Requested = append(resp.Requested, item)
		}
	}
	return resp, nil
}

// Certificate returns the participation certificate of userID for eventID
func (s *ParticipationService) Certificate(ctx context.Context, eventID, userID int64) (*dto.CertificateResponse, error) {
	stores := s.uow.Stores()
	event, err := stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	state, err := stores.Participations.GetState(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	if state != models.StateParticipant {
		return nil, apperrors.ErrNotParticipant
	}

	user, err := stores.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrNotParticipant
		}
		return nil, err
	}

	resp := dto.NewCertificateResponse(event, user)
	return &resp, nil
}
