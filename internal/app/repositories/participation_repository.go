package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/db"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/dberrors"
)

// ParticipationRepository handles the event_participations relation
type ParticipationRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewParticipationRepository creates a new ParticipationRepository
func NewParticipationRepository(dbtx db.DBTX) *ParticipationRepository {
	return &ParticipationRepository{db: dbtx, sb: statementBuilder()}
}

// GetState returns the state of userID for eventID, StateNone when there is no row
func (r *ParticipationRepository) GetState(ctx context.Context, eventID, userID int64) (models.ParticipationState, error) {
	query, args, err := r.sb.Select("state").
		From("event_participations").
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build get state query: %w", err)
	}

	var state models.ParticipationState
	if err := r.db.QueryRow(ctx, query, args...).Scan(&state); err != nil {
		if dberrors.IsNoRows(err) {
			return models.StateNone, nil
		}
		return "", fmt.Errorf("error retrieving participation state: %w", err)
	}
	return state, nil
}

// SetState writes the state of userID for eventID, inserting the row when needed
func (r *ParticipationRepository) SetState(ctx context.Context, eventID, userID int64, state models.ParticipationState, at time.Time) error {
	query, args, err := r.sb.Insert("event_participations").
		Columns("event_id", "user_id", "state", "requested_at", "updated_at").
		Values(eventID, userID, state, at, at).
		Suffix("ON CONFLICT (event_id, user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set state query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("event or user not found")
		}
		return fmt.Errorf("error saving participation state: %w", err)
	}
	return nil
}

// CountParticipants returns the number of approved participants of eventID
func (r *ParticipationRepository) CountParticipants(ctx context.Context, eventID int64) (int, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("event_participations").
		Where(squirrel.Eq{"event_id": eventID, "state": models.StateParticipant}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count participants query: %w", err)
	}

	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting participants: %w", err)
	}
	return n, nil
}

// CountParticipantsByEvents returns participant counts keyed by event id. Events without
// participants are absent from the map.
func (r *ParticipationRepository) CountParticipantsByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	query, args, err := r.sb.Select("event_id", "COUNT(*)").
		From("event_participations").
		Where(squirrel.Eq{"event_id": eventIDs, "state": models.StateParticipant}).
		GroupBy("event_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count participants query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("error scanning participant count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// ListByEvent returns every participation row of eventID with its user, oldest request first
func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*models.Participation, error) {
	query, args, err := r.sb.Select("p.event_id", "p.user_id", "p.state", "p.requested_at", "p.updated_at",
		"u.email", "u.first_name", "u.last_name", "u.role_type").
		From("event_participations p").
		Join("users u ON u.id = p.user_id").
		Where(squirrel.Eq{"p.event_id": eventID}).
		OrderBy("p.requested_at ASC", "p.user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list participations query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing participations: %w", err)
	}
	defer rows.Close()

	var out []*models.Participation
	for rows.Next() {
		p := &models.Participation{User: &models.User{}}
		if err := rows.Scan(&p.EventID, &p.UserID, &p.State, &p.RequestedAt, &p.UpdatedAt,
			&p.User.Email, &p.User.FirstName, &p.User.LastName, &p.User.RoleType); err != nil {
			return nil, fmt.Errorf("error scanning participation: %w", err)
		}
		p.User.ID = p.UserID
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByUser returns every participation row of userID, most recent first
func (r *ParticipationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Participation, error) {
	query, args, err := r.sb.Select("event_id", "user_id", "state", "requested_at", "updated_at").
		From("event_participations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list participations query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing participations: %w", err)
	}
	defer rows.Close()

	var out []*models.Participation
	for rows.Next() {
		p := &models.Participation{}
		if err := rows.Scan(&p.EventID, &p.UserID, &p.State, &p.RequestedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning participation: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RequestStatusRepository writes the request_statuses audit trail
type RequestStatusRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewRequestStatusRepository creates a new RequestStatusRepository
func NewRequestStatusRepository(dbtx db.DBTX) *RequestStatusRepository {
	return &RequestStatusRepository{db: dbtx, sb: statementBuilder()}
}

// Create records a manager's decision on a request
func (r *RequestStatusRepository) Create(ctx context.Context, rs *models.RequestStatus) error {
	query, args, err := r.sb.Insert("request_statuses").
		Columns("event_id", "user_id", "manager_id", "status", "approved_at").
		Values(rs.EventID, rs.UserID, rs.ManagerID, rs.Status, rs.ApprovedAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create request status query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&rs.ID, &rs.CreatedAt, &rs.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintRequestStatusUnique) {
			return apperrors.NewConflictError("request was already decided")
		}
		return fmt.Errorf("error creating request status: %w", err)
	}
	return nil
}
