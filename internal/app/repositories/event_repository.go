package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/db"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/dberrors"
)

var eventColumns = []string{
	"id", "manager_id", "name", "type", "address", "pincode", "image_path", "image_url",
	"date", "time", "duration_hours", "max_participants", "latitude::float8", "longitude::float8",
	"is_completed", "completion_date", "is_featured", "created_at", "updated_at",
}

// EventRepository handles database operations for events
type EventRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(dbtx db.DBTX) *EventRepository {
	return &EventRepository{db: dbtx, sb: statementBuilder()}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		e     models.Event
		start pgtype.Time
	)
	err := row.Scan(&e.ID, &e.ManagerID, &e.Name, &e.Type, &e.Address, &e.Pincode, &e.ImagePath,
		&e.ImageURL, &e.Date, &start, &e.DurationHours, &e.MaxParticipants, &e.Latitude, &e.Longitude,
		&e.IsCompleted, &e.CompletionDate, &e.IsFeatured, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.StartTime = fromPgTime(start)
	return &e, nil
}

// Create inserts event and fills its ID and timestamps
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	query, args, err := r.sb.Insert("events").
		Columns("manager_id", "name", "type", "address", "pincode", "image_path", "image_url", "date",
			"time", "duration_hours", "max_participants", "latitude", "longitude", "is_featured").
		Values(e.ManagerID, e.Name, e.Type, e.Address, e.Pincode, e.ImagePath, e.ImageURL, e.Date,
			toPgTime(e.StartTime), e.DurationHours, e.MaxParticipants, e.Latitude, e.Longitude, e.IsFeatured).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return fmt.Errorf("error creating event: %w", err)
	}
	return nil
}

// Update saves the editable fields of e
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	query, args, err := r.sb.Update("events").
		Set("name", e.Name).
		Set("type", e.Type).
		Set("address", e.Address).
		Set("pincode", e.Pincode).
		Set("image_path", e.ImagePath).
		Set("image_url", e.ImageURL).
		Set("date", e.Date).
		Set("time", toPgTime(e.StartTime)).
		Set("duration_hours", e.DurationHours).
		Set("max_participants", e.MaxParticipants).
		Set("latitude", e.Latitude).
		Set("longitude", e.Longitude).
		Set("is_featured", e.IsFeatured).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update event query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&e.UpdatedAt); err != nil {
		if dberrors.IsNoRows(err) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("error updating event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return r.getOne(ctx, r.sb.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate retrieves an event and locks its row until the surrounding transaction ends.
// Every participation transition takes this lock first.
func (r *EventRepository) GetForUpdate(ctx context.Context, id int64) (*models.Event, error) {
	return r.getOne(ctx, r.sb.Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *EventRepository) getOne(ctx context.Context, q squirrel.SelectBuilder) (*models.Event, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	e, err := scanEvent(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

func (r *EventRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Event, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

// ListFrom returns every event dated on or after day, soonest first
func (r *EventRepository) ListFrom(ctx context.Context, day time.Time) ([]*models.Event, error) {
	return r.list(ctx, r.sb.Select(eventColumns...).From("events").
		Where(squirrel.GtOrEq{"date": day}).
		OrderBy("date ASC", "time ASC", "id ASC"))
}

// List returns one page of all events, latest first, and the total count
func (r *EventRepository) List(ctx context.Context, offset uint64, limit int) ([]*models.Event, int64, error) {
	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("events").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count events query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	events, err := r.list(ctx, r.sb.Select(eventColumns...).From("events").
		OrderBy("date DESC", "time DESC", "id DESC").
		Offset(offset).
		Limit(uint64(limit)))
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByManager returns the events created by managerID, latest first
func (r *EventRepository) ListByManager(ctx context.Context, managerID int64) ([]*models.Event, error) {
	return r.list(ctx, r.sb.Select(eventColumns...).From("events").
		Where(squirrel.Eq{"manager_id": managerID}).
		OrderBy("date DESC", "time DESC", "id DESC"))
}

// GetByIDs returns the events with the given ids, latest first. Unknown ids are skipped.
func (r *EventRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, r.sb.Select(eventColumns...).From("events").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("date DESC", "time DESC", "id DESC"))
}

// CompleteElapsed flags every event dated before today that has at least one participant
// and is not yet completed. The completion date is the event date.
func (r *EventRepository) CompleteElapsed(ctx context.Context, today time.Time) (int64, error) {
	query, args, err := r.sb.Update("events").
		Set("is_completed", true).
		Set("completion_date", squirrel.Expr("date")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Lt{"date": today}).
		Where(squirrel.Eq{"is_completed": false}).
		Where(squirrel.Expr("EXISTS (SELECT 1 FROM event_participations p WHERE p.event_id = events.id AND p.state = ?)",
			models.StateParticipant)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build complete events query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error completing events: %w", err)
	}
	return tag.RowsAffected(), nil
}
