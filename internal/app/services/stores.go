package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/repositories"
	"github.com/yigit/volunteerhub/internal/db"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// VolunteerStore persists volunteer profiles
type VolunteerStore interface {
	Create(ctx context.Context, p *models.VolunteerProfile) error
	GetByUserID(ctx context.Context, userID int64) (*models.VolunteerProfile, error)
	UpdateLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error
	ResetInterests(ctx context.Context) (int64, error)
}

// ManagerStore persists manager profiles
type ManagerStore interface {
	Create(ctx context.Context, p *models.ManagerProfile) error
	GetByUserID(ctx context.Context, userID int64) (*models.ManagerProfile, error)
}

// EventStore persists events
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	Update(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	// GetForUpdate loads the event and holds its row lock until the transaction ends
	GetForUpdate(ctx context.Context, id int64) (*models.Event, error)
	ListFrom(ctx context.Context, day time.Time) ([]*models.Event, error)
	List(ctx context.Context, offset uint64, limit int) ([]*models.Event, int64, error)
	ListByManager(ctx context.Context, managerID int64) ([]*models.Event, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Event, error)
	CompleteElapsed(ctx context.Context, today time.Time) (int64, error)
}

// ParticipationStore persists the user/event relation
type ParticipationStore interface {
	GetState(ctx context.Context, eventID, userID int64) (models.ParticipationState, error)
	SetState(ctx context.Context, eventID, userID int64, state models.ParticipationState, at time.Time) error
	CountParticipants(ctx context.Context, eventID int64) (int, error)
	CountParticipantsByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Participation, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Participation, error)
}

// RequestStatusStore appends request decisions
type RequestStatusStore interface {
	Create(ctx context.Context, rs *models.RequestStatus) error
}

// FeedbackStore persists event feedback
type FeedbackStore interface {
	Create(ctx context.Context, f *models.Feedback) error
	Exists(ctx context.Context, eventID, volunteerID int64) (bool, error)
	ListByEvents(ctx context.Context, eventIDs []int64) ([]*models.Feedback, error)
}

// Stores groups the stores bound to one connection or transaction
type Stores struct {
	Users          UserStore
	Volunteers     VolunteerStore
	Managers       ManagerStore
	Events         EventStore
	Participations ParticipationStore
	RequestStatus  RequestStatusStore
	Feedback       FeedbackStore
}

// TxFn runs against stores bound to an open transaction
type TxFn func(ctx context.Context, tx Stores) error

// UnitOfWork hands out stores and runs transactions
type UnitOfWork interface {
	// Stores returns stores outside any transaction
	Stores() Stores
	// WithTransaction commits when fn returns nil and rolls back otherwise
	WithTransaction(ctx context.Context, fn TxFn) error
}

// PostgresUnitOfWork is the UnitOfWork backed by the connection pool
type PostgresUnitOfWork struct {
	db     *db.PostgresDB
	stores Stores
}

// NewPostgresUnitOfWork creates a unit of work over pg
func NewPostgresUnitOfWork(pg *db.PostgresDB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: pg, stores: storesFor(pg.Pool)}
}

// Stores implements UnitOfWork
func (u *PostgresUnitOfWork) Stores() Stores {
	return u.stores
}

// WithTransaction implements UnitOfWork
func (u *PostgresUnitOfWork) WithTransaction(ctx context.Context, fn TxFn) error {
	return u.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, storesFor(tx))
	})
}

func storesFor(dbtx db.DBTX) Stores {
	r := repositories.NewRepositories(dbtx)
	return Stores{
		Users:          r.Users,
		Volunteers:     r.Volunteers,
		Managers:       r.Managers,
		Events:         r.Events,
		Participations: r.Participations,
		RequestStatus:  r.RequestStatus,
		Feedback:       r.Feedback,
	}
}
