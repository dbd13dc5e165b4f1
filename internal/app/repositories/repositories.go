package repositories

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/yigit/volunteerhub/internal/db"
)

// Repositories holds all the repository instances bound to one connection or transaction
type Repositories struct {
	Users          *UserRepository
	Volunteers     *VolunteerRepository
	Managers       *ManagerRepository
	Events         *EventRepository
	Participations *ParticipationRepository
	RequestStatus  *RequestStatusRepository
	Feedback       *FeedbackRepository
}

// NewRepositories initializes all repositories over dbtx, which is either the pool or
// an open transaction
func NewRepositories(dbtx db.DBTX) *Repositories {
	return &Repositories{
		Users:          NewUserRepository(dbtx),
		Volunteers:     NewVolunteerRepository(dbtx),
		Managers:       NewManagerRepository(dbtx),
		Events:         NewEventRepository(dbtx),
		Participations: NewParticipationRepository(dbtx),
		RequestStatus:  NewRequestStatusRepository(dbtx),
		Feedback:       NewFeedbackRepository(dbtx),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func toPgTime(d time.Duration) pgtype.Time {
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) time.Duration {
	if !t.Valid {
		return 0
	}
	return time.Duration(t.Microseconds) * time.Microsecond
}
