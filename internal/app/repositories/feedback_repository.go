package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/db"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/dberrors"
)

// FeedbackRepository handles the event_feedbacks table
type FeedbackRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(dbtx db.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: dbtx, sb: statementBuilder()}
}

// Create inserts f. A second feedback for the same event and volunteer fails with
// apperrors.ErrFeedbackExists.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	query, args, err := r.sb.Insert("event_feedbacks").
		Columns("event_id", "volunteer_id", "rating", "comment").
		Values(f.EventID, f.VolunteerID, f.Rating, f.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintFeedbackUnique) {
			return apperrors.ErrFeedbackExists
		}
		return fmt.Errorf("error creating feedback: %w", err)
	}
	return nil
}

// Exists reports whether volunteerID already rated eventID
func (r *FeedbackRepository) Exists(ctx context.Context, eventID, volunteerID int64) (bool, error) {
	sub := r.sb.Select("1").From("event_feedbacks").
		Where(squirrel.Eq{"event_id": eventID, "volunteer_id": volunteerID})
	query, args, err := r.sb.Select().Column(squirrel.Expr("EXISTS(?)", sub)).ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build feedback exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking feedback: %w", err)
	}
	return exists, nil
}

// ListByEvents returns the feedback of the given events with the volunteer, newest first
func (r *FeedbackRepository) ListByEvents(ctx context.Context, eventIDs []int64) ([]*models.Feedback, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}

	query, args, err := r.sb.Select("f.id", "f.event_id", "f.volunteer_id", "f.rating", "f.comment", "f.created_at",
		"u.email", "u.first_name", "u.last_name").
		From("event_feedbacks f").
		Join("users u ON u.id = f.volunteer_id").
		Where(squirrel.Eq{"f.event_id": eventIDs}).
		OrderBy("f.created_at DESC", "f.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		f := &models.Feedback{Volunteer: &models.User{}}
		if err := rows.Scan(&f.ID, &f.EventID, &f.VolunteerID, &f.Rating, &f.Comment, &f.CreatedAt,
			&f.Volunteer.Email, &f.Volunteer.FirstName, &f.Volunteer.LastName); err != nil {
			return nil, fmt.Errorf("error scanning feedback: %w", err)
		}
		f.Volunteer.ID = f.VolunteerID
		out = append(out, f)
	}
	return out, rows.Err()
}
