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

// VolunteerRepository handles the volunteer_profiles table
type VolunteerRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewVolunteerRepository creates a new VolunteerRepository
func NewVolunteerRepository(dbtx db.DBTX) *VolunteerRepository {
	return &VolunteerRepository{db: dbtx, sb: statementBuilder()}
}

// Create inserts a volunteer profile
func (r *VolunteerRepository) Create(ctx context.Context, p *models.VolunteerProfile) error {
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	query, args, err := r.sb.Insert("volunteer_profiles").
		Columns("user_id", "age", "profession", "gender", "interests", "pincode", "address",
			"latitude", "longitude", "last_location_update").
		Values(p.UserID, p.Age, p.Profession, p.Gender, interests, p.Pincode, p.Address,
			p.Latitude, p.Longitude, p.LastLocationUpdate).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create volunteer query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating volunteer profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the volunteer profile of userID
func (r *VolunteerRepository) GetByUserID(ctx context.Context, userID int64) (*models.VolunteerProfile, error) {
	query, args, err := r.sb.Select("user_id", "age", "profession", "gender", "interests", "pincode",
		"address", "latitude::float8", "longitude::float8", "last_location_update").
		From("volunteer_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get volunteer query: %w", err)
	}

	p := &models.VolunteerProfile{}
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.Age, &p.Profession, &p.Gender,
		&p.Interests, &p.Pincode, &p.Address, &p.Latitude, &p.Longitude, &p.LastLocationUpdate)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving volunteer profile: %w", err)
	}
	return p, nil
}

// UpdateLocation stores a new position for the volunteer
func (r *VolunteerRepository) UpdateLocation(ctx context.Context, userID int64, lat, lon float64, at time.Time) error {
	query, args, err := r.sb.Update("volunteer_profiles").
		Set("latitude", lat).
		Set("longitude", lon).
		Set("last_location_update", at).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update location query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating volunteer location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

// ResetInterests clears the interests of every volunteer and returns how many profiles changed
func (r *VolunteerRepository) ResetInterests(ctx context.Context) (int64, error) {
	query, args, err := r.sb.Update("volunteer_profiles").
		Set("interests", []string{}).
		Where("cardinality(interests) > 0").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reset interests query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("error resetting interests: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ManagerRepository handles the manager_profiles table
type ManagerRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewManagerRepository creates a new ManagerRepository
func NewManagerRepository(dbtx db.DBTX) *ManagerRepository {
	return &ManagerRepository{db: dbtx, sb: statementBuilder()}
}

// Create inserts a manager profile
func (r *ManagerRepository) Create(ctx context.Context, p *models.ManagerProfile) error {
	query, args, err := r.sb.Insert("manager_profiles").
		Columns("user_id", "organization_name", "phone_number", "age").
		Values(p.UserID, p.OrganizationName, p.PhoneNumber, p.Age).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create manager query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("error creating manager profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the manager profile of userID
func (r *ManagerRepository) GetByUserID(ctx context.Context, userID int64) (*models.ManagerProfile, error) {
	query, args, err := r.sb.Select("user_id", "organization_name", "phone_number", "age").
		From("manager_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get manager query: %w", err)
	}

	p := &models.ManagerProfile{}
	err = r.db.QueryRow(ctx, query, args...).Scan(&p.UserID, &p.OrganizationName, &p.PhoneNumber, &p.Age)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving manager profile: %w", err)
	}
	return p, nil
}
