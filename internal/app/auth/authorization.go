package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/logger"
)

// Common errors specific to authorization that aren't in the central apperrors
var (
	ErrNotManager   = apperrors.NewForbiddenError("only event managers can perform this action")
	ErrNotVolunteer = apperrors.NewForbiddenError("only volunteers can perform this action")
)

// UserLookup loads users by id
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthorizationService answers role and ownership questions
type AuthorizationService struct {
	users UserLookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(users UserLookup) *AuthorizationService {
	return &AuthorizationService{users: users}
}

// HasRole checks whether userID exists, is active and has role
func (s *AuthorizationService) HasRole(ctx context.Context, userID int64, role models.RoleType) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return false, err
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting user by ID in HasRole")
		return false, fmt.Errorf("failed to load user: %w", err)
	}
	return user.IsActive && user.RoleType == role, nil
}

// ValidateManager returns ErrNotManager unless userID is an active manager
func (s *AuthorizationService) ValidateManager(ctx context.Context, userID int64) error {
	ok, err := s.HasRole(ctx, userID, models.RoleManager)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotManager
	}
	return nil
}

// ValidateVolunteer returns ErrNotVolunteer unless userID is an active volunteer
func (s *AuthorizationService) ValidateVolunteer(ctx context.Context, userID int64) error {
	ok, err := s.HasRole(ctx, userID, models.RoleVolunteer)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotVolunteer
	}
	return nil
}

// CanManageEvent reports whether userID is the manager who owns event
func CanManageEvent(event *models.Event, userID int64) bool {
	return event != nil && userID > 0 && event.ManagerID == userID
}

// ValidateEventManager returns apperrors.ErrNotEventManager unless userID owns event
func ValidateEventManager(event *models.Event, userID int64) error {
	if !CanManageEvent(event, userID) {
		return apperrors.ErrNotEventManager
	}
	return nil
}
