package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/auth"
	"github.com/yigit/volunteerhub/internal/pkg/clock"
	"github.com/yigit/volunteerhub/internal/pkg/geo"
	"github.com/yigit/volunteerhub/internal/pkg/validation"
)

// AuthService handles signup, login and profiles
type AuthService struct {
	uow          UnitOfWork
	jwtService   *auth.JWTService
	hashPassword func(string) (string, error)
	now          clock.Clock
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(uow UnitOfWork, jwtService *auth.JWTService, now clock.Clock, logger zerolog.Logger) *AuthService {
	return &AuthService{
		uow:          uow,
		jwtService:   jwtService,
		hashPassword: auth.HashPassword,
		now:          now,
		logger:       logger.With().Str("service", "auth").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newUser validates the shared account fields and hashes the password
func (s *AuthService) newUser(email, password, firstName, lastName string, role models.RoleType) (*models.User, error) {
	if !validation.IsStrongPassword(password) {
		return nil, apperrors.NewValidationError("password", "password must be at least 8 characters and contain a letter and a digit")
	}
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if !validation.NewStringValidation(firstName).WithMaxLength(validation.NameMaxLength).Validate() {
		return nil, apperrors.NewValidationError("firstName", "first name is required")
	}
	if !validation.NewStringValidation(lastName).WithMaxLength(validation.NameMaxLength).Validate() {
		return nil, apperrors.NewValidationError("lastName", "last name is required")
	}

	hashed, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &models.User{
		Email:     normalizeEmail(email),
		Password:  hashed,
		FirstName: firstName,
		LastName:  lastName,
		RoleType:  role,
		IsActive:  true,
	}, nil
}

// RegisterVolunteer creates a volunteer account with its profile and signs the user in
func (s *AuthService) RegisterVolunteer(ctx context.Context, req *dto.RegisterVolunteerRequest) (*dto.AuthResponse, error) {
	profile := &models.VolunteerProfile{
		Age:        req.Age,
		Profession: req.Profession,
		Gender:     req.Gender,
		Interests:  req.Interests,
		Pincode:    req.Pincode,
		Address:    req.Address,
	}
	profile.Normalize()
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, apperrors.NewValidationError("location", "latitude and longitude must be given together")
	}
	if p := geo.NewPoint(req.Latitude, req.Longitude); p != nil {
		profile.SetLocation(*p, s.now())
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.Email, req.Password, req.FirstName, req.LastName, models.RoleVolunteer)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, tx Stores) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Volunteers.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Volunteer registered")
	return s.authResponse(user, profile, nil)
}

// RegisterManager creates a manager account with its profile and signs the user in
func (s *AuthService) RegisterManager(ctx context.Context, req *dto.RegisterManagerRequest) (*dto.AuthResponse, error) {
	profile := &models.ManagerProfile{
		OrganizationName: strings.TrimSpace(req.OrganizationName),
		PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
		Age:              req.Age,
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	user, err := s.newUser(req.Email, req.Password, req.FirstName, req.LastName, models.RoleManager)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithTransaction(ctx, func(ctx context.Context, tx Stores) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Managers.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Manager registered")
	return s.authResponse(user, nil, profile)
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	stores := s.uow.Stores()

	user, err := stores.Users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := stores.Users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to record last login")
	}

	volunteer, manager, err := s.loadProfile(ctx, stores, user)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user, volunteer, manager)
}

// GetProfile returns the user with the profile matching their role
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	stores := s.uow.Stores()
	user, err := stores.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	volunteer, manager, err := s.loadProfile(ctx, stores, user)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user, volunteer, manager)
	return &resp, nil
}

func (s *AuthService) loadProfile(ctx context.Context, stores Stores, user *models.User) (*models.VolunteerProfile, *models.ManagerProfile, error) {
	switch user.RoleType {
	case models.RoleVolunteer:
		p, err := stores.Volunteers.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, nil, err
		}
		return p, nil, nil
	case models.RoleManager:
		p, err := stores.Managers.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, nil, err
		}
		return nil, p, nil
	}
	return nil, nil, nil
}

func (s *AuthService) authResponse(user *models.User, volunteer *models.VolunteerProfile, manager *models.ManagerProfile) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user, volunteer, manager),
	}, nil
}
