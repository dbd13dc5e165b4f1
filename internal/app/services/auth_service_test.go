package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/app/models/dto"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
	"github.com/yigit/volunteerhub/internal/pkg/auth"
)

func newAuthService(db *memDB) (*AuthService, *auth.JWTService) {
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "volunteerhub-test"})
	return NewAuthService(db, jwt, fixedClock(), nop()), jwt
}

func volunteerSignup() *dto.RegisterVolunteerRequest {
	return &dto.RegisterVolunteerRequest{
		Email:     " Asha@Example.org ",
		Password:  "secret123",
		FirstName: "Asha",
		LastName:  "Rao",
		Age:       24,
		Interests: []string{"Health", " youth", "health"},
		Latitude:  f64(12.97160049),
		Longitude: f64(77.5946),
	}
}

func TestRegisterVolunteer(t *testing.T) {
	db := newMemDB()
	svc, jwt := newAuthService(db)

	resp, err := svc.RegisterVolunteer(context.Background(), volunteerSignup())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.org", resp.User.Email)
	assert.Equal(t, models.RoleVolunteer, resp.User.RoleType)
	require.NotNil(t, resp.User.Volunteer)
	assert.Equal(t, []string{"health", "youth"}, resp.User.Volunteer.Interests)
	assert.Equal(t, 12.9716, *resp.User.Volunteer.Latitude)
	assert.Nil(t, resp.User.Manager)

	assert.Equal(t, "Bearer", resp.Token.TokenType)
	claims, err := jwt.ValidateToken(resp.Token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, string(models.RoleVolunteer), claims.RoleType)

	_, err = svc.RegisterVolunteer(context.Background(), volunteerSignup())
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}

func TestRegisterVolunteer_Invalid(t *testing.T) {
	db := newMemDB()
	svc, _ := newAuthService(db)

	tests := []struct {
		name   string
		mutate func(r *dto.RegisterVolunteerRequest)
	}{
		{"weak password", func(r *dto.RegisterVolunteerRequest) { r.Password = "abcdefgh" }},
		{"short password", func(r *dto.RegisterVolunteerRequest) { r.Password = "abc12" }},
		{"missing first name", func(r *dto.RegisterVolunteerRequest) { r.FirstName = "  " }},
		{"age", func(r *dto.RegisterVolunteerRequest) { r.Age = 0 }},
		{"half location", func(r *dto.RegisterVolunteerRequest) { r.Longitude = nil }},
		{"latitude range", func(r *dto.RegisterVolunteerRequest) { r.Latitude = f64(95) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := volunteerSignup()
			tt.mutate(req)
			_, err := svc.RegisterVolunteer(context.Background(), req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	_, err := db.Stores().Users.GetByEmail(context.Background(), "asha@example.org")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestRegisterManager(t *testing.T) {
	db := newMemDB()
	svc, _ := newAuthService(db)
	req := &dto.RegisterManagerRequest{
		Email:            "meera@greenearth.org",
		Password:         "secret123",
		FirstName:        "Meera",
		LastName:         "Iyer",
		OrganizationName: "Green Earth",
		PhoneNumber:      "+919876543210",
		Age:              35,
	}

	resp, err := svc.RegisterManager(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.User.RoleType)
	require.NotNil(t, resp.User.Manager)
	assert.Equal(t, "Green Earth", resp.User.Manager.OrganizationName)

	minor := *req
	minor.Email, minor.Age = "young@greenearth.org", 17
	_, err = svc.RegisterManager(context.Background(), &minor)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	badPhone := *req
	badPhone.Email, badPhone.PhoneNumber = "phone@greenearth.org", "98765"
	_, err = svc.RegisterManager(context.Background(), &badPhone)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLogin(t *testing.T) {
	db := newMemDB()
	svc, _ := newAuthService(db)
	registered, err := svc.RegisterVolunteer(context.Background(), volunteerSignup())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ASHA@example.org", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	require.NotNil(t, resp.User.Volunteer)

	user, err := db.Stores().Users.GetByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, testNow, *user.LastLoginAt)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.org", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.org", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	db.mu.Lock()
	u := db.data.users[registered.User.ID]
	u.IsActive = false
	db.data.users[u.ID] = u
	db.mu.Unlock()

	_, err = svc.Login(context.Background(), &dto.LoginRequest{Email: "asha@example.org", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestGetProfile(t *testing.T) {
	db := newMemDB()
	svc, _ := newAuthService(db)
	m := db.addManager("Meera")

	profile, err := svc.GetProfile(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "Meera", profile.FirstName)
	require.NotNil(t, profile.Manager)
	assert.Nil(t, profile.Volunteer)

	_, err = svc.GetProfile(context.Background(), 999)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
