package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/volunteerhub/internal/app/models"
	"github.com/yigit/volunteerhub/internal/pkg/apperrors"
)

type userMap map[int64]*models.User

func (m userMap) GetByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func TestAuthorizationService_Roles(t *testing.T) {
	svc := NewAuthorizationService(userMap{
		1: {ID: 1, RoleType: models.RoleManager, IsActive: true},
		2: {ID: 2, RoleType: models.RoleVolunteer, IsActive: true},
		3: {ID: 3, RoleType: models.RoleManager, IsActive: false},
	})
	ctx := context.Background()

	assert.NoError(t, svc.ValidateManager(ctx, 1))
	assert.ErrorIs(t, svc.ValidateManager(ctx, 2), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.ValidateManager(ctx, 3), apperrors.ErrPermissionDenied)
	assert.ErrorIs(t, svc.ValidateManager(ctx, 9), apperrors.ErrUserNotFound)

	assert.NoError(t, svc.ValidateVolunteer(ctx, 2))
	assert.True(t, errors.Is(svc.ValidateVolunteer(ctx, 1), apperrors.ErrPermissionDenied))
}

func TestValidateEventManager(t *testing.T) {
	event := &models.Event{ID: 5, ManagerID: 1}

	assert.True(t, CanManageEvent(event, 1))
	assert.False(t, CanManageEvent(event, 2))
	assert.False(t, CanManageEvent(nil, 1))

	assert.NoError(t, ValidateEventManager(event, 1))
	err := ValidateEventManager(event, 2)
	assert.ErrorIs(t, err, apperrors.ErrNotEventManager)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
