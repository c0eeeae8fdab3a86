package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newQuietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestIdentityService - вспомогательная функция для создания инстанса сервиса с моками.
func newTestIdentityService(t *testing.T) (*identityService, *mocks.MockUserRepository, *mocks.MockSessionRepository) {
	ctrl := gomock.NewController(t)
	usersMock := mocks.NewMockUserRepository(ctrl)
	sessionsMock := mocks.NewMockSessionRepository(ctrl)

	cfg := &config.Config{
		SessionTTL: time.Hour,
		BcryptCost: bcrypt.MinCost,
	}

	service := NewIdentityService(usersMock, sessionsMock, newQuietLogger(), cfg).(*identityService)
	service.newToken = func() (string, error) { return "test-token", nil }
	return service, usersMock, sessionsMock
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestIdentityService(t)
	ctx := context.Background()
	profile := &models.User{
		Name:     " Kamal Perera ",
		Email:    "  Kamal@Example.COM ",
		Location: &models.GeoPoint{Latitude: 6.9, Longitude: 79.8},
	}

	// Ожидания
	var stored *models.User
	usersMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			stored = u
			return nil
		}).
		Times(1)

	// Действие
	user, err := service.Register(ctx, profile, "secret123")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "kamal@example.com", user.Email)
	assert.Equal(t, "Kamal Perera", user.Name)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, uuid.Nil, user.ID)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestRegister_FirstResponderAllowed(t *testing.T) {
	service, usersMock, _ := newTestIdentityService(t)
	ctx := context.Background()

	usersMock.EXPECT().Create(ctx, gomock.Any()).Return(nil).Times(1)

	user, err := service.Register(ctx, &models.User{Name: "Ruwan", Email: "r@example.com", Role: models.RoleFirstResponder}, "secret123")

	require.NoError(t, err)
	assert.Equal(t, models.RoleFirstResponder, user.Role)
}

func TestRegister_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.User
		password string
		wantErr  error
	}{
		{"admin role", &models.User{Name: "A", Email: "a@example.com", Role: models.RoleAdmin}, "secret123", models.ErrInvalidRole},
		{"unknown role", &models.User{Name: "A", Email: "a@example.com", Role: "captain"}, "secret123", models.ErrInvalidRole},
		{"missing name", &models.User{Email: "a@example.com"}, "secret123", models.ErrValidation},
		{"missing email", &models.User{Name: "A", Email: "  "}, "secret123", models.ErrValidation},
		{"short password", &models.User{Name: "A", Email: "a@example.com"}, "12345", models.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, _ := newTestIdentityService(t)

			user, err := service.Register(context.Background(), tt.profile, tt.password)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, user)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service, usersMock, _ := newTestIdentityService(t)
	ctx := context.Background()

	usersMock.EXPECT().
		Create(ctx, gomock.Any()).
		Return(models.NewError(models.KindDuplicateEmail, "email a@example.com is already registered")).
		Times(1)

	_, err := service.Register(ctx, &models.User{Name: "A", Email: "a@example.com"}, "secret123")

	assert.ErrorIs(t, err, models.ErrDuplicateEmail)
}

func TestAuthenticate_Success(t *testing.T) {
	service, usersMock, sessionsMock := newTestIdentityService(t)
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: hashPassword(t, "secret123"), Role: models.RoleUser, IsActive: true}

	usersMock.EXPECT().GetByEmail(ctx, "a@example.com").Return(user, nil).Times(1)
	sessionsMock.EXPECT().Create(ctx, "test-token", user.ID, time.Hour).Return(nil).Times(1)

	session, err := service.Authenticate(ctx, " A@example.com", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "test-token", session.Token)
	assert.Equal(t, user, session.User)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestAuthenticate_Failures(t *testing.T) {
	ctx := context.Background()
	hash := hashPassword(t, "secret123")

	t.Run("unknown email", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByEmail(ctx, "nobody@example.com").Return(nil, models.ErrNotFound).Times(1)

		_, err := service.Authenticate(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByEmail(ctx, "a@example.com").
			Return(&models.User{ID: uuid.New(), PasswordHash: hash, IsActive: true}, nil).Times(1)

		_, err := service.Authenticate(ctx, "a@example.com", "wrong-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByEmail(ctx, "a@example.com").
			Return(&models.User{ID: uuid.New(), PasswordHash: hash, IsActive: false}, nil).Times(1)

		_, err := service.Authenticate(ctx, "a@example.com", "secret123")
		assert.ErrorIs(t, err, models.ErrAccountDisabled)
	})

	t.Run("repository failure", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		dbErr := errors.New("connection refused")
		usersMock.EXPECT().GetByEmail(ctx, "a@example.com").Return(nil, dbErr).Times(1)

		_, err := service.Authenticate(ctx, "a@example.com", "secret123")
		assert.ErrorIs(t, err, dbErr)
		_, isDomain := models.AsError(err)
		assert.False(t, isDomain)
	})
}

func TestGetByToken(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("valid", func(t *testing.T) {
		service, usersMock, sessionsMock := newTestIdentityService(t)
		user := &models.User{ID: userID, IsActive: true}
		sessionsMock.EXPECT().Get(ctx, "tok").Return(userID, nil).Times(1)
		usersMock.EXPECT().GetByID(ctx, userID).Return(user, nil).Times(1)

		got, err := service.GetByToken(ctx, "tok")
		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("empty token", func(t *testing.T) {
		service, _, _ := newTestIdentityService(t)
		_, err := service.GetByToken(ctx, "")
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("unknown token", func(t *testing.T) {
		service, _, sessionsMock := newTestIdentityService(t)
		sessionsMock.EXPECT().Get(ctx, "tok").Return(uuid.Nil, models.ErrInvalidToken).Times(1)

		_, err := service.GetByToken(ctx, "tok")
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		service, usersMock, sessionsMock := newTestIdentityService(t)
		sessionsMock.EXPECT().Get(ctx, "tok").Return(userID, nil).Times(1)
		usersMock.EXPECT().GetByID(ctx, userID).Return(nil, models.ErrNotFound).Times(1)

		_, err := service.GetByToken(ctx, "tok")
		assert.ErrorIs(t, err, models.ErrInvalidToken)
	})

	t.Run("deactivated user", func(t *testing.T) {
		service, usersMock, sessionsMock := newTestIdentityService(t)
		sessionsMock.EXPECT().Get(ctx, "tok").Return(userID, nil).Times(1)
		usersMock.EXPECT().GetByID(ctx, userID).Return(&models.User{ID: userID, IsActive: false}, nil).Times(1)

		_, err := service.GetByToken(ctx, "tok")
		assert.ErrorIs(t, err, models.ErrAccountDisabled)
	})
}

func TestLogout(t *testing.T) {
	service, _, sessionsMock := newTestIdentityService(t)
	ctx := context.Background()

	sessionsMock.EXPECT().Delete(ctx, "tok").Return(nil).Times(1)

	assert.NoError(t, service.Logout(ctx, "tok"))
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}

	t.Run("admin with defaults", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		users := []*models.User{{ID: uuid.New()}}
		usersMock.EXPECT().
			List(ctx, models.UserFilter{Page: 1, Limit: 10}).
			Return(users, 1, nil).
			Times(1)

		got, total, err := service.ListUsers(ctx, admin, models.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, users, got)
		assert.Equal(t, 1, total)
	})

	t.Run("limit capped", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().
			List(ctx, models.UserFilter{Page: 2, Limit: 100}).
			Return(nil, 0, nil).
			Times(1)

		_, _, err := service.ListUsers(ctx, admin, models.UserFilter{Page: 2, Limit: 500})
		require.NoError(t, err)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		service, _, _ := newTestIdentityService(t)
		for _, caller := range []*models.User{nil, {Role: models.RoleUser}, {Role: models.RoleFirstResponder}} {
			_, _, err := service.ListUsers(ctx, caller, models.UserFilter{})
			assert.ErrorIs(t, err, models.ErrForbidden)
		}
	})
}

func TestUpdateUser_DeactivateRevokesSessions(t *testing.T) {
	service, usersMock, sessionsMock := newTestIdentityService(t)
	ctx := context.Background()
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	targetID := uuid.New()
	inactive := false

	usersMock.EXPECT().GetByID(ctx, targetID).
		Return(&models.User{ID: targetID, Role: models.RoleUser, IsActive: true}, nil).Times(1)
	usersMock.EXPECT().Update(ctx, gomock.Any()).Return(nil).Times(1)
	sessionsMock.EXPECT().DeleteByUser(ctx, targetID).Return(errors.New("redis down")).Times(1)

	user, err := service.UpdateUser(ctx, admin, targetID, models.UserPatch{IsActive: &inactive})

	// ошибка отзыва сессий не отменяет изменение
	require.NoError(t, err)
	assert.False(t, user.IsActive)
}

func TestUpdateUser_ChangeRole(t *testing.T) {
	service, usersMock, _ := newTestIdentityService(t)
	ctx := context.Background()
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	targetID := uuid.New()
	role := models.RoleFirstResponder

	usersMock.EXPECT().GetByID(ctx, targetID).
		Return(&models.User{ID: targetID, Role: models.RoleUser, IsActive: true}, nil).Times(1)
	usersMock.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			assert.Equal(t, models.RoleFirstResponder, u.Role)
			return nil
		}).
		Times(1)

	user, err := service.UpdateUser(ctx, admin, targetID, models.UserPatch{Role: &role})

	require.NoError(t, err)
	assert.Equal(t, models.RoleFirstResponder, user.Role)
}

func TestUpdateUser_Errors(t *testing.T) {
	ctx := context.Background()
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	targetID := uuid.New()

	t.Run("forbidden", func(t *testing.T) {
		service, _, _ := newTestIdentityService(t)
		_, err := service.UpdateUser(ctx, &models.User{Role: models.RoleFirstResponder}, targetID, models.UserPatch{})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("invalid role", func(t *testing.T) {
		service, _, _ := newTestIdentityService(t)
		role := models.Role("superuser")
		_, err := service.UpdateUser(ctx, admin, targetID, models.UserPatch{Role: &role})
		assert.ErrorIs(t, err, models.ErrInvalidRole)
	})

	t.Run("not found", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByID(ctx, targetID).Return(nil, models.ErrNotFound).Times(1)
		_, err := service.UpdateUser(ctx, admin, targetID, models.UserPatch{})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	admin := &models.User{ID: uuid.New(), Role: models.RoleAdmin, IsActive: true}
	targetID := uuid.New()

	t.Run("success", func(t *testing.T) {
		service, usersMock, sessionsMock := newTestIdentityService(t)
		usersMock.EXPECT().Delete(ctx, targetID).Return(nil).Times(1)
		sessionsMock.EXPECT().DeleteByUser(ctx, targetID).Return(nil).Times(1)

		assert.NoError(t, service.DeleteUser(ctx, admin, targetID))
	})

	t.Run("not found", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().Delete(ctx, targetID).Return(models.ErrNotFound).Times(1)

		assert.ErrorIs(t, service.DeleteUser(ctx, admin, targetID), models.ErrNotFound)
	})

	t.Run("forbidden", func(t *testing.T) {
		service, _, _ := newTestIdentityService(t)
		assert.ErrorIs(t, service.DeleteUser(ctx, &models.User{Role: models.RoleUser}, targetID), models.ErrForbidden)
	})
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when missing", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByEmail(ctx, "admin@example.com").Return(nil, models.ErrNotFound).Times(1)
		usersMock.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *models.User) error {
				assert.Equal(t, models.RoleAdmin, u.Role)
				assert.True(t, u.IsActive)
				return nil
			}).
			Times(1)

		require.NoError(t, service.EnsureAdmin(ctx, "Admin", "Admin@Example.com", "admin-pass"))
	})

	t.Run("existing account untouched", func(t *testing.T) {
		service, usersMock, _ := newTestIdentityService(t)
		usersMock.EXPECT().GetByEmail(ctx, "admin@example.com").
			Return(&models.User{ID: uuid.New(), Role: models.RoleAdmin}, nil).Times(1)

		require.NoError(t, service.EnsureAdmin(ctx, "Admin", "admin@example.com", "admin-pass"))
	})
}

func TestGenerateToken(t *testing.T) {
	a, err := generateToken()
	require.NoError(t, err)
	b, err := generateToken()
	require.NoError(t, err)

	assert.Len(t, a, tokenBytes*2)
	assert.NotEqual(t, a, b)
}
