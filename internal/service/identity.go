package service

//go:generate mockgen -source=identity.go -destination=mocks/identity.go -package=mocks

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/policy"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt учитывает только первые 72 байта
	maxPasswordLength = 72
	tokenBytes        = 32
)

// UserRepository определяет контракт для хранения пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error)
	CountActiveByRole(ctx context.Context, role models.Role) (int, error)
}

// SessionRepository определяет контракт для серверного хранилища сессий
type SessionRepository interface {
	Create(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Get(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// IdentityService определяет контракт регистрации, аутентификации и управления пользователями
type IdentityService interface {
	Register(ctx context.Context, profile *models.User, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.Session, error)
	GetByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	ListUsers(ctx context.Context, caller *models.User, filter models.UserFilter) ([]*models.User, int, error)
	UpdateUser(ctx context.Context, caller *models.User, targetID uuid.UUID, patch models.UserPatch) (*models.User, error)
	DeleteUser(ctx context.Context, caller *models.User, targetID uuid.UUID) error
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

type identityService struct {
	users    UserRepository
	sessions SessionRepository
	logger   *logrus.Logger
	cfg      *config.Config
	newToken func() (string, error)
	now      func() time.Time
}

func NewIdentityService(users UserRepository, sessions SessionRepository, logger *logrus.Logger, cfg *config.Config) IdentityService {
	return &identityService{
		users:    users,
		sessions: sessions,
		logger:   logger,
		cfg:      cfg,
		newToken: generateToken,
		now:      time.Now,
	}
}

// Register регистрирует нового пользователя. Администратора зарегистрировать нельзя.
func (s *identityService) Register(ctx context.Context, profile *models.User, password string) (*models.User, error) {
	email := normalizeEmail(profile.Email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "identity",
		"method":  "Register",
		"email":   email,
	})
	log.Info("Attempting to register a new user")

	role := profile.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleFirstResponder {
		log.WithField("role", role).Warn("Rejected registration with non self-registrable role")
		return nil, fmt.Errorf("service: could not register user: %w",
			models.NewError(models.KindInvalidRole, "role %q cannot be self-registered", role))
	}
	if strings.TrimSpace(profile.Name) == "" || email == "" {
		return nil, fmt.Errorf("service: could not register user: %w",
			models.NewError(models.KindValidation, "name and email are required"))
	}
	if err := checkPassword(password); err != nil {
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(profile.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		NIC:          strings.TrimSpace(profile.NIC),
		Address:      strings.TrimSpace(profile.Address),
		Location:     profile.Location,
		ContactNo:    strings.TrimSpace(profile.ContactNo),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			log.Warn("Email is already registered")
		} else {
			log.WithError(err).Error("Failed to create user in repository")
		}
		return nil, fmt.Errorf("service: could not register user: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, nil
}

// Authenticate проверяет учетные данные и выдает непрозрачный сессионный токен
func (s *identityService) Authenticate(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "identity",
		"method":  "Authenticate",
		"email":   email,
	})

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("Login attempt for unknown email")
			return nil, models.ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user by email")
		return nil, fmt.Errorf("service: could not authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Warn("Login attempt with wrong password")
		return nil, models.ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn("Login attempt for disabled account")
		return nil, models.ErrAccountDisabled
	}

	token, err := s.newToken()
	if err != nil {
		log.WithError(err).Error("Failed to generate session token")
		return nil, fmt.Errorf("service: could not generate token: %w", err)
	}
	if err := s.sessions.Create(ctx, token, user.ID, s.cfg.SessionTTL); err != nil {
		log.WithError(err).Error("Failed to store session")
		return nil, fmt.Errorf("service: could not create session: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User authenticated successfully")
	return &models.Session{
		Token:     token,
		User:      user,
		ExpiresAt: s.now().Add(s.cfg.SessionTTL),
	}, nil
}

// GetByToken возвращает владельца сессии
func (s *identityService) GetByToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, models.ErrInvalidToken
	}

	userID, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			return nil, err
		}
		return nil, fmt.Errorf("service: could not resolve session: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// пользователь удален, сессия больше недействительна
			return nil, models.ErrInvalidToken
		}
		return nil, fmt.Errorf("service: could not get session user: %w", err)
	}
	if !user.IsActive {
		return nil, models.ErrAccountDisabled
	}
	return user, nil
}

// Logout отзывает сессию
func (s *identityService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Delete(ctx, token); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "identity",
			"method":  "Logout",
		}).WithError(err).Error("Failed to delete session")
		return fmt.Errorf("service: could not delete session: %w", err)
	}
	return nil
}

// ListUsers возвращает страницу пользователей (только для администратора)
func (s *identityService) ListUsers(ctx context.Context, caller *models.User, filter models.UserFilter) ([]*models.User, int, error) {
	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionUserManage) {
		return nil, 0, models.ErrForbidden
	}
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, models.NewError(models.KindInvalidRole, "unknown role %q", filter.Role)
	}
	filter.Page, filter.Limit = NormalizePage(filter.Page, filter.Limit)

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "identity",
			"method":  "ListUsers",
		}).WithError(err).Error("Failed to list users from repository")
		return nil, 0, fmt.Errorf("service: could not list users: %w", err)
	}
	return users, total, nil
}

// UpdateUser меняет роль и/или активность учетной записи
func (s *identityService) UpdateUser(ctx context.Context, caller *models.User, targetID uuid.UUID, patch models.UserPatch) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "identity",
		"method":    "UpdateUser",
		"target_id": targetID,
	})
	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionUserManage) {
		log.Warn("Non-admin attempted to update a user")
		return nil, models.ErrForbidden
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return nil, models.NewError(models.KindInvalidRole, "unknown role %q", *patch.Role)
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent user")
		return nil, fmt.Errorf("service: user %s not found for update: %w", targetID, err)
	}

	deactivated := false
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		deactivated = user.IsActive && !*patch.IsActive
		user.IsActive = *patch.IsActive
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		log.WithError(err).Error("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}

	if deactivated {
		s.revokeSessions(ctx, log, targetID)
	}

	log.Info("User updated successfully")
	return user, nil
}

// DeleteUser безвозвратно удаляет пользователя
func (s *identityService) DeleteUser(ctx context.Context, caller *models.User, targetID uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "identity",
		"method":    "DeleteUser",
		"target_id": targetID,
	})
	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionUserManage) {
		log.Warn("Non-admin attempted to delete a user")
		return models.ErrForbidden
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		log.WithError(err).Warn("Failed to delete user")
		return fmt.Errorf("service: could not delete user %s: %w", targetID, err)
	}
	s.revokeSessions(ctx, log, targetID)

	log.Info("User deleted successfully")
	return nil
}

// EnsureAdmin создает администратора при первом запуске, если его еще нет
func (s *identityService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	log := s.logger.WithFields(logrus.Fields{
		"service": "identity",
		"method":  "EnsureAdmin",
		"email":   email,
	})

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			log.Warn("Bootstrap admin email belongs to a non-admin account, leaving it unchanged")
		}
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("service: could not look up admin: %w", err)
	}
	if err := checkPassword(password); err != nil {
		return fmt.Errorf("service: invalid admin password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("service: could not hash admin password: %w", err)
	}
	now := s.now().UTC()
	admin := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("service: could not create admin: %w", err)
	}

	log.WithField("user_id", admin.ID).Info("Bootstrap admin created")
	return nil
}

// revokeSessions отзывает все сессии пользователя. Ошибка не фатальна:
// GetByToken все равно отклоняет токены удаленных и отключенных пользователей.
func (s *identityService) revokeSessions(ctx context.Context, log *logrus.Entry, userID uuid.UUID) {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		log.WithError(err).Warn("Failed to revoke user sessions")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func checkPassword(password string) error {
	if len(password) < minPasswordLength {
		return models.NewError(models.KindValidation, "password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return models.NewError(models.KindValidation, "password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
