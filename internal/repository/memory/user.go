package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

// UserRepository хранит пользователей в памяти процесса
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]*models.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() service.UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]*models.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return models.NewError(models.KindDuplicateEmail, "email %s is already registered", user.Email)
	}
	r.users[user.ID] = copyUser(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "user with id %s not found", id)
	}
	return copyUser(user), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "user with email %s not found", email)
	}
	return copyUser(r.users[id]), nil
}

// Update заменяет запись целиком. Email не меняется.
func (r *UserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return models.NewError(models.KindNotFound, "user with id %s not found for update", user.ID)
	}
	updated := copyUser(user)
	updated.Email = existing.Email
	updated.PasswordHash = existing.PasswordHash
	updated.CreatedAt = existing.CreatedAt
	r.users[user.ID] = updated
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return models.NewError(models.KindNotFound, "user with id %s not found for delete", id)
	}
	delete(r.byEmail, user.Email)
	delete(r.users, id)
	return nil
}

func (r *UserRepository) List(_ context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(user.Email, search) {
			continue
		}
		matched = append(matched, user)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	page := paginate(matched, filter.Page, filter.Limit)
	out := make([]*models.User, 0, len(page))
	for _, user := range page {
		out = append(out, copyUser(user))
	}
	return out, len(matched), nil
}

func (r *UserRepository) CountActiveByRole(_ context.Context, role models.Role) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, user := range r.users {
		if user.IsActive && user.Role == role {
			count++
		}
	}
	return count, nil
}

func copyUser(user *models.User) *models.User {
	c := *user
	if user.Location != nil {
		loc := *user.Location
		c.Location = &loc
	}
	return &c
}
