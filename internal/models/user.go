package models

import (
	"time"

	"github.com/google/uuid"
)

// Role - роль пользователя в системе
type Role string

const (
	RoleUser           Role = "user"
	RoleFirstResponder Role = "first_responder"
	RoleAdmin          Role = "admin"
	// RoleAnonymous - роль вызывающего без токена, в хранилище не встречается
	RoleAnonymous Role = ""
)

// Valid проверяет, что роль входит в перечисление
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleFirstResponder, RoleAdmin:
		return true
	}
	return false
}

// Roles возвращает все роли в фиксированном порядке
func Roles() []Role {
	return []Role{RoleUser, RoleFirstResponder, RoleAdmin}
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	NIC          string    `json:"nic,omitempty"`
	Address      string    `json:"address,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	ContactNo    string    `json:"contact_no,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleOf возвращает роль вызывающего; nil означает анонимный запрос
func RoleOf(u *User) Role {
	if u == nil {
		return RoleAnonymous
	}
	return u.Role
}

// UserFilter - параметры выборки пользователей для администратора
type UserFilter struct {
	Role   Role
	Search string
	Page   int
	Limit  int
}

// Offset возвращает смещение для 1-индексированной страницы
func (f UserFilter) Offset() int {
	return PageOffset(f.Page, f.Limit)
}

// UserPatch - изменения, которые администратор может внести в учетную запись
type UserPatch struct {
	Role     *Role
	IsActive *bool
}

// Session - выданный сессионный токен
type Session struct {
	Token     string
	User      *User
	ExpiresAt time.Time
}
