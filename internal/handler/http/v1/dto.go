package v1

import (
	"time"

	"github.com/google/uuid"
)

// ErrorBody - описание ошибки
// @Description Категория и сообщение ошибки
type ErrorBody struct {
	Kind    string `json:"kind" example:"NotFound"`
	Message string `json:"message" example:"disaster not found"`
}

// ErrorResponse - единый формат ответа с ошибкой
// @Description Единый формат ответа с ошибкой
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SuccessResponse DTO для ответов без тела
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

// GeoPointDTO - координаты пользователя
type GeoPointDTO struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

// RegisterRequest DTO для регистрации
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Name      string       `json:"name" validate:"required,min=2,max=255"`
	Email     string       `json:"email" validate:"required,email"`
	Password  string       `json:"password" validate:"required,min=6,max=72"`
	Role      string       `json:"role,omitempty"`
	NIC       string       `json:"nic,omitempty" validate:"max=20"`
	Address   string       `json:"address,omitempty" validate:"max=500"`
	Location  *GeoPointDTO `json:"location,omitempty"`
	ContactNo string       `json:"contactNo,omitempty" validate:"max=30"`
}

// LoginRequest DTO для входа
// @Description DTO для входа по email и паролю
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse DTO пользователя. Хеш пароля не возвращается.
// @Description DTO пользователя
type UserResponse struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	NIC       string       `json:"nic,omitempty"`
	Address   string       `json:"address,omitempty"`
	Location  *GeoPointDTO `json:"location,omitempty"`
	ContactNo string       `json:"contactNo,omitempty"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// AuthResponse DTO ответа на регистрацию и вход
// @Description Пользователь и сессионный токен
type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// CurrentUserResponse DTO ответа /auth/me и PUT /users/:id
type CurrentUserResponse struct {
	User *UserResponse `json:"user"`
}

// UpdateUserRequest DTO для изменения роли и активности пользователя
// @Description DTO для изменения роли и активности пользователя
type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// ListUsersQuery - параметры GET /users
type ListUsersQuery struct {
	Role   string `form:"role"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// Pagination DTO параметров страницы
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// UserListResponse DTO для списка пользователей
type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Pagination Pagination      `json:"pagination"`
}

// LocationDTO - место происшествия
type LocationDTO struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Address   string   `json:"address,omitempty" validate:"max=500"`
}

// CreateDisasterRequest DTO для создания сообщения о бедствии
// @Description DTO для создания сообщения о бедствии
type CreateDisasterRequest struct {
	Location       LocationDTO `json:"location"`
	Type           string      `json:"type" validate:"required,oneof=flood fire earthquake landslide tsunami hurricane other"`
	Name           string      `json:"name" validate:"required,min=2,max=255"`
	Severity       string      `json:"severity" validate:"required,oneof=low medium high critical"`
	Details        string      `json:"details" validate:"required,max=5000"`
	AffectedCount  int         `json:"affectedCount" validate:"gte=0,lte=2147483647"`
	ContactNo      string      `json:"contactNo,omitempty" validate:"max=30"`
	Images         []string    `json:"images,omitempty" validate:"max=20,dive,required,max=2048"`
	AudioRecording string      `json:"audioRecording,omitempty" validate:"max=2048"`
}

// UpdateStatusRequest DTO для изменения статуса
// @Description DTO для изменения статуса, заметок и исполнителя
type UpdateStatusRequest struct {
	Status     string     `json:"status" validate:"required,oneof=pending in-progress resolved"`
	Notes      *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

// ListDisastersQuery - параметры GET /disasters
type ListDisastersQuery struct {
	Type     string `form:"type"`
	Severity string `form:"severity"`
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

// DisasterResponse DTO сообщения о бедствии
// @Description DTO сообщения о бедствии
type DisasterResponse struct {
	ID             uuid.UUID   `json:"id"`
	Location       LocationDTO `json:"location"`
	Timestamp      time.Time   `json:"timestamp"`
	Type           string      `json:"type"`
	Name           string      `json:"name"`
	Severity       string      `json:"severity"`
	Details        string      `json:"details"`
	AffectedCount  int         `json:"affectedCount"`
	ContactNo      string      `json:"contactNo,omitempty"`
	Images         []string    `json:"images,omitempty"`
	AudioRecording string      `json:"audioRecording,omitempty"`
	ReportedBy     *uuid.UUID  `json:"reportedBy,omitempty"`
	Status         string      `json:"status"`
	AssignedTo     *uuid.UUID  `json:"assignedTo,omitempty"`
	Notes          string      `json:"notes,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// DisasterEnvelope DTO ответа с одним сообщением
type DisasterEnvelope struct {
	Disaster *DisasterResponse `json:"disaster"`
}

// DisasterListResponse DTO списка сообщений. Pagination отсутствует у /disasters/user.
type DisasterListResponse struct {
	Disasters  []*DisasterResponse `json:"disasters"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

// UploadResponse DTO ответа на загрузку файла
// @Description Адрес загруженного файла
type UploadResponse struct {
	FileURL     string `json:"fileUrl"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// TrendPointDTO - количество сообщений за день
type TrendPointDTO struct {
	Date  string `json:"date" example:"2026-06-15"`
	Count int    `json:"count"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	PendingCount        int             `json:"pendingCount"`
	InProgressCount     int             `json:"inProgressCount"`
	ResolvedCount       int             `json:"resolvedCount"`
	ActiveResponders    int             `json:"activeResponders"`
	TodayReports        int             `json:"todayReports"`
	DisastersByType     map[string]int  `json:"disastersByType"`
	DisastersBySeverity map[string]int  `json:"disastersBySeverity"`
	DisastersByStatus   map[string]int  `json:"disastersByStatus"`
	DisastersTrend      []TrendPointDTO `json:"disastersTrend"`
}

// StatsQuery - параметры GET /stats
type StatsQuery struct {
	Days int `form:"days"`
}
