package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type DisasterType string

const (
	DisasterTypeFlood      DisasterType = "flood"
	DisasterTypeFire       DisasterType = "fire"
	DisasterTypeEarthquake DisasterType = "earthquake"
	DisasterTypeLandslide  DisasterType = "landslide"
	DisasterTypeTsunami    DisasterType = "tsunami"
	DisasterTypeHurricane  DisasterType = "hurricane"
	DisasterTypeOther      DisasterType = "other"
)

// DisasterTypes возвращает все типы бедствий в фиксированном порядке
func DisasterTypes() []DisasterType {
	return []DisasterType{
		DisasterTypeFlood,
		DisasterTypeFire,
		DisasterTypeEarthquake,
		DisasterTypeLandslide,
		DisasterTypeTsunami,
		DisasterTypeHurricane,
		DisasterTypeOther,
	}
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities возвращает уровни серьезности по возрастанию
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

// Rank возвращает порядковый номер уровня (low < medium < high < critical), 0 для неизвестного
func (s Severity) Rank() int {
	for i, v := range Severities() {
		if v == s {
			return i + 1
		}
	}
	return 0
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusResolved}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// CanTransitionTo сообщает, разрешен ли переход статуса.
// resolved -> in-progress допускается как исправление (повторное открытие).
// Переход в тот же статус обрабатывается сервисом как no-op и здесь не разрешен.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusResolved
	case StatusResolved:
		return next == StatusInProgress
	}
	return false
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// DisasterReport - сообщение о чрезвычайной ситуации
type DisasterReport struct {
	ID             uuid.UUID    `json:"id"`
	Location       Location     `json:"location"`
	Timestamp      time.Time    `json:"timestamp"`
	Type           DisasterType `json:"type"`
	Name           string       `json:"name"`
	Severity       Severity     `json:"severity"`
	Details        string       `json:"details"`
	AffectedCount  int          `json:"affected_count"`
	ContactNo      string       `json:"contact_no,omitempty"`
	Images         []string     `json:"images,omitempty"`
	AudioRecording string       `json:"audio_recording,omitempty"`
	ReportedBy     *uuid.UUID   `json:"reported_by,omitempty"`
	Status         Status       `json:"status"`
	AssignedTo     *uuid.UUID   `json:"assigned_to,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// IsReportedBy проверяет, что сообщение создано указанным пользователем
func (d *DisasterReport) IsReportedBy(userID uuid.UUID) bool {
	return d.ReportedBy != nil && *d.ReportedBy == userID
}

// DisasterFilter - параметры выборки сообщений. Пустые поля не фильтруют.
// Limit == 0 означает выборку без ограничения.
type DisasterFilter struct {
	Type       DisasterType
	Severity   Severity
	Status     Status
	Search     string
	ReportedBy *uuid.UUID
	Page       int
	Limit      int
}

// Offset возвращает смещение для 1-индексированной страницы
func (f DisasterFilter) Offset() int {
	return PageOffset(f.Page, f.Limit)
}

// PageOffset возвращает смещение 1-индексированной страницы.
// При переполнении возвращается math.MaxInt: такая страница заведомо пуста.
func PageOffset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// StatusUpdate - изменение статуса сообщения спасателем или администратором
type StatusUpdate struct {
	Status     Status
	Notes      *string
	AssignedTo *uuid.UUID
}
