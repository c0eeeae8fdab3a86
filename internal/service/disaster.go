package service

//go:generate mockgen -source=disaster.go -destination=mocks/disaster.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/policy"
	"github.com/shenikar/emergency_aid_connect/internal/webhook"
	"github.com/shenikar/emergency_aid_connect/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// DisasterRepository определяет контракт для работы с хранилищем сообщений о бедствиях
type DisasterRepository interface {
	Create(ctx context.Context, disaster *models.DisasterReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error)
	List(ctx context.Context, filter models.DisasterFilter) ([]*models.DisasterReport, int, error)
	// UpdateStatus сохраняет статус, заметки и исполнителя, только если текущий статус
	// в хранилище равен expected. Иначе возвращает InvalidTransition.
	UpdateStatus(ctx context.Context, disaster *models.DisasterReport, expected models.Status) error
	GetDisasterFromCache(ctx context.Context, id uuid.UUID) (*models.DisasterReport, error)
	SetDisasterCache(ctx context.Context, disaster *models.DisasterReport) error
	InvalidateDisasterCache(ctx context.Context, id uuid.UUID) error
}

// DisasterService определяет контракт бизнес-логики сообщений о бедствиях
type DisasterService interface {
	CreateDisaster(ctx context.Context, caller *models.User, disaster *models.DisasterReport) error
	ListDisasters(ctx context.Context, caller *models.User, filter models.DisasterFilter) ([]*models.DisasterReport, int, error)
	ListOwnDisasters(ctx context.Context, caller *models.User) ([]*models.DisasterReport, error)
	GetDisaster(ctx context.Context, caller *models.User, id uuid.UUID) (*models.DisasterReport, error)
	UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, update models.StatusUpdate) (*models.DisasterReport, error)
}

type disasterService struct {
	repo      DisasterRepository
	users     UserRepository
	publisher webhook.WebhookPublisher
	metrics   *metrics.Metrics
	logger    *logrus.Logger
	now       func() time.Time
}

func NewDisasterService(repo DisasterRepository, users UserRepository, publisher webhook.WebhookPublisher, m *metrics.Metrics, logger *logrus.Logger) DisasterService {
	return &disasterService{
		repo:      repo,
		users:     users,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateDisaster создает сообщение. Доступно и анонимно (caller == nil).
func (s *disasterService) CreateDisaster(ctx context.Context, caller *models.User, disaster *models.DisasterReport) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "disaster",
		"method":  "CreateDisaster",
		"name":    disaster.Name,
	})
	log.Info("Attempting to create a new disaster report")

	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionReportCreate) {
		return models.ErrForbidden
	}
	if err := validateReport(disaster); err != nil {
		log.WithError(err).Warn("Rejected invalid disaster report")
		return err
	}

	now := s.now().UTC()
	disaster.ID = uuid.New()
	disaster.Timestamp = now
	disaster.Status = models.StatusPending
	disaster.AssignedTo = nil
	disaster.Notes = ""
	disaster.ReportedBy = nil
	if caller != nil {
		reporter := caller.ID
		disaster.ReportedBy = &reporter
	}
	disaster.CreatedAt = now
	disaster.UpdatedAt = now

	if err := s.repo.Create(ctx, disaster); err != nil {
		log.WithError(err).Error("Failed to create disaster report in repository")
		return fmt.Errorf("service: could not create disaster report: %w", err)
	}

	s.metrics.ReportCreated(string(disaster.Type), string(disaster.Severity))
	s.publish(ctx, log, webhook.WebhookEvent{
		Event:      webhook.EventDisasterCreated,
		DisasterID: disaster.ID,
		Disaster:   disaster,
		Timestamp:  now,
	})

	log.WithField("disaster_id", disaster.ID).Info("Disaster report created successfully")
	return nil
}

// ListDisasters возвращает страницу сообщений. Без report:read-all допускается
// только выборка собственных сообщений вызывающего.
func (s *disasterService) ListDisasters(ctx context.Context, caller *models.User, filter models.DisasterFilter) ([]*models.DisasterReport, int, error) {
	filter.Page, filter.Limit = NormalizePage(filter.Page, filter.Limit)
	log := s.logger.WithFields(logrus.Fields{
		"service": "disaster",
		"method":  "ListDisasters",
		"page":    filter.Page,
		"limit":   filter.Limit,
	})

	action := policy.ActionReportReadAll
	if caller != nil && filter.ReportedBy != nil && *filter.ReportedBy == caller.ID {
		action = policy.ActionReportReadOwn
	}
	if !policy.IsAllowed(models.RoleOf(caller), action) {
		log.WithField("role", models.RoleOf(caller)).Warn("Caller is not allowed to list disaster reports")
		return nil, 0, models.ErrForbidden
	}
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}

	disasters, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list disaster reports from repository")
		return nil, 0, fmt.Errorf("service: could not list disaster reports: %w", err)
	}

	log.WithField("count", len(disasters)).Info("Disaster reports listed successfully")
	return disasters, total, nil
}

// ListOwnDisasters возвращает все сообщения вызывающего, новые первыми
func (s *disasterService) ListOwnDisasters(ctx context.Context, caller *models.User) ([]*models.DisasterReport, error) {
	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionReportReadOwn) {
		return nil, models.ErrForbidden
	}

	reporter := caller.ID
	disasters, _, err := s.repo.List(ctx, models.DisasterFilter{ReportedBy: &reporter})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "disaster",
			"method":  "ListOwnDisasters",
			"user_id": caller.ID,
		}).WithError(err).Error("Failed to list own disaster reports")
		return nil, fmt.Errorf("service: could not list own disaster reports: %w", err)
	}
	return disasters, nil
}

// GetDisaster получает сообщение по ID (сначала из кеша)
func (s *disasterService) GetDisaster(ctx context.Context, caller *models.User, id uuid.UUID) (*models.DisasterReport, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "disaster",
		"method":      "GetDisaster",
		"disaster_id": id,
	})
	log.Info("Fetching disaster report by ID")

	role := models.RoleOf(caller)
	if !policy.IsAllowed(role, policy.ActionReportReadAll) && !policy.IsAllowed(role, policy.ActionReportReadOwn) {
		return nil, models.ErrForbidden
	}

	disaster, err := s.repo.GetDisasterFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read disaster report from cache")
		disaster = nil
	}
	if disaster == nil {
		disaster, err = s.repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Failed to get disaster report in repository")
			return nil, fmt.Errorf("service: could not get disaster report: %w", err)
		}
		if err := s.repo.SetDisasterCache(ctx, disaster); err != nil {
			log.WithError(err).Warn("Failed to cache disaster report")
		}
	}

	if !policy.IsAllowed(role, policy.ActionReportReadAll) && !disaster.IsReportedBy(caller.ID) {
		log.WithField("user_id", caller.ID).Warn("Caller attempted to read someone else's report")
		return nil, models.ErrForbidden
	}

	log.Info("Disaster report fetched successfully")
	return disaster, nil
}

// UpdateStatus меняет статус, заметки и исполнителя сообщения.
// Повторный запрос того же статуса не меняет статус и не публикует событие.
func (s *disasterService) UpdateStatus(ctx context.Context, caller *models.User, id uuid.UUID, update models.StatusUpdate) (*models.DisasterReport, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "disaster",
		"method":      "UpdateStatus",
		"disaster_id": id,
		"status":      update.Status,
	})
	log.Info("Attempting to update disaster report status")

	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionReportUpdateStatus) {
		log.WithField("role", models.RoleOf(caller)).Warn("Caller is not allowed to update status")
		return nil, models.ErrForbidden
	}
	if !update.Status.Valid() {
		return nil, models.NewError(models.KindValidation, "unknown status %q", update.Status)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent disaster report")
		return nil, fmt.Errorf("service: disaster report %s not found for update: %w", id, err)
	}

	statusChanged := existing.Status != update.Status
	if statusChanged && !existing.Status.CanTransitionTo(update.Status) {
		log.WithField("from", existing.Status).Warn("Rejected invalid status transition")
		return nil, models.NewError(models.KindInvalidTransition,
			"cannot change status from %s to %s", existing.Status, update.Status)
	}

	if update.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *update.AssignedTo); err != nil {
			log.WithError(err).Warn("Rejected assignee")
			return nil, err
		}
	}

	updated := *existing
	updated.Status = update.Status
	if update.Notes != nil {
		updated.Notes = *update.Notes
	}
	if update.AssignedTo != nil {
		assignee := *update.AssignedTo
		updated.AssignedTo = &assignee
	}
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateStatus(ctx, &updated, existing.Status); err != nil {
		log.WithError(err).Warn("Failed to update disaster report status in repository")
		return nil, fmt.Errorf("service: could not update disaster report: %w", err)
	}

	// Новая версия записывается в кеш поверх старой; при ошибке запись удаляется
	if err := s.repo.SetDisasterCache(ctx, &updated); err != nil {
		log.WithError(err).Warn("Failed to refresh disaster report cache")
		if err := s.repo.InvalidateDisasterCache(ctx, id); err != nil {
			log.WithError(err).Warn("Failed to invalidate disaster report cache")
		}
	}

	if statusChanged {
		s.metrics.StatusChanged(string(existing.Status), string(updated.Status))
		s.publish(ctx, log, webhook.WebhookEvent{
			Event:          webhook.EventDisasterStatusChanged,
			DisasterID:     updated.ID,
			PreviousStatus: existing.Status,
			Disaster:       &updated,
			Timestamp:      updated.UpdatedAt,
		})
	}

	log.Info("Disaster report status updated successfully")
	return &updated, nil
}

// checkAssignee проверяет, что исполнитель - спасатель или администратор
func (s *disasterService) checkAssignee(ctx context.Context, assigneeID uuid.UUID) error {
	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.NewError(models.KindInvalidAssignee, "assignee %s does not exist", assigneeID)
		}
		return fmt.Errorf("service: could not get assignee: %w", err)
	}
	if assignee.Role != models.RoleFirstResponder && assignee.Role != models.RoleAdmin {
		return models.NewError(models.KindInvalidAssignee, "user %s with role %s cannot be assigned", assigneeID, assignee.Role)
	}
	return nil
}

// publish отправляет событие; ошибка доставки не отменяет операцию
func (s *disasterService) publish(ctx context.Context, log *logrus.Entry, event webhook.WebhookEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("event", event.Event).Warn("Failed to publish webhook event")
	}
}

func validateReport(d *models.DisasterReport) error {
	var problems []string
	if strings.TrimSpace(d.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(d.Details) == "" {
		problems = append(problems, "details are required")
	}
	if !validDisasterType(d.Type) {
		problems = append(problems, fmt.Sprintf("unknown type %q", d.Type))
	}
	if d.Severity.Rank() == 0 {
		problems = append(problems, fmt.Sprintf("unknown severity %q", d.Severity))
	}
	if d.AffectedCount < 0 || d.AffectedCount > math.MaxInt32 {
		problems = append(problems, fmt.Sprintf("affectedCount must be between 0 and %d", math.MaxInt32))
	}
	if d.Location.Latitude < -90 || d.Location.Latitude > 90 || d.Location.Longitude < -180 || d.Location.Longitude > 180 {
		problems = append(problems, "location is out of range")
	}
	if len(problems) > 0 {
		return models.NewError(models.KindValidation, "%s", strings.Join(problems, "; "))
	}
	return nil
}

func validateFilter(f models.DisasterFilter) error {
	if f.Type != "" && !validDisasterType(f.Type) {
		return models.NewError(models.KindValidation, "unknown type %q", f.Type)
	}
	if f.Severity != "" && f.Severity.Rank() == 0 {
		return models.NewError(models.KindValidation, "unknown severity %q", f.Severity)
	}
	if f.Status != "" && !f.Status.Valid() {
		return models.NewError(models.KindValidation, "unknown status %q", f.Status)
	}
	return nil
}

func validDisasterType(t models.DisasterType) bool {
	for _, v := range models.DisasterTypes() {
		if v == t {
			return true
		}
	}
	return false
}
