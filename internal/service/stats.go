package service

//go:generate mockgen -source=stats.go -destination=mocks/stats.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/emergency_aid_connect/internal/config"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/policy"
	"github.com/sirupsen/logrus"
)

const maxTrendDays = 90

// StatsRepository определяет контракт агрегатов по хранилищу сообщений
type StatsRepository interface {
	Breakdown(ctx context.Context) (*models.DisasterBreakdown, error)
	ReportTimesSince(ctx context.Context, since time.Time) ([]time.Time, error)
}

// StatsService определяет контракт расчета статистики для администратора
type StatsService interface {
	ComputeStats(ctx context.Context, caller *models.User, trendDays int) (*models.Stats, error)
}

type statsService struct {
	repo   StatsRepository
	users  UserRepository
	logger *logrus.Logger
	cfg    *config.Config
	now    func() time.Time
}

func NewStatsService(repo StatsRepository, users UserRepository, logger *logrus.Logger, cfg *config.Config) StatsService {
	return &statsService{
		repo:   repo,
		users:  users,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ComputeStats считает статистику по текущему снимку хранилищ.
// Границы дней берутся в часовом поясе сервера.
func (s *statsService) ComputeStats(ctx context.Context, caller *models.User, trendDays int) (*models.Stats, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "stats",
		"method":  "ComputeStats",
	})
	if !policy.IsAllowed(models.RoleOf(caller), policy.ActionStatsView) {
		log.WithField("role", models.RoleOf(caller)).Warn("Caller is not allowed to view stats")
		return nil, models.ErrForbidden
	}

	if trendDays < 1 {
		trendDays = s.cfg.StatsTrendDays
	}
	if trendDays < 1 {
		trendDays = 1
	}
	if trendDays > maxTrendDays {
		trendDays = maxTrendDays
	}

	breakdown, err := s.repo.Breakdown(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to get disaster breakdown")
		return nil, fmt.Errorf("service: could not compute breakdown: %w", err)
	}

	responders, err := s.users.CountActiveByRole(ctx, models.RoleFirstResponder)
	if err != nil {
		log.WithError(err).Error("Failed to count active responders")
		return nil, fmt.Errorf("service: could not count responders: %w", err)
	}

	now := s.now()
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	trendStart := todayStart.AddDate(0, 0, -(trendDays - 1))

	times, err := s.repo.ReportTimesSince(ctx, trendStart)
	if err != nil {
		log.WithError(err).Error("Failed to get report timestamps")
		return nil, fmt.Errorf("service: could not compute trend: %w", err)
	}

	perDay := make(map[string]int, trendDays)
	today := 0
	for _, ts := range times {
		local := ts.In(loc)
		if local.Before(trendStart) {
			continue
		}
		perDay[local.Format(time.DateOnly)]++
		if !local.Before(todayStart) {
			today++
		}
	}

	trend := make([]models.TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		day := trendStart.AddDate(0, 0, i).Format(time.DateOnly)
		trend = append(trend, models.TrendPoint{Date: day, Count: perDay[day]})
	}

	stats := &models.Stats{
		ActiveResponders:    responders,
		TodayReports:        today,
		DisastersByType:     make(map[models.DisasterType]int),
		DisastersBySeverity: make(map[models.Severity]int),
		DisastersByStatus:   make(map[models.Status]int),
		DisastersTrend:      trend,
	}
	for _, t := range models.DisasterTypes() {
		stats.DisastersByType[t] = breakdown.ByType[t]
	}
	for _, sev := range models.Severities() {
		stats.DisastersBySeverity[sev] = breakdown.BySeverity[sev]
	}
	for _, st := range models.Statuses() {
		stats.DisastersByStatus[st] = breakdown.ByStatus[st]
	}
	stats.PendingCount = stats.DisastersByStatus[models.StatusPending]
	stats.InProgressCount = stats.DisastersByStatus[models.StatusInProgress]
	stats.ResolvedCount = stats.DisastersByStatus[models.StatusResolved]

	log.WithField("today_reports", today).Info("Stats computed successfully")
	return stats, nil
}
