package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/shenikar/emergency_aid_connect/internal/service"
)

var (
	_ service.DisasterRepository = (*DisasterRepository)(nil)
	_ service.StatsRepository    = (*DisasterRepository)(nil)
)

// DisasterRepository хранит сообщения в памяти. Реализует service.DisasterRepository
// и service.StatsRepository; кэш не нужен, методы кэша ничего не делают.
type DisasterRepository struct {
	mu        sync.RWMutex
	disasters map[uuid.UUID]*models.DisasterReport
}

func NewDisasterRepository() *DisasterRepository {
	return &DisasterRepository{disasters: make(map[uuid.UUID]*models.DisasterReport)}
}

func (r *DisasterRepository) Create(_ context.Context, disaster *models.DisasterReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.disasters[disaster.ID] = copyDisaster(disaster)
	return nil
}

func (r *DisasterRepository) GetByID(_ context.Context, id uuid.UUID) (*models.DisasterReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	disaster, ok := r.disasters[id]
	if !ok {
		return nil, models.NewError(models.KindNotFound, "disaster with id %s not found", id)
	}
	return copyDisaster(disaster), nil
}

func (r *DisasterRepository) List(_ context.Context, filter models.DisasterFilter) ([]*models.DisasterReport, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	matched := make([]*models.DisasterReport, 0, len(r.disasters))
	for _, d := range r.disasters {
		if matchesFilter(d, filter, search) {
			matched = append(matched, d)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	page := paginate(matched, filter.Page, filter.Limit)
	out := make([]*models.DisasterReport, 0, len(page))
	for _, d := range page {
		out = append(out, copyDisaster(d))
	}
	return out, len(matched), nil
}

// UpdateStatus применяет изменение, только если текущий статус равен expected
func (r *DisasterRepository) UpdateStatus(_ context.Context, disaster *models.DisasterReport, expected models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.disasters[disaster.ID]
	if !ok {
		return models.NewError(models.KindNotFound, "disaster with id %s not found for update", disaster.ID)
	}
	if stored.Status != expected {
		return models.NewError(models.KindInvalidTransition, "disaster %s is no longer %s", disaster.ID, expected)
	}
	stored.Status = disaster.Status
	stored.Notes = disaster.Notes
	stored.AssignedTo = copyUUID(disaster.AssignedTo)
	stored.UpdatedAt = disaster.UpdatedAt
	return nil
}

func (r *DisasterRepository) Breakdown(_ context.Context) (*models.DisasterBreakdown, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	breakdown := models.NewDisasterBreakdown()
	for _, d := range r.disasters {
		breakdown.ByType[d.Type]++
		breakdown.BySeverity[d.Severity]++
		breakdown.ByStatus[d.Status]++
	}
	return breakdown, nil
}

func (r *DisasterRepository) ReportTimesSince(_ context.Context, since time.Time) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	times := make([]time.Time, 0)
	for _, d := range r.disasters {
		if !d.Timestamp.Before(since) {
			times = append(times, d.Timestamp)
		}
	}
	return times, nil
}

func (r *DisasterRepository) GetDisasterFromCache(context.Context, uuid.UUID) (*models.DisasterReport, error) {
	return nil, nil
}

func (r *DisasterRepository) SetDisasterCache(context.Context, *models.DisasterReport) error {
	return nil
}

func (r *DisasterRepository) InvalidateDisasterCache(context.Context, uuid.UUID) error {
	return nil
}

func matchesFilter(d *models.DisasterReport, filter models.DisasterFilter, search string) bool {
	if filter.Type != "" && d.Type != filter.Type {
		return false
	}
	if filter.Severity != "" && d.Severity != filter.Severity {
		return false
	}
	if filter.Status != "" && d.Status != filter.Status {
		return false
	}
	if filter.ReportedBy != nil && !d.IsReportedBy(*filter.ReportedBy) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(d.Name), search) &&
		!strings.Contains(strings.ToLower(d.Details), search) &&
		!strings.Contains(strings.ToLower(d.Location.Address), search) {
		return false
	}
	return true
}

func copyDisaster(d *models.DisasterReport) *models.DisasterReport {
	c := *d
	if d.Images != nil {
		c.Images = append([]string(nil), d.Images...)
	}
	c.ReportedBy = copyUUID(d.ReportedBy)
	c.AssignedTo = copyUUID(d.AssignedTo)
	return &c
}

func copyUUID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
