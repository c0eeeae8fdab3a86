package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisasterRepository_Cache(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewDisasterRepository(nil, client)
	ctx := context.Background()
	reporter := uuid.New()
	disaster := &models.DisasterReport{
		ID:         uuid.New(),
		Location:   models.Location{Latitude: 6.9271, Longitude: 79.8612, Address: "Colombo"},
		Timestamp:  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Type:       models.DisasterTypeFlood,
		Name:       "Kelani river flood",
		Severity:   models.SeverityHigh,
		ReportedBy: &reporter,
		Status:     models.StatusPending,
	}

	t.Run("miss", func(t *testing.T) {
		got, err := repo.GetDisasterFromCache(ctx, disaster.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.SetDisasterCache(ctx, disaster))
		assert.True(t, mr.Exists(disasterCacheKey(disaster.ID)))
		assert.Equal(t, disasterCacheTTL, mr.TTL(disasterCacheKey(disaster.ID)))

		got, err := repo.GetDisasterFromCache(ctx, disaster.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, disaster.Name, got.Name)
		assert.Equal(t, reporter, *got.ReportedBy)
		assert.True(t, disaster.Timestamp.Equal(got.Timestamp))
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, repo.InvalidateDisasterCache(ctx, disaster.ID))
		got, err := repo.GetDisasterFromCache(ctx, disaster.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("stale write does not replace newer entry", func(t *testing.T) {
		fresh := *disaster
		fresh.Status = models.StatusInProgress
		fresh.UpdatedAt = time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC)
		stale := *disaster
		stale.UpdatedAt = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

		// обновление статуса записало новую версию, затем читатель пытается положить старую строку
		require.NoError(t, repo.SetDisasterCache(ctx, &fresh))
		require.NoError(t, repo.SetDisasterCache(ctx, &stale))

		got, err := repo.GetDisasterFromCache(ctx, disaster.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, models.StatusInProgress, got.Status)

		newer := fresh
		newer.Status = models.StatusResolved
		newer.UpdatedAt = fresh.UpdatedAt.Add(time.Minute)
		require.NoError(t, repo.SetDisasterCache(ctx, &newer))

		got, err = repo.GetDisasterFromCache(ctx, disaster.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusResolved, got.Status)
	})

	t.Run("corrupted entry", func(t *testing.T) {
		mr.Del(disasterCacheKey(disaster.ID))
		mr.HSet(disasterCacheKey(disaster.ID), "data", "{not json")
		_, err := repo.GetDisasterFromCache(ctx, disaster.ID)
		assert.Error(t, err)
	})
}

func TestDisasterWhere(t *testing.T) {
	reporter := uuid.New()
	w := disasterWhere(models.DisasterFilter{
		Type:       models.DisasterTypeFire,
		Status:     models.StatusPending,
		ReportedBy: &reporter,
		Search:     "50%_off",
	})

	assert.Equal(t,
		" WHERE type = $1 AND status = $2 AND reported_by = $3 AND (name ILIKE $4 OR details ILIKE $4 OR address ILIKE $4)",
		w.sql())
	assert.Equal(t, []any{"fire", "pending", reporter, `%50\%\_off%`}, w.args)
}

func TestDisasterWhere_Empty(t *testing.T) {
	w := disasterWhere(models.DisasterFilter{})
	assert.Empty(t, w.sql())
	assert.Empty(t, w.args)
}
