package memory

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_aid_connect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(name string, ts time.Time) *models.DisasterReport {
	return &models.DisasterReport{
		ID:        uuid.New(),
		Location:  models.Location{Latitude: 7.29, Longitude: 80.63, Address: "Kandy"},
		Timestamp: ts,
		Type:      models.DisasterTypeLandslide,
		Name:      name,
		Severity:  models.SeverityMedium,
		Details:   "road blocked",
		Status:    models.StatusPending,
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	user := &models.User{ID: uuid.New(), Name: "Nimal", Email: "nimal@example.com", Role: models.RoleUser, IsActive: true}

	require.NoError(t, repo.Create(ctx, user))

	err := repo.Create(ctx, &models.User{ID: uuid.New(), Email: "nimal@example.com"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	got, err := repo.GetByEmail(ctx, "nimal@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// изменения полученной копии не влияют на хранилище
	got.Name = "changed"
	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Nimal", again.Name)

	again.Role = models.RoleFirstResponder
	require.NoError(t, repo.Update(ctx, again))
	count, err := repo.CountActiveByRole(ctx, models.RoleFirstResponder)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, user.ID), models.ErrNotFound)

	// email снова свободен
	require.NoError(t, repo.Create(ctx, &models.User{ID: uuid.New(), Email: "nimal@example.com"}))
}

func TestUserRepository_List(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		role := models.RoleUser
		if i%2 == 0 {
			role = models.RoleFirstResponder
		}
		require.NoError(t, repo.Create(ctx, &models.User{
			ID:        uuid.New(),
			Name:      fmt.Sprintf("User %d", i),
			Email:     fmt.Sprintf("user%d@example.com", i),
			Role:      role,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	users, total, err := repo.List(ctx, models.UserFilter{Role: models.RoleFirstResponder, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "User 4", users[0].Name)
	assert.Equal(t, "User 2", users[1].Name)

	users, total, err = repo.List(ctx, models.UserFilter{Search: "USER3", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "user3@example.com", users[0].Email)

	users, total, err = repo.List(ctx, models.UserFilter{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, users)
}

func TestDisasterRepository_ListOrderingAndPaging(t *testing.T) {
	repo := NewDisasterRepository()
	ctx := context.Background()
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := newReport("older", ts.Add(-time.Hour))
	tieA := newReport("tie a", ts)
	tieB := newReport("tie b", ts)
	for _, d := range []*models.DisasterReport{older, tieA, tieB} {
		require.NoError(t, repo.Create(ctx, d))
	}

	got, total, err := repo.List(ctx, models.DisasterFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 3)

	first, second := tieA, tieB
	if tieB.ID.String() < tieA.ID.String() {
		first, second = tieB, tieA
	}
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Equal(t, older.ID, got[2].ID)

	page, total, err := repo.List(ctx, models.DisasterFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, older.ID, page[0].ID)

	page, _, err = repo.List(ctx, models.DisasterFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page)

	page, total, err = repo.List(ctx, models.DisasterFilter{Page: math.MaxInt, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, page)
}

func TestPaginate_HugePage(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Empty(t, paginate(items, math.MaxInt, 10))
		assert.Empty(t, paginate(items, math.MaxInt/10+2, 10))
		assert.Empty(t, paginate([]int{}, 1, 10))
	})
	assert.Equal(t, []int{3}, paginate(items, 3, 1))
	assert.Empty(t, paginate(items, 4, 1))
}

func TestDisasterRepository_ListFilters(t *testing.T) {
	repo := NewDisasterRepository()
	ctx := context.Background()
	reporter := uuid.New()
	now := time.Now()

	flood := newReport("River overflow", now)
	flood.Type = models.DisasterTypeFlood
	flood.ReportedBy = &reporter
	fire := newReport("Warehouse", now)
	fire.Type = models.DisasterTypeFire
	fire.Details = "Thick SMOKE near the port"
	fire.Status = models.StatusInProgress
	for _, d := range []*models.DisasterReport{flood, fire} {
		require.NoError(t, repo.Create(ctx, d))
	}

	tests := []struct {
		name   string
		filter models.DisasterFilter
		want   []uuid.UUID
	}{
		{"by type", models.DisasterFilter{Type: models.DisasterTypeFlood}, []uuid.UUID{flood.ID}},
		{"by status", models.DisasterFilter{Status: models.StatusInProgress}, []uuid.UUID{fire.ID}},
		{"by reporter", models.DisasterFilter{ReportedBy: &reporter}, []uuid.UUID{flood.ID}},
		{"search details case-insensitive", models.DisasterFilter{Search: "smoke"}, []uuid.UUID{fire.ID}},
		{"search address", models.DisasterFilter{Search: "kandy"}, []uuid.UUID{flood.ID, fire.ID}},
		{"no match", models.DisasterFilter{Severity: models.SeverityCritical}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), total)
			ids := make([]uuid.UUID, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.ElementsMatch(t, tt.want, ids)
		})
	}
}

func TestDisasterRepository_UpdateStatusCompareAndSet(t *testing.T) {
	repo := NewDisasterRepository()
	ctx := context.Background()
	d := newReport("bridge", time.Now())
	require.NoError(t, repo.Create(ctx, d))

	var wg sync.WaitGroup
	results := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			update := *d
			update.Status = models.StatusInProgress
			results <- repo.UpdateStatus(ctx, &update, models.StatusPending)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)

	missing := newReport("missing", time.Now())
	assert.ErrorIs(t, repo.UpdateStatus(ctx, missing, models.StatusPending), models.ErrNotFound)
}

func TestDisasterRepository_Stats(t *testing.T) {
	repo := NewDisasterRepository()
	ctx := context.Background()
	now := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	recent := newReport("recent", now)
	old := newReport("old", now.AddDate(0, 0, -10))
	old.Status = models.StatusResolved
	for _, d := range []*models.DisasterReport{recent, old} {
		require.NoError(t, repo.Create(ctx, d))
	}

	breakdown, err := repo.Breakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, breakdown.ByType[models.DisasterTypeLandslide])
	assert.Equal(t, 1, breakdown.ByStatus[models.StatusPending])
	assert.Equal(t, 1, breakdown.ByStatus[models.StatusResolved])

	times, err := repo.ReportTimesSince(ctx, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.True(t, times[0].Equal(now))
}

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return current }
	userID := uuid.New()

	require.NoError(t, repo.Create(ctx, "a", userID, time.Hour))
	require.NoError(t, repo.Create(ctx, "b", userID, 2*time.Hour))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	current = current.Add(time.Hour)
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	require.NoError(t, repo.DeleteByUser(ctx, userID))
	_, err = repo.Get(ctx, "b")
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestSessionRepository_CreateSweepsExpired(t *testing.T) {
	repo := NewSessionRepository()
	ctx := context.Background()
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return current }

	for i := 0; i < 50; i++ {
		require.NoError(t, repo.Create(ctx, fmt.Sprintf("old-%d", i), uuid.New(), time.Minute))
	}
	require.NoError(t, repo.Create(ctx, "long", uuid.New(), 24*time.Hour))

	current = current.Add(time.Hour)
	require.NoError(t, repo.Create(ctx, "fresh", uuid.New(), time.Hour))

	assert.Len(t, repo.sessions, 2)
	assert.Contains(t, repo.sessions, "long")
	assert.Contains(t, repo.sessions, "fresh")
}
