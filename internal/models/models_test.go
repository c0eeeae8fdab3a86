package models

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusResolved, StatusInProgress, true},
		{StatusPending, StatusResolved, false},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusPending, false},
		{StatusPending, StatusPending, false},
		{StatusPending, Status("closed"), false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSeverity_Rank(t *testing.T) {
	assert.Less(t, SeverityLow.Rank(), SeverityMedium.Rank())
	assert.Less(t, SeverityMedium.Rank(), SeverityHigh.Rank())
	assert.Less(t, SeverityHigh.Rank(), SeverityCritical.Rank())
	assert.Equal(t, 0, Severity("extreme").Rank())
}

func TestRole_Valid(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, RoleAnonymous.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.Equal(t, RoleAnonymous, RoleOf(nil))
}

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("service: could not get disaster: %w", NewError(KindNotFound, "disaster %s not found", "42"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))

	domainErr, ok := AsError(err)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, domainErr.Kind)
	assert.Equal(t, "disaster 42 not found", domainErr.Message)

	_, ok = AsError(errors.New("boom"))
	assert.False(t, ok)
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		name        string
		page, limit int
		want        int
	}{
		{"first page", 1, 10, 0},
		{"third page", 3, 10, 20},
		{"zero page", 0, 10, 0},
		{"no limit", 5, 0, 0},
		{"overflowing page", math.MaxInt, 10, math.MaxInt},
		{"largest exact page", math.MaxInt/10 + 1, 10, (math.MaxInt / 10) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageOffset(tt.page, tt.limit))
			assert.GreaterOrEqual(t, UserFilter{Page: tt.page, Limit: tt.limit}.Offset(), 0)
		})
	}
}
