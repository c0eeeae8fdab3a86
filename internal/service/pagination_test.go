package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		wantPage, wantLimit int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative", -3, -1, 1, 10},
		{"limit clamped", 2, 500, 2, 100},
		{"huge page clamped", math.MaxInt, 10, math.MaxInt / 10, 10},
		{"huge page with max limit", math.MaxInt, 1000, math.MaxInt / 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.GreaterOrEqual(t, (page-1)*limit, 0)
		})
	}
}
