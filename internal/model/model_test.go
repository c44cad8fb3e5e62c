package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisType_Valid(t *testing.T) {
	assert.True(t, AnalysisTypeBrandFit.Valid())
	assert.False(t, AnalysisType("sentiment").Valid())
	assert.False(t, AnalysisType("").Valid())
}

func TestFollowerRatio(t *testing.T) {
	assert.Equal(t, 0.0, Profile{FollowersCount: 100}.FollowerRatio())
	assert.InDelta(t, 2.0, Profile{FollowersCount: 200, FollowingCount: 100}.FollowerRatio(), 1e-9)
	assert.InDelta(t, 0.05, Profile{FollowersCount: 50, FollowingCount: 1000}.FollowerRatio(), 1e-9)
}

func TestMonthKey(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	// 2026-01-01 03:00 in UTC+13 is still 2025-12-31 in UTC.
	ts := time.Date(2026, 1, 1, 3, 0, 0, 0, loc)
	assert.Equal(t, "2025-12", MonthKey(ts))
	assert.Equal(t, "2026-09", MonthKey(time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)))
}
