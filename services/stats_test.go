package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"waitlist-system/models"
)

func TestWaitMinutes(t *testing.T) {
	base := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, waitMinutes(base, base))
	assert.Equal(t, 12, waitMinutes(base, base.Add(12*time.Minute)))

	// Half a minute rounds up.
	assert.Equal(t, 13, waitMinutes(base, base.Add(12*time.Minute+30*time.Second)))
	assert.Equal(t, 12, waitMinutes(base, base.Add(12*time.Minute+29*time.Second)))

	// Clock skew cannot produce a negative wait.
	assert.Equal(t, 0, waitMinutes(base, base.Add(-3*time.Minute)))
}

func TestApplyCompletion_RunningMean(t *testing.T) {
	stats := &models.Stats{TotalRegisteredToday: 3}

	applyCompletion(stats, 10)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 10, stats.AverageWaitMinutes)

	applyCompletion(stats, 20)
	assert.Equal(t, 2, stats.CompletedToday)
	assert.Equal(t, 15, stats.AverageWaitMinutes)

	applyCompletion(stats, 30)
	assert.Equal(t, 3, stats.CompletedToday)
	assert.Equal(t, 20, stats.AverageWaitMinutes)
}

// The average re-rounds on every update, so it can drift from the true mean.
// That drift is the documented behavior, pinned here so nobody "fixes" half
// of it and silently changes the dashboard numbers.
func TestApplyCompletion_RoundingDriftIsStable(t *testing.T) {
	stats := &models.Stats{}

	applyCompletion(stats, 1)
	applyCompletion(stats, 0)
	// True mean 0.5 would round to 1 here too; the intermediate rounding
	// already produced it.
	assert.Equal(t, 1, stats.AverageWaitMinutes)

	applyCompletion(stats, 0)
	// Recurrence: round((1*2 + 0) / 3) = 1. The true mean 1/3 rounds to 0.
	assert.Equal(t, 1, stats.AverageWaitMinutes)
}
