package services

import (
	"time"

	"github.com/shopspring/decimal"

	"waitlist-system/models"
)

// waitMinutes is how long the guest waited, in whole minutes, rounded
// half-up and clamped at zero. Clock skew between the registering device and
// the server can otherwise produce a negative wait.
func waitMinutes(registeredAt, now time.Time) int {
	mins := decimal.NewFromFloat(now.Sub(registeredAt).Minutes()).Round(0).IntPart()
	if mins < 0 {
		return 0
	}
	return int(mins)
}

// applyCompletion folds one completed wait into the day's running mean.
// The average is re-rounded to a whole minute on every update; replaying the
// day's waits through this recurrence reproduces the dashboard numbers
// exactly, rounding drift included.
func applyCompletion(stats *models.Stats, waited int) {
	completed := decimal.NewFromInt(int64(stats.CompletedToday))
	sum := decimal.NewFromInt(int64(stats.AverageWaitMinutes)).
		Mul(completed).
		Add(decimal.NewFromInt(int64(waited)))

	newCompleted := stats.CompletedToday + 1
	avg := sum.Div(decimal.NewFromInt(int64(newCompleted))).Round(0)

	stats.CompletedToday = newCompleted
	stats.AverageWaitMinutes = int(avg.IntPart())
}
