package services

import (
	"fmt"
	"log"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"waitlist-system/models"
)

// Archiver keeps a durable trail of what the live queue forgets: guests
// leave the active queue on completion or removal, and stats are zeroed at
// rollover and on reset. Archival is best-effort; the ledger never fails an
// operation because a history row could not be written.
type Archiver interface {
	ArchiveGuest(guest models.Guest, outcome string, waitedMinutes int) error
	ArchiveDailyStats(day string, stats models.Stats) error
}

// Guest archive outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeRemoved   = "removed"
	OutcomeCancelled = "cancelled"
)

// PBArchiver writes archive rows into the PocketBase collections created by
// the migrations in migrations/.
type PBArchiver struct {
	app core.App
}

func NewPBArchiver(app core.App) *PBArchiver {
	return &PBArchiver{app: app}
}

func (a *PBArchiver) ArchiveGuest(guest models.Guest, outcome string, waitedMinutes int) error {
	collection, err := a.app.FindCollectionByNameOrId("waitlist_archive")
	if err != nil {
		return fmt.Errorf("find archive collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("display_id", guest.DisplayID)
	record.Set("origin", string(guest.Origin))
	record.Set("adults", guest.Adults)
	record.Set("children", guest.Children)
	record.Set("infants", guest.Infants)
	record.Set("seat_preference", string(guest.Pref))
	record.Set("outcome", outcome)
	record.Set("registered_at", guest.RegisteredAt)
	record.Set("waited_minutes", waitedMinutes)

	if err := a.app.Save(record); err != nil {
		return fmt.Errorf("save archive record: %w", err)
	}
	return nil
}

func (a *PBArchiver) ArchiveDailyStats(day string, stats models.Stats) error {
	collection, err := a.app.FindCollectionByNameOrId("waitlist_daily_stats")
	if err != nil {
		return fmt.Errorf("find daily stats collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("business_day", day)
	record.Set("total_registered", stats.TotalRegisteredToday)
	record.Set("completed", stats.CompletedToday)
	record.Set("average_wait_minutes", stats.AverageWaitMinutes)

	if err := a.app.Save(record); err != nil {
		return fmt.Errorf("save daily stats record: %w", err)
	}
	return nil
}

// DailyStatsRow is one archived day for the admin dashboard history panel.
type DailyStatsRow struct {
	BusinessDay        string `db:"business_day" json:"business_day"`
	TotalRegistered    int    `db:"total_registered" json:"total_registered"`
	Completed          int    `db:"completed" json:"completed"`
	AverageWaitMinutes int    `db:"average_wait_minutes" json:"average_wait_minutes"`
}

// RecentDailyStats returns the newest archived days, most recent first.
func (a *PBArchiver) RecentDailyStats(limit int) ([]DailyStatsRow, error) {
	rows := []DailyStatsRow{}
	err := a.app.DB().NewQuery(
		"SELECT business_day, total_registered, completed, average_wait_minutes" +
			" FROM waitlist_daily_stats ORDER BY business_day DESC LIMIT {:limit}",
	).Bind(dbx.Params{"limit": limit}).All(&rows)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	return rows, nil
}

// logArchiveErr is shared by the service's best-effort archive calls.
func logArchiveErr(what string, err error) {
	if err != nil {
		log.Printf("Archive %s failed: %v", what, err)
	}
}
