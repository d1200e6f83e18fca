package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("waitlist_daily_stats")

		collection.Fields.Add(
			&core.TextField{Name: "business_day", Required: true},
			&core.NumberField{Name: "total_registered", OnlyInt: true},
			&core.NumberField{Name: "completed", OnlyInt: true},
			&core.NumberField{Name: "average_wait_minutes", OnlyInt: true},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		collection.AddIndex("idx_waitlist_daily_stats_day", false, "business_day", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("waitlist_daily_stats")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
