package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("waitlist_archive")

		collection.Fields.Add(
			&core.TextField{Name: "display_id", Required: true},
			&core.SelectField{Name: "origin", Values: []string{"shop", "web"}, MaxSelect: 1},
			&core.NumberField{Name: "adults", OnlyInt: true},
			&core.NumberField{Name: "children", OnlyInt: true},
			&core.NumberField{Name: "infants", OnlyInt: true},
			&core.SelectField{Name: "seat_preference", Values: []string{"anywhere", "counter", "table", "tatami"}, MaxSelect: 1},
			&core.SelectField{Name: "outcome", Values: []string{"completed", "removed", "cancelled"}, MaxSelect: 1},
			&core.DateField{Name: "registered_at"},
			&core.NumberField{Name: "waited_minutes", OnlyInt: true},
			&core.AutodateField{Name: "created", OnCreate: true},
		)

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("waitlist_archive")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
