package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("events")
		collection.Fields.Add(
			&core.TextField{Name: "title", Required: true},
			&core.TextField{Name: "description"},
			&core.TextField{Name: "category"},
			&core.JSONField{Name: "tags"},
			// epoch millis; the frontend renders these directly
			&core.NumberField{Name: "start_date", Required: true, OnlyInt: true},
			&core.NumberField{Name: "end_date", Required: true, OnlyInt: true},
			&core.TextField{Name: "timezone"},
			&core.SelectField{Name: "location_type", Values: []string{"physical", "online"}, MaxSelect: 1, Required: true},
			&core.TextField{Name: "venue"},
			&core.TextField{Name: "address"},
			&core.TextField{Name: "city"},
			&core.TextField{Name: "state"},
			&core.TextField{Name: "country"},
			&core.URLField{Name: "online_link"},
			&core.NumberField{Name: "capacity", Required: true, OnlyInt: true, Min: types.Pointer(1.0)},
			&core.SelectField{Name: "ticket_type", Values: []string{"free", "paid"}, MaxSelect: 1, Required: true},
			&core.NumberField{Name: "ticket_price", Min: types.Pointer(0.0)},
			&core.TextField{Name: "cover_image"},
			&core.TextField{Name: "theme_color"},
			&core.TextField{Name: "slug", Required: true},
			&core.TextField{Name: "organizer_id", Required: true},
			&core.TextField{Name: "organizer_name"},
			&core.NumberField{Name: "registration_count", OnlyInt: true, Min: types.Pointer(0.0)},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		collection.AddIndex("idx_events_slug", true, "slug", "")
		collection.AddIndex("idx_events_start_date", false, "start_date", "")
		collection.AddIndex("idx_events_organizer_id", false, "organizer_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
