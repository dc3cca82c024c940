package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("registrations")
		collection.Fields.Add(
			&core.TextField{Name: "event_id", Required: true},
			&core.TextField{Name: "user_id", Required: true},
			&core.TextField{Name: "ticket_code", Required: true},
			&core.SelectField{Name: "status", Values: []string{"confirmed", "cancelled"}, MaxSelect: 1, Required: true},
			&core.BoolField{Name: "checked_in"},
			&core.DateField{Name: "checked_in_at"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		// ticket codes are globally unique and immutable once issued
		collection.AddIndex("idx_registrations_ticket_code", true, "ticket_code", "")
		collection.AddIndex("idx_registrations_event_id", false, "event_id", "")
		collection.AddIndex("idx_registrations_user_id", false, "user_id", "")
		// at most one live ticket per attendee per event; cancelled rows
		// don't block re-registering
		collection.AddIndex("idx_registrations_active_attendee", true, "event_id, user_id", "status != 'cancelled'")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("registrations")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
