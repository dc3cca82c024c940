package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		collection := core.NewBaseCollection("users")
		collection.Fields.Add(
			&core.TextField{Name: "subject_id", Required: true},
			&core.TextField{Name: "name"},
			&core.EmailField{Name: "email"},
			&core.TextField{Name: "avatar_url"},
			&core.BoolField{Name: "has_completed_onboarding"},
			&core.NumberField{Name: "free_events_created", OnlyInt: true, Min: types.Pointer(0.0)},
			&core.JSONField{Name: "location"},
			&core.JSONField{Name: "interests"},
			&core.JSONField{Name: "organizer_profile"},
			&core.AutodateField{Name: "created", OnCreate: true},
			&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true},
		)

		// one local record per identity-provider subject
		collection.AddIndex("idx_users_subject_id", true, "subject_id", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		return app.Delete(collection)
	})
}
