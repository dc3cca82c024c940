package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"event-system/internal/status"
	"event-system/models"
)

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	collection, err := s.app.FindCollectionByNameOrId("events")
	if err != nil {
		return "", fmt.Errorf("events collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("title", event.Title)
	record.Set("description", event.Description)
	record.Set("category", event.Category)
	record.Set("tags", event.Tags)
	record.Set("start_date", event.StartDate)
	record.Set("end_date", event.EndDate)
	record.Set("timezone", event.Timezone)
	record.Set("location_type", event.LocationType)
	record.Set("venue", event.Venue)
	record.Set("address", event.Address)
	record.Set("city", event.City)
	record.Set("state", event.State)
	record.Set("country", event.Country)
	record.Set("online_link", event.OnlineLink)
	record.Set("capacity", event.Capacity)
	record.Set("ticket_type", event.TicketType)
	record.Set("ticket_price", event.TicketPrice)
	record.Set("cover_image", event.CoverImage)
	record.Set("theme_color", event.ThemeColor)
	record.Set("slug", event.Slug)
	record.Set("organizer_id", event.OrganizerID)
	record.Set("organizer_name", event.OrganizerName)
	record.Set("registration_count", 0)

	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("create event: %w", err)
	}
	return record.Id, nil
}

func (s *Store) EventByID(ctx context.Context, id string) (*models.Event, error) {
	record, err := s.app.FindRecordById("events", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return eventFromRecord(record)
}

func (s *Store) EventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	record, err := s.app.FindFirstRecordByData("events", "slug", slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	return eventFromRecord(record)
}

func (s *Store) UpcomingEvents(ctx context.Context, nowMillis int64, filter models.UpcomingFilter) ([]models.Event, error) {
	expr := "start_date >= {:now}"
	params := dbx.Params{"now": nowMillis}
	if filter.Category != "" {
		expr += " && category = {:category}"
		params["category"] = filter.Category
	}
	if filter.City != "" {
		expr += " && city = {:city}"
		params["city"] = filter.City
	}

	records, err := s.app.FindRecordsByFilter(
		"events",
		expr,
		"+start_date",
		filter.Limit,
		0,
		params,
	)
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return eventsFromRecords(records)
}

func (s *Store) EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	records, err := s.app.FindRecordsByFilter(
		"events",
		"organizer_id = {:organizerId}",
		"-created",
		0,
		0,
		dbx.Params{"organizerId": organizerID},
	)
	if err != nil {
		return nil, fmt.Errorf("list organizer events: %w", err)
	}
	return eventsFromRecords(records)
}

func (s *Store) PatchEvent(ctx context.Context, id string, fields map[string]any) error {
	record, err := s.app.FindRecordById("events", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return status.ErrNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	for k, v := range fields {
		record.Set(k, v)
	}
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("patch event: %w", err)
	}
	return nil
}

// DeleteEventCascade removes an event and every registration that points
// at it inside one transaction, so a crash cannot leave orphan tickets.
func (s *Store) DeleteEventCascade(ctx context.Context, id string) error {
	return s.app.RunInTransaction(func(txApp core.App) error {
		registrations, err := txApp.FindRecordsByFilter(
			"registrations",
			"event_id = {:eventId}",
			"",
			0,
			0,
			dbx.Params{"eventId": id},
		)
		if err != nil {
			return fmt.Errorf("list event registrations: %w", err)
		}
		for _, registration := range registrations {
			if err := txApp.Delete(registration); err != nil {
				return fmt.Errorf("delete registration %s: %w", registration.Id, err)
			}
		}

		record, err := txApp.FindRecordById("events", id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return status.ErrNotFound
			}
			return fmt.Errorf("find event: %w", err)
		}
		if err := txApp.Delete(record); err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		return nil
	})
}

// ReserveCapacity claims one seat with a conditional increment. Two
// concurrent registrations racing for the last seat both run this
// statement; the database applies them in order and the second matches
// zero rows.
func (s *Store) ReserveCapacity(ctx context.Context, eventID string) error {
	result, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE events SET registration_count = registration_count + 1 WHERE id = {:id} AND registration_count < capacity").
		Bind(dbx.Params{"id": eventID}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return fmt.Errorf("reserve capacity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve capacity: %w", err)
	}
	if affected == 0 {
		return status.ErrCapacityExceeded
	}
	return nil
}

// ReleaseCapacity undoes a reservation when the registration insert fails
// after the seat was claimed. Floored at zero; cancellation does NOT call
// this (cancelled tickets keep their seat by design).
func (s *Store) ReleaseCapacity(ctx context.Context, eventID string) error {
	_, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE events SET registration_count = MAX(0, registration_count - 1) WHERE id = {:id}").
		Bind(dbx.Params{"id": eventID}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return fmt.Errorf("release capacity: %w", err)
	}
	return nil
}

func eventsFromRecords(records []*core.Record) ([]models.Event, error) {
	events := make([]models.Event, 0, len(records))
	for _, record := range records {
		event, err := eventFromRecord(record)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, nil
}

func eventFromRecord(record *core.Record) (*models.Event, error) {
	event := &models.Event{
		ID:                record.Id,
		Title:             record.GetString("title"),
		Description:       record.GetString("description"),
		Category:          record.GetString("category"),
		StartDate:         int64(record.GetFloat("start_date")),
		EndDate:           int64(record.GetFloat("end_date")),
		Timezone:          record.GetString("timezone"),
		LocationType:      record.GetString("location_type"),
		Venue:             record.GetString("venue"),
		Address:           record.GetString("address"),
		City:              record.GetString("city"),
		State:             record.GetString("state"),
		Country:           record.GetString("country"),
		OnlineLink:        record.GetString("online_link"),
		Capacity:          record.GetInt("capacity"),
		TicketType:        record.GetString("ticket_type"),
		TicketPrice:       record.GetFloat("ticket_price"),
		CoverImage:        record.GetString("cover_image"),
		ThemeColor:        record.GetString("theme_color"),
		Slug:              record.GetString("slug"),
		OrganizerID:       record.GetString("organizer_id"),
		OrganizerName:     record.GetString("organizer_name"),
		RegistrationCount: record.GetInt("registration_count"),
		CreatedAt:         record.GetDateTime("created").Time(),
		UpdatedAt:         record.GetDateTime("updated").Time(),
	}

	if raw := record.GetString("tags"); raw != "" && raw != "null" {
		if err := record.UnmarshalJSONField("tags", &event.Tags); err != nil {
			return nil, fmt.Errorf("decode event tags: %w", err)
		}
	}
	return event, nil
}
