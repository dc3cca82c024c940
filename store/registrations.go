package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"

	"event-system/internal/status"
	"event-system/models"
)

func (s *Store) CreateRegistration(ctx context.Context, registration *models.Registration) (string, error) {
	collection, err := s.app.FindCollectionByNameOrId("registrations")
	if err != nil {
		return "", fmt.Errorf("registrations collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("event_id", registration.EventID)
	record.Set("user_id", registration.UserID)
	record.Set("ticket_code", registration.TicketCode)
	record.Set("status", registration.Status)
	record.Set("checked_in", registration.CheckedIn)

	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("create registration: %w", err)
	}
	return record.Id, nil
}

func (s *Store) RegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	record, err := s.app.FindRecordById("registrations", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return registrationFromRecord(record), nil
}

func (s *Store) RegistrationByCode(ctx context.Context, ticketCode string) (*models.Registration, error) {
	record, err := s.app.FindFirstRecordByData("registrations", "ticket_code", ticketCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find registration by code: %w", err)
	}
	return registrationFromRecord(record), nil
}

// ActiveRegistration returns the attendee's non-cancelled registration for
// the event, or ErrNotFound. Cancelled rows don't block re-registering.
func (s *Store) ActiveRegistration(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	record, err := s.app.FindFirstRecordByFilter(
		"registrations",
		"event_id = {:eventId} && user_id = {:userId} && status != {:cancelled}",
		dbx.Params{"eventId": eventID, "userId": userID, "cancelled": models.RegistrationCancelled},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	return registrationFromRecord(record), nil
}

func (s *Store) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	records, err := s.app.FindRecordsByFilter(
		"registrations",
		"event_id = {:eventId}",
		"+created",
		0,
		0,
		dbx.Params{"eventId": eventID},
	)
	if err != nil {
		return nil, fmt.Errorf("list event registrations: %w", err)
	}
	return registrationsFromRecords(records), nil
}

func (s *Store) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	records, err := s.app.FindRecordsByFilter(
		"registrations",
		"user_id = {:userId}",
		"-created",
		0,
		0,
		dbx.Params{"userId": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	return registrationsFromRecords(records), nil
}

// CancelRegistration flips confirmed→cancelled unless the ticket was
// already used at the door. The conditional WHERE keeps a concurrent
// check-in from racing the cancellation.
func (s *Store) CancelRegistration(ctx context.Context, id string) error {
	result, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE registrations SET status = {:cancelled} WHERE id = {:id} AND status = {:confirmed} AND checked_in = FALSE").
		Bind(dbx.Params{
			"cancelled": models.RegistrationCancelled,
			"confirmed": models.RegistrationConfirmed,
			"id":        id,
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	if affected == 0 {
		// Re-read to tell the caller which guard failed.
		registration, err := s.RegistrationByID(ctx, id)
		if err != nil {
			return err
		}
		if registration.CheckedIn {
			return status.ErrAlreadyCheckedIn
		}
		return status.ErrNotFound
	}
	return nil
}

// CheckInByCode performs the one-way false→true transition as a single
// conditional UPDATE. Exactly one of any number of concurrent scans of the
// same code matches the checked_in = FALSE predicate; the rest report
// false and the caller maps that to "already checked in".
func (s *Store) CheckInByCode(ctx context.Context, ticketCode string, at time.Time) (bool, error) {
	checkedInAt, err := types.ParseDateTime(at.UTC())
	if err != nil {
		return false, fmt.Errorf("check-in timestamp: %w", err)
	}

	result, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE registrations SET checked_in = TRUE, checked_in_at = {:at} WHERE ticket_code = {:code} AND checked_in = FALSE AND status = {:confirmed}").
		Bind(dbx.Params{
			"at":        checkedInAt.String(),
			"code":      ticketCode,
			"confirmed": models.RegistrationConfirmed,
		}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return false, fmt.Errorf("check in ticket: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check in ticket: %w", err)
	}
	return affected == 1, nil
}

func registrationsFromRecords(records []*core.Record) []models.Registration {
	registrations := make([]models.Registration, 0, len(records))
	for _, record := range records {
		registrations = append(registrations, *registrationFromRecord(record))
	}
	return registrations
}

func registrationFromRecord(record *core.Record) *models.Registration {
	registration := &models.Registration{
		ID:         record.Id,
		EventID:    record.GetString("event_id"),
		UserID:     record.GetString("user_id"),
		TicketCode: record.GetString("ticket_code"),
		Status:     record.GetString("status"),
		CheckedIn:  record.GetBool("checked_in"),
		CreatedAt:  record.GetDateTime("created").Time(),
	}
	if at := record.GetDateTime("checked_in_at"); !at.IsZero() {
		t := at.Time()
		registration.CheckedInAt = &t
	}
	return registration
}
