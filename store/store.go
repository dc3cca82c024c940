// Package store is the persistence layer over the embedded PocketBase
// document store. Counter updates that must survive concurrent writers
// (check-in flags, capacity and quota counters) are single conditional
// UPDATE statements so the database, not application code, serializes
// them.
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

type Store struct {
	app core.App
}

func New(app core.App) *Store {
	return &Store{app: app}
}

// ── users ────────────────────────────────────────────────────────────

func (s *Store) FindUserBySubject(ctx context.Context, subject string) (*models.User, error) {
	record, err := s.app.FindFirstRecordByData("users", "subject_id", subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find user by subject: %w", err)
	}
	return userFromRecord(record)
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	record, err := s.app.FindRecordById("users", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return userFromRecord(record)
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (string, error) {
	collection, err := s.app.FindCollectionByNameOrId("users")
	if err != nil {
		return "", fmt.Errorf("users collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("subject_id", user.SubjectID)
	record.Set("name", user.Name)
	record.Set("email", user.Email)
	record.Set("avatar_url", user.AvatarURL)
	record.Set("has_completed_onboarding", user.HasCompletedOnboarding)
	record.Set("free_events_created", user.FreeEventsCreated)

	if err := s.app.Save(record); err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return record.Id, nil
}

// PatchUser applies only the given fields and lets the updated autodate
// stamp the change.
func (s *Store) PatchUser(ctx context.Context, id string, fields map[string]any) error {
	record, err := s.app.FindRecordById("users", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return status.ErrNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	for k, v := range fields {
		record.Set(k, v)
	}
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("patch user: %w", err)
	}
	return nil
}

// ClaimFreeEventSlot takes one free-tier quota slot with a conditional
// increment, the same shape as ReserveCapacity: of any number of
// concurrent claims by the same organizer at the ceiling, the database
// admits exactly as many as there are slots left.
func (s *Store) ClaimFreeEventSlot(ctx context.Context, userID string, limit int) error {
	result, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE users SET free_events_created = free_events_created + 1 WHERE id = {:id} AND free_events_created < {:limit}").
		Bind(dbx.Params{"id": userID, "limit": limit}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return fmt.Errorf("claim free event slot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim free event slot: %w", err)
	}
	if affected == 0 {
		return status.ErrQuotaExceeded
	}
	return nil
}

// AdjustFreeEvents moves the free-event quota counter by delta in a single
// statement, floored at zero, so concurrent create/delete by the same
// organizer cannot lose updates.
func (s *Store) AdjustFreeEvents(ctx context.Context, userID string, delta int) error {
	_, err := s.app.NonconcurrentDB().
		NewQuery("UPDATE users SET free_events_created = MAX(0, free_events_created + {:delta}) WHERE id = {:id}").
		Bind(dbx.Params{"delta": delta, "id": userID}).
		WithContext(ctx).
		Execute()
	if err != nil {
		return fmt.Errorf("adjust free events: %w", err)
	}
	return nil
}

func userFromRecord(record *core.Record) (*models.User, error) {
	user := &models.User{
		ID:                     record.Id,
		SubjectID:              record.GetString("subject_id"),
		Name:                   record.GetString("name"),
		Email:                  record.GetString("email"),
		AvatarURL:              record.GetString("avatar_url"),
		HasCompletedOnboarding: record.GetBool("has_completed_onboarding"),
		FreeEventsCreated:      record.GetInt("free_events_created"),
		CreatedAt:              record.GetDateTime("created").Time(),
		UpdatedAt:              record.GetDateTime("updated").Time(),
	}

	if raw := record.GetString("location"); raw != "" && raw != "null" {
		var loc models.UserLocation
		if err := record.UnmarshalJSONField("location", &loc); err != nil {
			return nil, fmt.Errorf("decode user location: %w", err)
		}
		user.Location = &loc
	}
	if raw := record.GetString("interests"); raw != "" && raw != "null" {
		if err := record.UnmarshalJSONField("interests", &user.Interests); err != nil {
			return nil, fmt.Errorf("decode user interests: %w", err)
		}
	}
	if raw := record.GetString("organizer_profile"); raw != "" && raw != "null" {
		var profile models.OrganizerProfile
		if err := record.UnmarshalJSONField("organizer_profile", &profile); err != nil {
			return nil, fmt.Errorf("decode organizer profile: %w", err)
		}
		user.OrganizerProfile = &profile
	}

	return user, nil
}
