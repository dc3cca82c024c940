package services

import (
	"context"
	"time"

	"event-system/models"
)

// Persistence contracts the services depend on. Implemented by store.Store
// against PocketBase; tests substitute in-memory fakes.

type UserStore interface {
	FindUserBySubject(ctx context.Context, subject string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (string, error)
	PatchUser(ctx context.Context, id string, fields map[string]any) error
	ClaimFreeEventSlot(ctx context.Context, userID string, limit int) error
	AdjustFreeEvents(ctx context.Context, userID string, delta int) error
}

type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) (string, error)
	EventByID(ctx context.Context, id string) (*models.Event, error)
	EventBySlug(ctx context.Context, slug string) (*models.Event, error)
	UpcomingEvents(ctx context.Context, nowMillis int64, filter models.UpcomingFilter) ([]models.Event, error)
	EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error)
	PatchEvent(ctx context.Context, id string, fields map[string]any) error
	DeleteEventCascade(ctx context.Context, id string) error
	ReserveCapacity(ctx context.Context, eventID string) error
	ReleaseCapacity(ctx context.Context, eventID string) error
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, registration *models.Registration) (string, error)
	RegistrationByID(ctx context.Context, id string) (*models.Registration, error)
	RegistrationByCode(ctx context.Context, ticketCode string) (*models.Registration, error)
	ActiveRegistration(ctx context.Context, eventID, userID string) (*models.Registration, error)
	RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error)
	RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error)
	CancelRegistration(ctx context.Context, id string) error
	CheckInByCode(ctx context.Context, ticketCode string, at time.Time) (bool, error)
}
