package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-system/internal/status"
	"event-system/models"
)

func setupRegistration(t *testing.T) (*fakeStore, *RegistrationService) {
	t.Helper()
	store := newFakeStore()
	return store, NewRegistrationService(store, store, store)
}

func TestRegister_IssuesTicket(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	attendee := store.seedUser("alice")

	registration, err := service.Register(context.Background(), attendee, event.ID)

	require.NoError(t, err)
	assert.Equal(t, models.RegistrationConfirmed, registration.Status)
	assert.False(t, registration.CheckedIn)
	assert.True(t, strings.HasPrefix(registration.TicketCode, "EVT-"), "got code %q", registration.TicketCode)

	updated, err := store.EventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RegistrationCount)
}

func TestRegister_UnknownEvent(t *testing.T) {
	store, service := setupRegistration(t)
	attendee := store.seedUser("alice")

	_, err := service.Register(context.Background(), attendee, "missing")
	assert.ErrorIs(t, err, status.ErrNotFound)
}

func TestRegister_DuplicateRejected(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	attendee := store.seedUser("alice")

	_, err := service.Register(context.Background(), attendee, event.ID)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), attendee, event.ID)
	assert.ErrorIs(t, err, status.ErrDuplicateRegistration)

	updated, err := store.EventByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.RegistrationCount, "rejected duplicate must not claim a seat")
}

func TestRegister_CapacityCeiling(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, func(e *models.Event) { e.Capacity = 2 })

	_, err := service.Register(context.Background(), store.seedUser("alice"), event.ID)
	require.NoError(t, err)
	_, err = service.Register(context.Background(), store.seedUser("bob"), event.ID)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), store.seedUser("carol"), event.ID)
	assert.ErrorIs(t, err, status.ErrCapacityExceeded)
}

// A cancelled ticket does not give the seat back: the sold-out event
// stays sold out and the next registration is still rejected.
func TestRegister_CancellationDoesNotFreeCapacity(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, func(e *models.Event) { e.Capacity = 1 })
	alice := store.seedUser("alice")

	registration, err := service.Register(context.Background(), alice, event.ID)
	require.NoError(t, err)
	require.NoError(t, service.Cancel(context.Background(), alice, registration.ID))

	_, err = service.Register(context.Background(), store.seedUser("bob"), event.ID)
	assert.ErrorIs(t, err, status.ErrCapacityExceeded)
}

// Cancelling clears the attendee's active registration, so the same
// attendee may grab a seat again while capacity remains.
func TestRegister_AfterCancelSameAttendee(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	alice := store.seedUser("alice")

	first, err := service.Register(context.Background(), alice, event.ID)
	require.NoError(t, err)
	require.NoError(t, service.Cancel(context.Background(), alice, first.ID))

	second, err := service.Register(context.Background(), alice, event.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.TicketCode, second.TicketCode)
}

func TestCancel_OnlyOwner(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	alice := store.seedUser("alice")
	mallory := store.seedUser("mallory")

	registration, err := service.Register(context.Background(), alice, event.ID)
	require.NoError(t, err)

	err = service.Cancel(context.Background(), mallory, registration.ID)
	assert.ErrorIs(t, err, status.ErrForbidden)
}

func TestCancel_CheckedInTicketIsLocked(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	alice := store.seedUser("alice")
	registration := store.seedRegistration(event.ID, alice.ID, "EVT-1-AAAA", func(r *models.Registration) {
		r.CheckedIn = true
	})

	err := service.Cancel(context.Background(), alice, registration.ID)
	assert.ErrorIs(t, err, status.ErrAlreadyCheckedIn)
}

func TestMine_JoinsEvents(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	first := store.seedEvent(organizer.ID, nil)
	second := store.seedEvent(organizer.ID, func(e *models.Event) {
		e.Title = "Rust Meetup"
		e.Slug = "rust-meetup-2"
	})
	alice := store.seedUser("alice")

	_, err := service.Register(context.Background(), alice, first.ID)
	require.NoError(t, err)
	_, err = service.Register(context.Background(), alice, second.ID)
	require.NoError(t, err)

	tickets, err := service.Mine(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	titles := []string{tickets[0].Event.Title, tickets[1].Event.Title}
	assert.ElementsMatch(t, []string{"Go Meetup", "Rust Meetup"}, titles)
}

func TestMine_SkipsDeletedEvents(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	kept := store.seedEvent(organizer.ID, nil)
	doomed := store.seedEvent(organizer.ID, func(e *models.Event) { e.Slug = "doomed-1" })
	alice := store.seedUser("alice")

	_, err := service.Register(context.Background(), alice, kept.ID)
	require.NoError(t, err)
	_, err = service.Register(context.Background(), alice, doomed.ID)
	require.NoError(t, err)

	// deleting cascades the registration away; the join must not choke
	// if a stale row survives, so drop only the event here
	store.mu.Lock()
	delete(store.events, doomed.ID)
	store.mu.Unlock()

	tickets, err := service.Mine(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, kept.ID, tickets[0].Event.ID)
}

func TestAttendees_OrganizerOnly(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)
	alice := store.seedUser("alice")
	_, err := service.Register(context.Background(), alice, event.ID)
	require.NoError(t, err)

	_, err = service.Attendees(context.Background(), alice, event.ID)
	assert.ErrorIs(t, err, status.ErrForbidden)

	roster, err := service.Attendees(context.Background(), organizer, event.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "alice", roster[0].Name)
	assert.Equal(t, "alice@example.com", roster[0].Email)
	assert.False(t, roster[0].CheckedIn)
}

func TestRegister_Unauthenticated(t *testing.T) {
	store, service := setupRegistration(t)
	organizer := store.seedUser("org")
	event := store.seedEvent(organizer.ID, nil)

	_, err := service.Register(context.Background(), nil, event.ID)
	assert.ErrorIs(t, err, status.ErrUnauthenticated)
}
