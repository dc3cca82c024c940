package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"event-system/internal/status"
	"event-system/models"
)

// fakeStore is an in-memory stand-in for store.Store. Its conditional
// operations (ReserveCapacity, CheckInByCode, CancelRegistration) take the
// mutex for the whole read-modify-write, mirroring the single-statement
// atomicity the real store gets from the database.
type fakeStore struct {
	mu            sync.Mutex
	seq           int
	users         map[string]*models.User
	events        map[string]*models.Event
	registrations map[string]*models.Registration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[string]*models.User{},
		events:        map[string]*models.Event{},
		registrations: map[string]*models.Registration{},
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s%03d", prefix, f.seq)
}

// ── UserStore ────────────────────────────────────────────────────────

func (f *fakeStore) FindUserBySubject(ctx context.Context, subject string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.SubjectID == subject {
			copied := *user
			return &copied, nil
		}
	}
	return nil, status.ErrNotFound
}

func (f *fakeStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("usr")
	copied := *user
	copied.ID = id
	copied.CreatedAt = time.Now()
	f.users[id] = &copied
	return id, nil
}

func (f *fakeStore) PatchUser(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return status.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "name":
			user.Name = v.(string)
		case "email":
			user.Email = v.(string)
		case "avatar_url":
			user.AvatarURL = v.(string)
		case "has_completed_onboarding":
			user.HasCompletedOnboarding = v.(bool)
		case "location":
			loc := v.(models.UserLocation)
			user.Location = &loc
		case "interests":
			user.Interests = v.([]string)
		case "organizer_profile":
			user.OrganizerProfile = v.(*models.OrganizerProfile)
		}
	}
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) ClaimFreeEventSlot(ctx context.Context, userID string, limit int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok || user.FreeEventsCreated >= limit {
		return status.ErrQuotaExceeded
	}
	user.FreeEventsCreated++
	return nil
}

func (f *fakeStore) AdjustFreeEvents(ctx context.Context, userID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return status.ErrNotFound
	}
	user.FreeEventsCreated += delta
	if user.FreeEventsCreated < 0 {
		user.FreeEventsCreated = 0
	}
	return nil
}

// ── EventStore ───────────────────────────────────────────────────────

func (f *fakeStore) CreateEvent(ctx context.Context, event *models.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("evt")
	copied := *event
	copied.ID = id
	copied.CreatedAt = time.Now()
	f.events[id] = &copied
	return id, nil
}

func (f *fakeStore) EventByID(ctx context.Context, id string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeStore) EventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.Slug == slug {
			copied := *event
			return &copied, nil
		}
	}
	return nil, status.ErrNotFound
}

func (f *fakeStore) UpcomingEvents(ctx context.Context, nowMillis int64, filter models.UpcomingFilter) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []models.Event
	for _, event := range f.events {
		if event.StartDate < nowMillis {
			continue
		}
		if filter.Category != "" && event.Category != filter.Category {
			continue
		}
		if filter.City != "" && event.City != filter.City {
			continue
		}
		events = append(events, *event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate < events[j].StartDate })
	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}
	return events, nil
}

func (f *fakeStore) EventsByOrganizer(ctx context.Context, organizerID string) ([]models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	events := []models.Event{}
	for _, event := range f.events {
		if event.OrganizerID == organizerID {
			events = append(events, *event)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return events, nil
}

func (f *fakeStore) PatchEvent(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return status.ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			event.Title = v.(string)
		case "description":
			event.Description = v.(string)
		case "category":
			event.Category = v.(string)
		case "start_date":
			event.StartDate = v.(int64)
		case "end_date":
			event.EndDate = v.(int64)
		case "capacity":
			event.Capacity = v.(int)
		case "cover_image":
			event.CoverImage = v.(string)
		case "theme_color":
			event.ThemeColor = v.(string)
		}
	}
	event.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteEventCascade(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[id]; !ok {
		return status.ErrNotFound
	}
	for regID, registration := range f.registrations {
		if registration.EventID == id {
			delete(f.registrations, regID)
		}
	}
	delete(f.events, id)
	return nil
}

func (f *fakeStore) ReserveCapacity(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return status.ErrNotFound
	}
	if event.RegistrationCount >= event.Capacity {
		return status.ErrCapacityExceeded
	}
	event.RegistrationCount++
	return nil
}

func (f *fakeStore) ReleaseCapacity(ctx context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[eventID]
	if !ok {
		return status.ErrNotFound
	}
	if event.RegistrationCount > 0 {
		event.RegistrationCount--
	}
	return nil
}

// ── RegistrationStore ────────────────────────────────────────────────

func (f *fakeStore) CreateRegistration(ctx context.Context, registration *models.Registration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("reg")
	copied := *registration
	copied.ID = id
	copied.CreatedAt = time.Now()
	f.registrations[id] = &copied
	return id, nil
}

func (f *fakeStore) RegistrationByID(ctx context.Context, id string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	registration, ok := f.registrations[id]
	if !ok {
		return nil, status.ErrNotFound
	}
	copied := *registration
	return &copied, nil
}

func (f *fakeStore) RegistrationByCode(ctx context.Context, ticketCode string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, registration := range f.registrations {
		if registration.TicketCode == ticketCode {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, status.ErrNotFound
}

func (f *fakeStore) ActiveRegistration(ctx context.Context, eventID, userID string) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, registration := range f.registrations {
		if registration.EventID == eventID && registration.UserID == userID &&
			registration.Status != models.RegistrationCancelled {
			copied := *registration
			return &copied, nil
		}
	}
	return nil, status.ErrNotFound
}

func (f *fakeStore) RegistrationsByEvent(ctx context.Context, eventID string) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	registrations := []models.Registration{}
	for _, registration := range f.registrations {
		if registration.EventID == eventID {
			registrations = append(registrations, *registration)
		}
	}
	return registrations, nil
}

func (f *fakeStore) RegistrationsByUser(ctx context.Context, userID string) ([]models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	registrations := []models.Registration{}
	for _, registration := range f.registrations {
		if registration.UserID == userID {
			registrations = append(registrations, *registration)
		}
	}
	return registrations, nil
}

func (f *fakeStore) CancelRegistration(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	registration, ok := f.registrations[id]
	if !ok {
		return status.ErrNotFound
	}
	if registration.CheckedIn {
		return status.ErrAlreadyCheckedIn
	}
	if registration.Status != models.RegistrationConfirmed {
		return status.ErrNotFound
	}
	registration.Status = models.RegistrationCancelled
	return nil
}

func (f *fakeStore) CheckInByCode(ctx context.Context, ticketCode string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, registration := range f.registrations {
		if registration.TicketCode != ticketCode {
			continue
		}
		if registration.CheckedIn || registration.Status != models.RegistrationConfirmed {
			return false, nil
		}
		registration.CheckedIn = true
		registration.CheckedInAt = &at
		return true, nil
	}
	return false, nil
}

// ── test helpers ─────────────────────────────────────────────────────

func (f *fakeStore) seedUser(subject string) *models.User {
	user := &models.User{SubjectID: subject, Name: subject, Email: subject + "@example.com"}
	id, _ := f.CreateUser(context.Background(), user)
	user.ID = id
	return user
}

func (f *fakeStore) seedEvent(organizerID string, mutate func(*models.Event)) *models.Event {
	now := time.Now()
	event := &models.Event{
		Title:        "Go Meetup",
		Category:     "tech",
		StartDate:    now.Add(48 * time.Hour).UnixMilli(),
		EndDate:      now.Add(52 * time.Hour).UnixMilli(),
		LocationType: models.LocationPhysical,
		City:         "Berlin",
		Country:      "DE",
		Capacity:     100,
		TicketType:   models.TicketFree,
		Slug:         "go-meetup-1",
		OrganizerID:  organizerID,
	}
	if mutate != nil {
		mutate(event)
	}
	id, _ := f.CreateEvent(context.Background(), event)
	event.ID = id
	return event
}

func (f *fakeStore) seedRegistration(eventID, userID, code string, mutate func(*models.Registration)) *models.Registration {
	registration := &models.Registration{
		EventID:    eventID,
		UserID:     userID,
		TicketCode: code,
		Status:     models.RegistrationConfirmed,
	}
	if mutate != nil {
		mutate(registration)
	}
	id, _ := f.CreateRegistration(context.Background(), registration)
	registration.ID = id
	return registration
}
