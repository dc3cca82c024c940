package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"event-system/config"
	"event-system/internal/status"
	"event-system/models"
	"event-system/monitoring"
	"event-system/utils"
)

// EventService owns the event registry: creation with slug derivation and
// free-tier quota enforcement, public listings, and organizer-only
// mutation. The upcoming listing is cached in Redis because it backs the
// public explore page; everything else hits the store directly.
type EventService struct {
	events EventStore
	users  UserStore
	redis  *redis.Client
	cfg    *config.Config
}

func NewEventService(events EventStore, users UserStore, redisClient *redis.Client, cfg *config.Config) *EventService {
	return &EventService{
		events: events,
		users:  users,
		redis:  redisClient,
		cfg:    cfg,
	}
}

// Create persists the draft for the organizer. A free-tier draft first
// claims a quota slot with a conditional increment on the user row, so
// two concurrent creations at the ceiling cannot both pass; the slot is
// given back if the event insert fails.
func (s *EventService) Create(ctx context.Context, organizer *models.User, draft *models.EventDraft) (*models.Event, error) {
	if organizer == nil {
		return nil, status.ErrUnauthenticated
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	if draft.TicketType == models.TicketFree {
		if err := s.users.ClaimFreeEventSlot(ctx, organizer.ID, s.cfg.FreeEventLimit); err != nil {
			if errors.Is(err, status.ErrQuotaExceeded) {
				monitoring.QuotaRejections.Inc()
			}
			return nil, err
		}
	}

	now := time.Now().UnixMilli()
	event := &models.Event{
		Title:         strings.TrimSpace(draft.Title),
		Description:   draft.Description,
		Category:      draft.Category,
		Tags:          draft.Tags,
		StartDate:     draft.StartDate,
		EndDate:       draft.EndDate,
		Timezone:      draft.Timezone,
		LocationType:  draft.LocationType,
		Venue:         draft.Venue,
		Address:       draft.Address,
		City:          draft.City,
		State:         draft.State,
		Country:       draft.Country,
		OnlineLink:    draft.OnlineLink,
		Capacity:      draft.Capacity,
		TicketType:    draft.TicketType,
		TicketPrice:   draft.TicketPrice,
		CoverImage:    draft.CoverImage,
		ThemeColor:    draft.ThemeColor,
		Slug:          utils.NewSlug(draft.Title, now),
		OrganizerID:   organizer.ID,
		OrganizerName: organizer.Name,
	}

	id, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		if draft.TicketType == models.TicketFree {
			// Return the claimed slot so a failed insert doesn't
			// burn quota.
			_ = s.users.AdjustFreeEvents(ctx, organizer.ID, -1)
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	event.ID = id

	monitoring.EventsCreated.WithLabelValues(draft.TicketType).Inc()
	s.invalidateUpcomingCache(ctx)
	return event, nil
}

// Upcoming serves the public explore listing: start date in the future,
// optionally narrowed by category and city, ascending by start, capped at
// the caller's limit (default from config). Results are cached per filter
// combination for a short TTL.
func (s *EventService) Upcoming(ctx context.Context, filter models.UpcomingFilter) ([]models.Event, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.cfg.UpcomingDefaultLimit
	}

	cacheKey := fmt.Sprintf("events:upcoming:%s:%s:%d", filter.Category, filter.City, filter.Limit)
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var events []models.Event
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			monitoring.UpcomingCacheHits.Inc()
			return events, nil
		}
	}
	monitoring.UpcomingCacheMisses.Inc()

	events, err := s.events.UpcomingEvents(ctx, time.Now().UnixMilli(), filter)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(events); err == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, s.cfg.UpcomingCacheTTL).Err(); err != nil {
			slog.Warn("upcoming cache write failed", "error", err)
		}
	}
	return events, nil
}

func (s *EventService) BySlug(ctx context.Context, slug string) (*models.Event, error) {
	return s.events.EventBySlug(ctx, slug)
}

func (s *EventService) ByID(ctx context.Context, id string) (*models.Event, error) {
	return s.events.EventByID(ctx, id)
}

// Mine returns the organizer's events, newest first. An unauthenticated
// caller gets an empty slice, not an error.
func (s *EventService) Mine(ctx context.Context, organizer *models.User) ([]models.Event, error) {
	if organizer == nil {
		return []models.Event{}, nil
	}
	return s.events.EventsByOrganizer(ctx, organizer.ID)
}

// Update applies a partial patch. Only the owning organizer may mutate.
func (s *EventService) Update(ctx context.Context, organizer *models.User, eventID string, patch *models.EventPatch) (*models.Event, error) {
	if organizer == nil {
		return nil, status.ErrUnauthenticated
	}

	event, err := s.events.EventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizer.ID {
		return nil, status.ErrForbidden
	}

	fields := patchFields(patch)
	if len(fields) > 0 {
		if err := s.events.PatchEvent(ctx, eventID, fields); err != nil {
			return nil, err
		}
	}

	s.invalidateUpcomingCache(ctx)
	return s.events.EventByID(ctx, eventID)
}

// Delete removes the event and cascades to its registrations. Deleting a
// free event returns the quota slot to the organizer, never below zero.
func (s *EventService) Delete(ctx context.Context, organizer *models.User, eventID string) error {
	if organizer == nil {
		return status.ErrUnauthenticated
	}

	event, err := s.events.EventByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizer.ID {
		return status.ErrForbidden
	}

	if err := s.events.DeleteEventCascade(ctx, eventID); err != nil {
		return err
	}

	if event.TicketType == models.TicketFree {
		if err := s.users.AdjustFreeEvents(ctx, organizer.ID, -1); err != nil {
			return fmt.Errorf("decrement free event count: %w", err)
		}
	}

	s.invalidateUpcomingCache(ctx)
	return nil
}

func (s *EventService) invalidateUpcomingCache(ctx context.Context) {
	keys, err := s.redis.Keys(ctx, "events:upcoming:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.redis.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("upcoming cache invalidation failed", "error", err)
	}
}

func validateDraft(draft *models.EventDraft) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if draft.EndDate <= draft.StartDate {
		return fmt.Errorf("end date must be after start date")
	}
	if draft.Capacity <= 0 {
		return fmt.Errorf("capacity must be a positive integer")
	}
	switch draft.LocationType {
	case models.LocationPhysical, models.LocationOnline:
	default:
		return fmt.Errorf("location type must be physical or online")
	}
	switch draft.TicketType {
	case models.TicketFree:
	case models.TicketPaid:
		if draft.TicketPrice <= 0 {
			return fmt.Errorf("paid events require a positive ticket price")
		}
	default:
		return fmt.Errorf("ticket type must be free or paid")
	}
	return nil
}

func patchFields(patch *models.EventPatch) map[string]any {
	fields := map[string]any{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.StartDate != nil {
		fields["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		fields["end_date"] = *patch.EndDate
	}
	if patch.Capacity != nil {
		fields["capacity"] = *patch.Capacity
	}
	if patch.CoverImage != nil {
		fields["cover_image"] = *patch.CoverImage
	}
	if patch.ThemeColor != nil {
		fields["theme_color"] = *patch.ThemeColor
	}
	return fields
}
