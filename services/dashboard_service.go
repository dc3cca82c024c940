package services

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"event-system/internal/status"
	"event-system/models"
)

// DashboardService computes the organizer's event dashboard. Pure read:
// every call rescans the event's registrations and derives the stats from
// scratch. At this scale that is cheaper than keeping counters coherent.
type DashboardService struct {
	events        EventStore
	registrations RegistrationStore

	// now is swappable for tests.
	now func() time.Time
}

func NewDashboardService(events EventStore, registrations RegistrationStore) *DashboardService {
	return &DashboardService{
		events:        events,
		registrations: registrations,
		now:           time.Now,
	}
}

func (s *DashboardService) EventDashboard(ctx context.Context, organizer *models.User, eventID string) (*models.EventDashboard, error) {
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

	registrations, err := s.registrations.RegistrationsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(event, registrations, s.now())
	return &models.EventDashboard{Event: *event, Stats: stats}, nil
}

// ComputeStats derives the dashboard numbers. Cancelled registrations are
// excluded from every count; revenue counts only attendees who actually
// showed up (checked in) at a paid event.
func ComputeStats(event *models.Event, registrations []models.Registration, now time.Time) models.DashboardStats {
	total := 0
	checkedIn := 0
	for _, registration := range registrations {
		if registration.Status != models.RegistrationConfirmed {
			continue
		}
		total++
		if registration.CheckedIn {
			checkedIn++
		}
	}

	rate := 0
	if total > 0 {
		rate = int(math.Round(float64(checkedIn) / float64(total) * 100))
	}

	revenue := 0.0
	if event.TicketType == models.TicketPaid && event.TicketPrice > 0 {
		revenue, _ = decimal.NewFromFloat(event.TicketPrice).
			Mul(decimal.NewFromInt(int64(checkedIn))).
			Float64()
	}

	nowMillis := now.UnixMilli()
	hoursUntil := int64(0)
	if event.StartDate > nowMillis {
		hoursUntil = (event.StartDate - nowMillis) / int64(time.Hour/time.Millisecond)
	}

	return models.DashboardStats{
		TotalRegistrations: total,
		CheckedInCount:     checkedIn,
		PendingCount:       total - checkedIn,
		Capacity:           event.Capacity,
		CheckInRate:        rate,
		TotalRevenue:       revenue,
		HoursUntilEvent:    hoursUntil,
		IsEventToday:       isEventToday(event, now),
		IsEventPast:        event.EndDate < nowMillis,
	}
}

// isEventToday reports whether now's calendar day falls inside the
// event's [start day, end day] range, using local time like the frontend
// did.
func isEventToday(event *models.Event, now time.Time) bool {
	today := startOfDay(now)
	startDay := startOfDay(time.UnixMilli(event.StartDate))
	endDay := startOfDay(time.UnixMilli(event.EndDate))
	return !today.Before(startDay) && !today.After(endDay)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
