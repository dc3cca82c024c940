package services

import (
	"context"
	"errors"
	"fmt"

	"event-system/internal/status"
	"event-system/models"
	"event-system/monitoring"
	"event-system/utils"
)

// RegistrationService is the ticket issuer: one confirmed registration per
// attendee per event, capped by event capacity, each carrying a unique
// ticket code that the QR widget renders.
type RegistrationService struct {
	registrations RegistrationStore
	events        EventStore
	users         UserStore
}

func NewRegistrationService(registrations RegistrationStore, events EventStore, users UserStore) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		events:        events,
		users:         users,
	}
}

// Register issues a ticket for the attendee. The capacity check is a
// conditional increment on the event row, so two attendees racing for the
// last seat cannot both win.
func (s *RegistrationService) Register(ctx context.Context, attendee *models.User, eventID string) (*models.Registration, error) {
	if attendee == nil {
		return nil, status.ErrUnauthenticated
	}

	if _, err := s.events.EventByID(ctx, eventID); err != nil {
		return nil, err
	}

	if _, err := s.registrations.ActiveRegistration(ctx, eventID, attendee.ID); err == nil {
		return nil, status.ErrDuplicateRegistration
	} else if !errors.Is(err, status.ErrNotFound) {
		return nil, err
	}

	if err := s.events.ReserveCapacity(ctx, eventID); err != nil {
		if errors.Is(err, status.ErrCapacityExceeded) {
			monitoring.Registrations.WithLabelValues("rejected_full").Inc()
		}
		return nil, err
	}

	ticketCode, err := utils.NewTicketCode()
	if err != nil {
		s.releaseSeat(ctx, eventID)
		return nil, fmt.Errorf("mint ticket code: %w", err)
	}

	registration := &models.Registration{
		EventID:    eventID,
		UserID:     attendee.ID,
		TicketCode: ticketCode,
		Status:     models.RegistrationConfirmed,
		CheckedIn:  false,
	}
	id, err := s.registrations.CreateRegistration(ctx, registration)
	if err != nil {
		s.releaseSeat(ctx, eventID)
		return nil, fmt.Errorf("create registration: %w", err)
	}
	registration.ID = id

	monitoring.Registrations.WithLabelValues("confirmed").Inc()
	return registration, nil
}

// releaseSeat is compensation for a failed insert after the seat was
// claimed; cancellation deliberately does not go through here.
func (s *RegistrationService) releaseSeat(ctx context.Context, eventID string) {
	_ = s.events.ReleaseCapacity(ctx, eventID)
}

// Mine returns the attendee's tickets joined with their events, newest
// first.
func (s *RegistrationService) Mine(ctx context.Context, attendee *models.User) ([]models.TicketView, error) {
	if attendee == nil {
		return nil, status.ErrUnauthenticated
	}

	registrations, err := s.registrations.RegistrationsByUser(ctx, attendee.ID)
	if err != nil {
		return nil, err
	}

	tickets := make([]models.TicketView, 0, len(registrations))
	for _, registration := range registrations {
		event, err := s.events.EventByID(ctx, registration.EventID)
		if err != nil {
			if errors.Is(err, status.ErrNotFound) {
				continue // event deleted between the two reads
			}
			return nil, err
		}
		tickets = append(tickets, models.TicketView{
			Registration: registration,
			Event:        *event,
		})
	}
	return tickets, nil
}

// Cancel flips the attendee's own confirmed ticket to cancelled. A ticket
// that was already used at the door cannot be cancelled, and cancelling
// never decrements the event's registration count: a sold-out event stays
// sold out.
func (s *RegistrationService) Cancel(ctx context.Context, attendee *models.User, registrationID string) error {
	if attendee == nil {
		return status.ErrUnauthenticated
	}

	registration, err := s.registrations.RegistrationByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if registration.UserID != attendee.ID {
		return status.ErrForbidden
	}

	if err := s.registrations.CancelRegistration(ctx, registrationID); err != nil {
		return err
	}
	monitoring.Registrations.WithLabelValues("cancelled").Inc()
	return nil
}

// Attendees returns the roster for an event; organizer only.
func (s *RegistrationService) Attendees(ctx context.Context, organizer *models.User, eventID string) ([]models.Attendee, error) {
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

	attendees := make([]models.Attendee, 0, len(registrations))
	for _, registration := range registrations {
		row := models.Attendee{
			RegistrationID: registration.ID,
			TicketCode:     registration.TicketCode,
			Status:         registration.Status,
			CheckedIn:      registration.CheckedIn,
			CheckedInAt:    registration.CheckedInAt,
		}
		if user, err := s.users.FindUserByID(ctx, registration.UserID); err == nil {
			row.Name = user.Name
			row.Email = user.Email
		}
		attendees = append(attendees, row)
	}
	return attendees, nil
}
