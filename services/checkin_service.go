package services

import (
	"context"
	"errors"
	"time"

	"event-system/internal/status"
	"event-system/models"
	"event-system/monitoring"
)

// Messages shown on the scanner screen. Scan failures are expected traffic
// at the door, so they travel as structured results, never as errors.
const (
	msgInvalid   = "Invalid QR code"
	msgCancelled = "Ticket cancelled"
	msgDuplicate = "Already checked in"
	msgSuccess   = "Check-in successful"
)

// CheckInPublisher pushes successful check-ins to the live dashboard feed.
type CheckInPublisher interface {
	PublishCheckIn(ctx context.Context, registration *models.Registration)
}

// CheckInService validates scanned ticket codes and applies the one-way
// check-in transition. The false→true flip is a single conditional update
// in the store, which is the at-most-once guarantee the whole system
// hangs on: of two concurrent scans of the same ticket, exactly one
// transitions the flag and the other observes it already set.
type CheckInService struct {
	registrations RegistrationStore
	publisher     CheckInPublisher
}

func NewCheckInService(registrations RegistrationStore, publisher CheckInPublisher) *CheckInService {
	return &CheckInService{
		registrations: registrations,
		publisher:     publisher,
	}
}

// CheckIn resolves the ticket code to a structured outcome. No retries;
// the scanner UI decides whether to prompt a re-scan.
func (s *CheckInService) CheckIn(ctx context.Context, ticketCode string) (*models.CheckInResult, error) {
	registration, err := s.registrations.RegistrationByCode(ctx, ticketCode)
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return s.outcome(models.CheckInInvalid, msgInvalid, nil), nil
		}
		return nil, err
	}

	if registration.Status == models.RegistrationCancelled {
		return s.outcome(models.CheckInCancelled, msgCancelled, registration), nil
	}
	if registration.CheckedIn {
		return s.outcome(models.CheckInDuplicate, msgDuplicate, registration), nil
	}

	transitioned, err := s.registrations.CheckInByCode(ctx, ticketCode, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Lost the race: either a concurrent scanner got there first or
		// the ticket was cancelled between the read and the update.
		// Re-read to report which.
		if current, err := s.registrations.RegistrationByCode(ctx, ticketCode); err == nil {
			if current.Status == models.RegistrationCancelled {
				return s.outcome(models.CheckInCancelled, msgCancelled, current), nil
			}
			registration = current
		}
		return s.outcome(models.CheckInDuplicate, msgDuplicate, registration), nil
	}

	checked, err := s.registrations.RegistrationByCode(ctx, ticketCode)
	if err != nil {
		// The transition committed; fall back to the pre-update snapshot.
		checked = registration
		checked.CheckedIn = true
	}

	if s.publisher != nil {
		s.publisher.PublishCheckIn(ctx, checked)
	}
	return s.outcome(models.CheckInOK, msgSuccess, checked), nil
}

func (s *CheckInService) outcome(code, message string, registration *models.Registration) *models.CheckInResult {
	monitoring.CheckInAttempts.WithLabelValues(code).Inc()
	return &models.CheckInResult{
		Success:      code == models.CheckInOK,
		Code:         code,
		Message:      message,
		Registration: registration,
	}
}
