package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pubnub "github.com/pubnub/go"

	"event-system/models"
	"event-system/utils"
)

// RealtimePublisher streams successful check-ins to a per-event PubNub
// channel so the organizer dashboard ticks up without polling. Publishes
// run behind a circuit breaker and in a goroutine: the door scanner must
// never wait on, or fail because of, the realtime feed.
type RealtimePublisher struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewRealtimePublisher(pn *pubnub.PubNub) *RealtimePublisher {
	return &RealtimePublisher{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("checkin-feed"),
	}
}

func (p *RealtimePublisher) PublishCheckIn(ctx context.Context, registration *models.Registration) {
	if p.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("checkin.%s", registration.EventID)
	message := map[string]any{
		"type":        "attendee_checked_in",
		"event_id":    registration.EventID,
		"ticket_code": registration.TicketCode,
		"user_id":     registration.UserID,
	}
	if registration.CheckedInAt != nil {
		message["checked_in_at"] = registration.CheckedInAt.UnixMilli()
	}

	go func() {
		publishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := p.breaker.Execute(publishCtx, func() error {
			_, _, err := p.pubnub.Publish().
				Channel(channel).
				Message(message).
				Execute()
			return err
		})
		if err != nil {
			slog.Warn("check-in publish failed", "channel", channel, "error", err)
		}
	}()
}
