package email

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
)

// Notifier turns outbox events into delivered emails. Delivery runs behind a
// circuit breaker so a failing provider does not stall consumption.
type Notifier struct {
	db      repository.DBTX
	users   repository.UserRepository
	sender  Sender
	breaker *guard.CircuitBreaker
	logger  *slog.Logger
}

func NewNotifier(db repository.DBTX, users repository.UserRepository, sender Sender, breaker *guard.CircuitBreaker, logger *slog.Logger) *Notifier {
	return &Notifier{db: db, users: users, sender: sender, breaker: breaker, logger: logger}
}

// Handle renders and delivers the notification for a single outbox event.
// Events that do not notify, and events whose recipient no longer exists,
// are dropped silently.
func (n *Notifier) Handle(ctx context.Context, value []byte) error {
	var draft domain.OutboxDraft
	if err := json.Unmarshal(value, &draft); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	var (
		note        Notification
		ok          bool
		recipientID uuid.UUID
	)

	switch draft.AggregateType {
	case domain.AggregateReservation:
		note, ok = RenderReservation(draft.EventType, draft.Payload)
		if ok {
			var p domain.ReservationEventPayload
			if err := json.Unmarshal(draft.Payload, &p); err != nil {
				return fmt.Errorf("unmarshal reservation payload: %w", err)
			}
			recipientID = p.UserID
		}
	case domain.AggregateMatch:
		note, ok = RenderMatch(draft.EventType, draft.Payload)
		if ok {
			var p domain.MatchEventPayload
			if err := json.Unmarshal(draft.Payload, &p); err != nil {
				return fmt.Errorf("unmarshal match payload: %w", err)
			}
			recipientID = p.OrganizerID
		}
	}
	if !ok {
		return nil
	}

	if res := n.breaker.Check(ctx, "email"); !res.Allowed {
		n.logger.Warn("email channel circuit open; dropping notification",
			"event_id", draft.EventID, "event_type", draft.EventType)
		return nil
	}

	user, err := n.users.FindByID(ctx, n.db, recipientID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", recipientID, err)
	}
	if user == nil {
		n.logger.Warn("recipient no longer exists; dropping notification",
			"event_id", draft.EventID, "recipient_id", recipientID)
		return nil
	}

	if err := n.sender.Send(ctx, user.Email, note.Subject, note.Body); err != nil {
		n.breaker.RecordFailure("email")
		return fmt.Errorf("send notification: %w", err)
	}
	n.breaker.RecordSuccess("email")

	n.logger.Info("notification sent",
		"event_id", draft.EventID,
		"aggregate_type", draft.AggregateType,
		"event_type", draft.EventType,
		"recipient", user.Email)
	return nil
}
