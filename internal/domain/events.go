package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Aggregate types for outbox events.
type AggregateType string

const (
	AggregateReservation AggregateType = "reservation"
	AggregateMatch       AggregateType = "match"
	AggregateUser        AggregateType = "user"
)

// Event types for outbox events.
type EventType string

const (
	EventReservationCreated   EventType = "created"
	EventReservationConfirmed EventType = "confirmed"
	EventReservationPaid      EventType = "paid"
	EventReservationCanceled  EventType = "canceled"

	EventMatchCreated    EventType = "created"
	EventMatchStarted    EventType = "started"
	EventMatchFinished   EventType = "finished"
	EventMatchCanceled   EventType = "canceled"
	EventMatchUncanceled EventType = "uncanceled"
	EventMatchExpired    EventType = "expired"
	EventPlayerJoined    EventType = "player_joined"
	EventPlayerLeft      EventType = "player_left"

	EventUserRegistered EventType = "registered"
)

// OutboxDraft is one event row written in the same transaction as the state
// change it describes. The poller publishes drafts to Kafka and marks them.
type OutboxDraft struct {
	ID            int64           `json:"-"`
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// ReservationEventPayload is the payload for reservation lifecycle events.
type ReservationEventPayload struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	CourtID       uuid.UUID `json:"court_id"`
	UserID        uuid.UUID `json:"user_id"`
	StartAt       string    `json:"start_at"`
	EndAt         string    `json:"end_at"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
}

// NewReservationEvent builds a reservation lifecycle event draft.
func NewReservationEvent(eventType EventType, r *Reservation) OutboxDraft {
	payload, _ := json.Marshal(ReservationEventPayload{
		ReservationID: r.ID,
		CourtID:       r.CourtID,
		UserID:        r.UserID,
		StartAt:       r.StartAt.Format("2006-01-02T15:04:05"),
		EndAt:         r.EndAt.Format("2006-01-02T15:04:05"),
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateReservation,
		AggregateID:   r.ID.String(),
		EventType:     eventType,
		PartitionKey:  r.CourtID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// MatchEventPayload is the payload for match lifecycle events.
type MatchEventPayload struct {
	MatchID     uuid.UUID  `json:"match_id"`
	CourtID     uuid.UUID  `json:"court_id"`
	OrganizerID uuid.UUID  `json:"organizer_id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	UserID      *uuid.UUID `json:"user_id,omitempty"` // join/leave events
}

// NewMatchEvent builds a match lifecycle event draft.
func NewMatchEvent(eventType EventType, m *Match) OutboxDraft {
	return newMatchEvent(eventType, m, nil)
}

// NewMatchPresenceEvent builds a join/leave event draft.
func NewMatchPresenceEvent(eventType EventType, m *Match, userID uuid.UUID) OutboxDraft {
	return newMatchEvent(eventType, m, &userID)
}

func newMatchEvent(eventType EventType, m *Match, userID *uuid.UUID) OutboxDraft {
	payload, _ := json.Marshal(MatchEventPayload{
		MatchID:     m.ID,
		CourtID:     m.CourtID,
		OrganizerID: m.OrganizerID,
		Title:       m.Title,
		Date:        m.Date.Format("2006-01-02T15:04:05"),
		Status:      m.Status,
		UserID:      userID,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateMatch,
		AggregateID:   m.ID.String(),
		EventType:     eventType,
		PartitionKey:  m.CourtID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewUserRegisteredEvent builds a user lifecycle event draft.
func NewUserRegisteredEvent(userID uuid.UUID, name, role string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{
		"user_id": userID.String(),
		"name":    name,
		"role":    role,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventUserRegistered,
		PartitionKey:  userID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
