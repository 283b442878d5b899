package email

import (
	"encoding/json"
	"fmt"

	"github.com/courtside/platform/internal/domain"
)

// Notification is a rendered message ready for a Sender.
type Notification struct {
	Subject string
	Body    string
}

// RenderReservation builds the notification for a reservation lifecycle
// event, or ok=false for event types that do not notify.
func RenderReservation(eventType domain.EventType, payload json.RawMessage) (Notification, bool) {
	var p domain.ReservationEventPayload
	if json.Unmarshal(payload, &p) != nil {
		return Notification{}, false
	}

	switch eventType {
	case domain.EventReservationCreated:
		return Notification{
			Subject: "Reservation received",
			Body: fmt.Sprintf("Your reservation for %s to %s was received and is pending confirmation.",
				p.StartAt, p.EndAt),
		}, true
	case domain.EventReservationConfirmed:
		return Notification{
			Subject: "Reservation confirmed",
			Body: fmt.Sprintf("Your reservation for %s to %s is confirmed. See you on the court.",
				p.StartAt, p.EndAt),
		}, true
	case domain.EventReservationCanceled:
		return Notification{
			Subject: "Reservation canceled",
			Body: fmt.Sprintf("Your reservation for %s to %s was canceled.",
				p.StartAt, p.EndAt),
		}, true
	}
	return Notification{}, false
}

// RenderMatch builds the notification for a match lifecycle event, or
// ok=false for event types that do not notify.
func RenderMatch(eventType domain.EventType, payload json.RawMessage) (Notification, bool) {
	var p domain.MatchEventPayload
	if json.Unmarshal(payload, &p) != nil {
		return Notification{}, false
	}

	switch eventType {
	case domain.EventMatchCanceled:
		return Notification{
			Subject: "Match canceled: " + p.Title,
			Body:    fmt.Sprintf("The match %q scheduled for %s was canceled by the organizer.", p.Title, p.Date),
		}, true
	case domain.EventMatchExpired:
		return Notification{
			Subject: "Match expired: " + p.Title,
			Body:    fmt.Sprintf("The match %q scheduled for %s did not reach its minimum player count and expired.", p.Title, p.Date),
		}, true
	case domain.EventMatchUncanceled:
		return Notification{
			Subject: "Match back on: " + p.Title,
			Body:    fmt.Sprintf("The match %q scheduled for %s was restored by the organizer.", p.Title, p.Date),
		}, true
	}
	return Notification{}, false
}
