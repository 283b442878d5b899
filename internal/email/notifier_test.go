package email

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/platform/internal/domain"
	"github.com/courtside/platform/internal/guard"
	"github.com/courtside/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (s *stubUserRepo) Create(_ context.Context, _ repository.DBTX, _ *domain.User) error {
	return nil
}

func (s *stubUserRepo) FindByEmail(_ context.Context, _ repository.DBTX, _ string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.User, error) {
	return s.users[id], nil
}

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(_ context.Context, to, _, _ string) error {
	r.sent = append(r.sent, to)
	return nil
}

func newTestNotifier(users *stubUserRepo, sender Sender) *Notifier {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewNotifier(nil, users, sender, guard.NewCircuitBreaker(5, 30*time.Second), logger)
}

func reservationEvent(t *testing.T, eventType domain.EventType, userID uuid.UUID) []byte {
	t.Helper()
	payload, err := json.Marshal(domain.ReservationEventPayload{
		ReservationID: uuid.New(),
		CourtID:       uuid.New(),
		UserID:        userID,
		StartAt:       "2026-09-01T10:00:00",
		EndAt:         "2026-09-01T11:00:00",
		Status:        domain.ReservationConfirmed,
		PaymentStatus: domain.PaymentUnpaid,
	})
	require.NoError(t, err)

	value, err := json.Marshal(domain.OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: domain.AggregateReservation,
		EventType:     eventType,
		Payload:       payload,
		OccurredAt:    time.Now(),
	})
	require.NoError(t, err)
	return value
}

func TestNotifier_SendsToRecipient(t *testing.T) {
	userID := uuid.New()
	users := &stubUserRepo{users: map[uuid.UUID]*domain.User{
		userID: {ID: userID, Email: "player@example.com"},
	}}
	sender := &recordingSender{}
	n := newTestNotifier(users, sender)

	err := n.Handle(context.Background(), reservationEvent(t, domain.EventReservationConfirmed, userID))
	require.NoError(t, err)
	assert.Equal(t, []string{"player@example.com"}, sender.sent)
}

func TestNotifier_DropsEventForDeletedRecipient(t *testing.T) {
	users := &stubUserRepo{users: map[uuid.UUID]*domain.User{}}
	sender := &recordingSender{}
	n := newTestNotifier(users, sender)

	err := n.Handle(context.Background(), reservationEvent(t, domain.EventReservationConfirmed, uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestNotifier_IgnoresNonNotifyingEvents(t *testing.T) {
	users := &stubUserRepo{users: map[uuid.UUID]*domain.User{}}
	sender := &recordingSender{}
	n := newTestNotifier(users, sender)

	err := n.Handle(context.Background(), reservationEvent(t, domain.EventReservationPaid, uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
