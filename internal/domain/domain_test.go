package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("joao@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
}

func TestValidateClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "23:59", "7:15"} {
		assert.NoError(t, ValidateClock(ok), ok)
	}
	for _, bad := range []string{"24:00", "10:60", "9h30", "", "10"} {
		assert.Error(t, ValidateClock(bad), bad)
	}
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "arena-central", Slugify("Arena Central"))
	assert.Equal(t, "quadra-sao-joao", Slugify("Quadra São João"))
	assert.Equal(t, "gol-de-placa-fc", Slugify("  Gol de Placa FC!  "))
	assert.Equal(t, "a-b", Slugify("a---b"))
}

func TestParseLocalTime(t *testing.T) {
	t.Run("accepts common layouts", func(t *testing.T) {
		for _, in := range []string{
			"2026-01-01T10:00:00Z",
			"2026-01-01T10:00:00",
			"2026-01-01T10:00",
		} {
			got, err := ParseLocalTime(in)
			require.NoError(t, err, in)
			assert.Equal(t, time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC), got)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseLocalTime("yesterday")
		assert.Error(t, err)
	})
}

func TestReservationPrice(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("derives price from hourly rate", func(t *testing.T) {
		rate := int64(12_000) // R$120,00/h
		got := ReservationPrice(&rate, start, start.Add(90*time.Minute))
		require.NotNil(t, got)
		assert.Equal(t, int64(18_000), *got)
	})

	t.Run("nil when rate unknown", func(t *testing.T) {
		assert.Nil(t, ReservationPrice(nil, start, start.Add(time.Hour)))
	})
}

func TestMatchBlocks(t *testing.T) {
	m := &Match{Status: MatchScheduled}
	assert.True(t, m.Blocks())
	m.Status = MatchLive
	assert.True(t, m.Blocks())
	for _, s := range []string{MatchCanceled, MatchExpired, MatchFinished} {
		m.Status = s
		assert.False(t, m.Blocks(), s)
	}
}

func TestStatEventValidate(t *testing.T) {
	valid := StatEvent{UserID: uuid.New(), Type: StatGoal, Mode: StatModeOfficial, Delta: 1}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mut  func(*StatEvent)
	}{
		{"missing user", func(e *StatEvent) { e.UserID = uuid.Nil }},
		{"bad type", func(e *StatEvent) { e.Type = "rebound" }},
		{"bad mode", func(e *StatEvent) { e.Mode = "sorta" }},
		{"zero delta", func(e *StatEvent) { e.Delta = 0 }},
		{"big delta", func(e *StatEvent) { e.Delta = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mut(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestStatEventColumn(t *testing.T) {
	assert.Equal(t, "goals_official", StatEvent{Type: StatGoal, Mode: StatModeOfficial}.Column())
	assert.Equal(t, "assists_official", StatEvent{Type: StatAssist, Mode: StatModeOfficial}.Column())
	assert.Equal(t, "goals_unofficial", StatEvent{Type: StatGoal, Mode: StatModeUnofficial}.Column())
	assert.Equal(t, "assists_unofficial", StatEvent{Type: StatAssist, Mode: StatModeUnofficial}.Column())
}

func TestPublicUserOmitsEmail(t *testing.T) {
	u := &User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Role: RoleUser}
	pub := u.Public()
	assert.Equal(t, u.Name, pub.Name)
	assert.Equal(t, u.Role, pub.Role)
}
