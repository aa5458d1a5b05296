package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationIsActiveAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("confirmed block is active", func(t *testing.T) {
		r := Reservation{Status: ReservationStatusConfirmed}
		assert.True(t, r.IsActiveAt(now))
	})

	t.Run("cancelled block never blocks", func(t *testing.T) {
		r := Reservation{Status: ReservationStatusCancelled}
		assert.False(t, r.IsActiveAt(now))
	})

	t.Run("hold stops blocking the moment it expires", func(t *testing.T) {
		expiresAt := now
		r := Reservation{Status: ReservationStatusHold, HoldExpiresAt: &expiresAt}
		assert.False(t, r.IsActiveAt(now))

		later := now.Add(time.Second)
		r.HoldExpiresAt = &later
		assert.True(t, r.IsActiveAt(now))
	})

	t.Run("hold without expiry does not expire", func(t *testing.T) {
		r := Reservation{Status: ReservationStatusHold}
		assert.True(t, r.IsActiveAt(now))
	})
}

func TestReservationNights(t *testing.T) {
	r := Reservation{
		CheckIn:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 5, r.Nights())

	oneNight := Reservation{
		CheckIn:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 1, oneNight.Nights())
}
