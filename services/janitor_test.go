package services

import (
	"testing"
	"time"

	"darkom-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepProperty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db := newTestDB(t)
	host := seedHost(t, db)
	property := seedProperty(t, db, host.ID)

	expired := now.Add(-time.Minute)
	live := now.Add(10 * time.Minute)

	stale := seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-10", "2025-06-12", &expired)
	fresh := seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-14", "2025-06-16", &live)
	confirmed := seedBlock(t, db, property.ID, models.ReservationStatusConfirmed, "2025-06-20", "2025-06-22", nil)

	SweepProperty(db, property.ID, now)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, stale.ID).Error)
	assert.Equal(t, models.ReservationStatusCancelled, reloaded.Status)
	assert.Equal(t, models.CancellationHoldExpired, reloaded.CancellationReason)
	assert.NotNil(t, reloaded.CancelledAt)

	reloaded = models.Reservation{}
	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, models.ReservationStatusHold, reloaded.Status)

	reloaded = models.Reservation{}
	require.NoError(t, db.First(&reloaded, confirmed.ID).Error)
	assert.Equal(t, models.ReservationStatusConfirmed, reloaded.Status)
}

func TestSweepPropertyScopedToProperty(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db := newTestDB(t)
	host := seedHost(t, db)
	property := seedProperty(t, db, host.ID)

	other := &models.Property{Ref: "villa-agadir-02", Title: "Villa Océan", RentalKind: models.RentalKindShortStay, HostID: host.ID}
	require.NoError(t, db.Create(other).Error)

	expired := now.Add(-time.Minute)
	seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-10", "2025-06-12", &expired)
	untouched := seedBlock(t, db, other.ID, models.ReservationStatusHold, "2025-06-10", "2025-06-12", &expired)

	SweepProperty(db, property.ID, now)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, untouched.ID).Error)
	assert.Equal(t, models.ReservationStatusHold, reloaded.Status)
}

func TestExpireAllStaleHolds(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	db := newTestDB(t)
	host := seedHost(t, db)
	property := seedProperty(t, db, host.ID)

	expired := now.Add(-time.Minute)
	live := now.Add(10 * time.Minute)

	seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-10", "2025-06-12", &expired)
	seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-14", "2025-06-16", &expired)
	seedBlock(t, db, property.ID, models.ReservationStatusHold, "2025-06-18", "2025-06-20", &live)

	// nil cache: the dedup lock is skipped and the pass runs directly.
	count, err := ExpireAllStaleHolds(db, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = ExpireAllStaleHolds(db, nil, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
