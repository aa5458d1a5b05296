package services

import (
	"context"
	"log"
	"time"

	"darkom-server/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SweepProperty flips every expired hold on one property to cancelled.
// Best-effort and idempotent: active-block queries apply the same
// expiry predicate themselves, so a skipped or failed pass never lets
// an expired hold block a booking.
func SweepProperty(db *gorm.DB, propertyID uint, now time.Time) {
	res := db.Model(&models.Reservation{}).
		Where("property_id = ? AND status = ? AND hold_expires_at IS NOT NULL AND hold_expires_at <= ?",
			propertyID, models.ReservationStatusHold, now).
		Updates(map[string]interface{}{
			"status":              models.ReservationStatusCancelled,
			"cancellation_reason": models.CancellationHoldExpired,
			"cancelled_at":        now,
		})
	if res.Error != nil {
		log.Printf("janitor: failed to expire holds for property %d: %v", propertyID, res.Error)
	}
}

// ExpireAllStaleHolds runs the janitor across every property. Used by
// the maintenance endpoint and fired after successful bookings. The
// Redis lock only deduplicates concurrent passes; when Redis is down
// the pass runs anyway, redundant runs being harmless.
func ExpireAllStaleHolds(db *gorm.DB, cache *redis.Client, now time.Time) (int64, error) {
	if cache != nil {
		ok, err := cache.SetNX(context.Background(), "janitor:expire-holds", "1", 30*time.Second).Result()
		if err == nil && !ok {
			return 0, nil
		}
	}

	res := db.Model(&models.Reservation{}).
		Where("status = ? AND hold_expires_at IS NOT NULL AND hold_expires_at <= ?",
			models.ReservationStatusHold, now).
		Updates(map[string]interface{}{
			"status":              models.ReservationStatusCancelled,
			"cancellation_reason": models.CancellationHoldExpired,
			"cancelled_at":        now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
