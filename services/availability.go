package services

import (
	"time"

	"darkom-server/models"
	"darkom-server/utils"

	"gorm.io/gorm"
)

// BlockedRange is one raw active block as shown to clients. The list is
// deliberately not merged; the calendar UI renders each block with its
// own status and hold expiry.
type BlockedRange struct {
	CheckInDate   string     `json:"checkInDate"`
	CheckOutDate  string     `json:"checkOutDate"`
	Status        string     `json:"status"`
	HoldExpiresAt *time.Time `json:"holdExpiresAt"`
}

// AvailabilitySnapshot is the derived view of a property's reservation
// state, recomputed from the active blocks on every read.
type AvailabilitySnapshot struct {
	IsReserved           bool           `json:"isReserved"`
	ReservedUntil        *string        `json:"reservedUntil"`
	NextAvailableCheckIn *string        `json:"nextAvailableCheckIn"`
	BlockedRanges        []BlockedRange `json:"blockedRanges"`
}

// activeBlocks loads every block for the property that still occupies
// its range at "now" and has not fully elapsed, sorted by check-in. The
// expiry predicate is applied in SQL so correctness never depends on
// the janitor having run.
func activeBlocks(db *gorm.DB, propertyID uint, now time.Time) ([]models.Reservation, error) {
	today := utils.DateOnly(now)

	var blocks []models.Reservation
	err := db.
		Where("property_id = ? AND status <> ?", propertyID, models.ReservationStatusCancelled).
		Where("status <> ? OR hold_expires_at IS NULL OR hold_expires_at > ?", models.ReservationStatusHold, now).
		Where("check_out >= ?", today).
		Order("check_in ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// buildSnapshot folds the active blocks into the reserved-through
// frontier anchored at today. Starting from today, any block that
// covers the frontier day or starts on the day right after it extends
// the frontier to its last night; contiguous and overlapping blocks
// merge into one continuous reserved window. Future blocks detached
// from that window leave the property "immediately available" but still
// appear in BlockedRanges and still conflict at booking time.
func buildSnapshot(blocks []models.Reservation, now time.Time) *AvailabilitySnapshot {
	today := utils.DateOnly(now)

	snapshot := &AvailabilitySnapshot{BlockedRanges: make([]BlockedRange, 0, len(blocks))}
	for _, b := range blocks {
		snapshot.BlockedRanges = append(snapshot.BlockedRanges, BlockedRange{
			CheckInDate:   utils.FormatDate(b.CheckIn),
			CheckOutDate:  utils.FormatDate(b.CheckOut),
			Status:        b.Status,
			HoldExpiresAt: b.HoldExpiresAt,
		})
	}

	frontier := today
	reserved := false
	for extended := true; extended; {
		extended = false
		for _, b := range blocks {
			lastNight := b.CheckOut.AddDate(0, 0, -1)
			if lastNight.Before(frontier) || b.CheckIn.After(frontier.AddDate(0, 0, 1)) {
				continue
			}
			if !reserved {
				reserved = true
				extended = true
			}
			if lastNight.After(frontier) {
				frontier = lastNight
				extended = true
			}
		}
	}

	if reserved {
		snapshot.IsReserved = true
		reservedUntil := utils.FormatDate(frontier)
		nextCheckIn := utils.FormatDate(frontier.AddDate(0, 0, 1))
		snapshot.ReservedUntil = &reservedUntil
		snapshot.NextAvailableCheckIn = &nextCheckIn
	}

	return snapshot
}
