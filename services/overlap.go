package services

import (
	"time"

	"darkom-server/models"
)

// RangesOverlap reports whether two half-open date ranges [aIn, aOut)
// and [bIn, bOut) share at least one night. Touching endpoints (one
// stay's checkout day equals the next stay's check-in day) do not
// overlap, which is what allows back-to-back bookings.
func RangesOverlap(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && bIn.Before(aOut)
}

// FindFirstOverlap returns the first block, in ascending check-in order,
// whose range intersects the candidate range, or nil. Blocks are
// expected pre-sorted by check-in, as loaded by activeBlocks.
func FindFirstOverlap(blocks []models.Reservation, candidateIn, candidateOut time.Time) *models.Reservation {
	for i := range blocks {
		if RangesOverlap(blocks[i].CheckIn, blocks[i].CheckOut, candidateIn, candidateOut) {
			return &blocks[i]
		}
	}
	return nil
}
