package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func TestRangesOverlap(t *testing.T) {
	t.Run("partial overlap detected", func(t *testing.T) {
		assert.True(t, RangesOverlap(
			day(t, "2025-06-10"), day(t, "2025-06-15"),
			day(t, "2025-06-13"), day(t, "2025-06-18"),
		))
	})

	t.Run("contained range overlaps", func(t *testing.T) {
		assert.True(t, RangesOverlap(
			day(t, "2025-06-10"), day(t, "2025-06-20"),
			day(t, "2025-06-12"), day(t, "2025-06-14"),
		))
	})

	t.Run("identical ranges overlap", func(t *testing.T) {
		assert.True(t, RangesOverlap(
			day(t, "2025-06-10"), day(t, "2025-06-15"),
			day(t, "2025-06-10"), day(t, "2025-06-15"),
		))
	})

	t.Run("touching endpoints do not overlap", func(t *testing.T) {
		// Checkout day equals the next check-in day: back-to-back.
		assert.False(t, RangesOverlap(
			day(t, "2025-06-10"), day(t, "2025-06-15"),
			day(t, "2025-06-15"), day(t, "2025-06-18"),
		))
		assert.False(t, RangesOverlap(
			day(t, "2025-06-15"), day(t, "2025-06-18"),
			day(t, "2025-06-10"), day(t, "2025-06-15"),
		))
	})

	t.Run("disjoint ranges do not overlap", func(t *testing.T) {
		assert.False(t, RangesOverlap(
			day(t, "2025-06-01"), day(t, "2025-06-05"),
			day(t, "2025-06-20"), day(t, "2025-06-25"),
		))
	})

	t.Run("symmetric in its arguments", func(t *testing.T) {
		aIn, aOut := day(t, "2025-06-10"), day(t, "2025-06-15")
		bIn, bOut := day(t, "2025-06-14"), day(t, "2025-06-20")
		assert.Equal(t,
			RangesOverlap(aIn, aOut, bIn, bOut),
			RangesOverlap(bIn, bOut, aIn, aOut),
		)
	})
}

func TestFindFirstOverlap(t *testing.T) {
	db := newTestDB(t)
	host := seedHost(t, db)
	property := seedProperty(t, db, host.ID)

	seedBlock(t, db, property.ID, "confirmed", "2025-06-05", "2025-06-08", nil)
	seedBlock(t, db, property.ID, "confirmed", "2025-06-10", "2025-06-15", nil)
	seedBlock(t, db, property.ID, "confirmed", "2025-06-14", "2025-06-20", nil)

	now := day(t, "2025-06-01")
	blocks, err := activeBlocks(db, property.ID, now)
	assert.NoError(t, err)
	assert.Len(t, blocks, 3)

	t.Run("returns earliest conflicting block", func(t *testing.T) {
		blocked := FindFirstOverlap(blocks, day(t, "2025-06-12"), day(t, "2025-06-16"))
		assert.NotNil(t, blocked)
		assert.Equal(t, "2025-06-10", blocked.CheckIn.Format("2006-01-02"))
	})

	t.Run("nil when candidate slots between blocks", func(t *testing.T) {
		blocked := FindFirstOverlap(blocks, day(t, "2025-06-08"), day(t, "2025-06-10"))
		assert.Nil(t, blocked)
	})
}
