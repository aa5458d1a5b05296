package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-06-10")
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-10", FormatDate(parsed))

	_, err = ParseDate("10/06/2025")
	assert.Error(t, err)

	_, err = ParseDate("2025-06-10T00:00:00Z")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	instant := time.Date(2025, 6, 10, 23, 45, 12, 300, time.UTC)
	truncated := DateOnly(instant)
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), truncated)
}
