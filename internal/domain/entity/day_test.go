package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOfDay(t *testing.T) {
	in := time.Date(2024, 1, 1, 17, 42, 13, 999, time.Local)
	got := StartOfDay(in)
	assert.True(t, got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, StartOfDay(got).Equal(got))
}

func TestNextDay(t *testing.T) {
	day := time.Date(2024, 12, 31, 0, 0, 0, 0, time.Local)
	assert.True(t, NextDay(day).Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)))
}

func TestParseDay(t *testing.T) {
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)

	got, err := ParseDay("day", "2024-01-02")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.Local).Format(time.RFC3339)
	got, err = ParseDay("day", ts)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))

	for _, bad := range []string{"", "02.01.2024", "2024-13-01", "yesterday"} {
		_, err := ParseDay("day", bad)
		assert.ErrorIs(t, err, ErrValidation, bad)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "day", ve.Errors[0].Field)
	}
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "2024-01-02", FormatDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local)))
}
