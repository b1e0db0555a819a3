package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	got, err := ParseDay("2025-12-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDay("2025-12-01T18:30:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Day())

	_, err = ParseDay("01/12/2025")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseDateInput(t *testing.T) {
	in, err := ParseDateInput("quick", 7, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, QuickDates(7), in)

	in, err = ParseDateInput("preset", 0, "", "", "hornbill")
	require.NoError(t, err)
	assert.Equal(t, PresetDates("hornbill"), in)

	in, err = ParseDateInput("custom", 0, "2025-11-10", "", "")
	require.NoError(t, err)
	require.NotNil(t, in.Start)
	assert.Nil(t, in.End, "a missing end is left for validation to report")

	_, err = ParseDateInput("custom", 0, "soon", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseDateInput("lunar", 0, "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
