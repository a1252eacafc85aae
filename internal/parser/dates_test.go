package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseBusinessDate_String tests dd/mm/yyyy strings with and without time.
func TestParseBusinessDate_String(t *testing.T) {
	want := time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC)

	got := ParseBusinessDate("15/03/2024 10:30:00")
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	got = ParseBusinessDate("15/03/2024 10:30")
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	got = ParseBusinessDate("15/03/2024")
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

// TestParseBusinessDate_Serial tests numeric spreadsheet serials. 45366 is
// 2024-03-15 on the 1899-12-30 epoch.
func TestParseBusinessDate_Serial(t *testing.T) {
	want := time.Date(2024, time.March, 15, 3, 0, 0, 0, time.UTC)

	got := ParseBusinessDate(45366.4375) // 2024-03-15 10:30 wall clock
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	got = ParseBusinessDate(45366)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	// Numeric strings are serials, the shape excelize yields in raw mode.
	got = ParseBusinessDate("45366.4375")
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

// TestParseBusinessDate_SerialAndStringAgree verifies the two encodings of
// the same demand date normalize to the same instant.
func TestParseBusinessDate_SerialAndStringAgree(t *testing.T) {
	fromString := ParseBusinessDate("15/03/2024 10:00")
	fromSerial := ParseBusinessDate("45366.41667")

	require.NotNil(t, fromString)
	require.NotNil(t, fromSerial)
	assert.Equal(t, *fromString, *fromSerial)
}

// TestParseBusinessDate_Time tests native time values.
func TestParseBusinessDate_Time(t *testing.T) {
	// 01:00 UTC is still the previous calendar day in UTC-3.
	instant := time.Date(2024, time.March, 15, 1, 0, 0, 0, time.UTC)
	got := ParseBusinessDate(instant)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.March, 14, 3, 0, 0, 0, time.UTC), *got)

	got = ParseBusinessDate(&instant)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, time.March, 14, 3, 0, 0, 0, time.UTC), *got)
}

// TestParseBusinessDate_Unknown tests that unrecognized shapes yield nil.
func TestParseBusinessDate_Unknown(t *testing.T) {
	assert.Nil(t, ParseBusinessDate(nil))
	assert.Nil(t, ParseBusinessDate(""))
	assert.Nil(t, ParseBusinessDate("   "))
	assert.Nil(t, ParseBusinessDate("not a date"))
	assert.Nil(t, ParseBusinessDate("2024-03-15")) // ISO is not a source format
	assert.Nil(t, ParseBusinessDate(-1.0))
	assert.Nil(t, ParseBusinessDate(0))
	assert.Nil(t, ParseBusinessDate((*time.Time)(nil)))
	assert.Nil(t, ParseBusinessDate([]byte("45366")))
}
