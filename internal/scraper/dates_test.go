package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadlineISO(t *testing.T) {
	got := ParseDeadline("Closing date: 2026-03-15")
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParseDeadlineMonthName(t *testing.T) {
	got := ParseDeadline("Apply by March 15, 2026")
	require.NotNil(t, got)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
}

func TestParseDeadlineNoMatch(t *testing.T) {
	assert.Nil(t, ParseDeadline("open until filled"))
	assert.Nil(t, ParseDeadline(""))
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Now().UTC()

	today := parseRelativeDate("Just posted")
	require.NotNil(t, today)
	assert.WithinDuration(t, now, *today, time.Minute)

	yesterday := parseRelativeDate("Posted yesterday")
	require.NotNil(t, yesterday)
	assert.WithinDuration(t, now.AddDate(0, 0, -1), *yesterday, time.Minute)

	threeDays := parseRelativeDate("3 days ago")
	require.NotNil(t, threeDays)
	assert.WithinDuration(t, now.AddDate(0, 0, -3), *threeDays, time.Minute)

	assert.Nil(t, parseRelativeDate("sometime soon"))
}
