package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSingleDay(t *testing.T) {
	start := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	e := Event{
		Title:           "Dinner",
		StartDate:       start,
		EndDate:         start.Add(72 * time.Hour),
		DaySpecificData: []DayEvent{{EventName: "stray"}},
	}

	require.NoError(t, e.Normalize())

	assert.Equal(t, start, e.EndDate)
	assert.Nil(t, e.DaySpecificData)
	require.NotNil(t, e.SingleDayDetails)
	assert.Equal(t, DefaultReminder(), e.SingleDayDetails.Reminder)
	assert.Equal(t, "UTC", e.Timezone)
	assert.Equal(t, start.Add(24*time.Hour), e.ExpiresAt)
}

func TestNormalizeSingleDayKeepsDetails(t *testing.T) {
	e := Event{
		Title:            "Brunch",
		StartDate:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		SingleDayDetails: &SingleDayDetails{Location: "Cafe", Reminder: Reminder{Value: 2, Type: ReminderHoursBefore}},
	}

	require.NoError(t, e.Normalize())
	assert.Equal(t, "Cafe", e.SingleDayDetails.Location)
	assert.Equal(t, 2, e.SingleDayDetails.Reminder.Value)
}

func TestNormalizeMultiDay(t *testing.T) {
	start := time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	e := Event{
		Title:            "Wedding",
		StartDate:        start,
		EndDate:          end,
		IsMultiDay:       true,
		Timezone:         "Asia/Kolkata",
		SingleDayDetails: &SingleDayDetails{Location: "stray"},
		DaySpecificData: []DayEvent{
			{Date: start, EventName: "Mehendi"},
			{Date: end, EventName: "Reception"},
		},
	}

	require.NoError(t, e.Normalize())

	assert.Nil(t, e.SingleDayDetails)
	assert.Len(t, e.DaySpecificData, 2)
	assert.Equal(t, "Asia/Kolkata", e.Timezone)
	assert.Equal(t, end.Add(24*time.Hour), e.ExpiresAt)
}

func TestNormalizeMultiDayWithoutDays(t *testing.T) {
	e := Event{Title: "Trip", IsMultiDay: true}
	assert.Error(t, e.Normalize())
}

func TestReminderLead(t *testing.T) {
	d, ok := Reminder{Value: 3, Type: ReminderDaysBefore}.Lead()
	assert.True(t, ok)
	assert.Equal(t, 72*time.Hour, d)

	d, ok = Reminder{Value: 5, Type: ReminderHoursBefore}.Lead()
	assert.True(t, ok)
	assert.Equal(t, 5*time.Hour, d)

	d, ok = Reminder{Value: 2, Type: ReminderWeeksBefore}.Lead()
	assert.True(t, ok)
	assert.Equal(t, 14*24*time.Hour, d)

	// A zero value still means one unit.
	d, ok = Reminder{Value: 0, Type: ReminderDaysBefore}.Lead()
	assert.True(t, ok)
	assert.Equal(t, 24*time.Hour, d)

	_, ok = Reminder{Value: 1, Type: ReminderNone}.Lead()
	assert.False(t, ok)
}
