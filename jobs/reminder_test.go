package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zuriwear/zuri-backend/models"
)

func TestReminderDue(t *testing.T) {
	event := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	oneDay := models.Reminder{Value: 1, Type: models.ReminderDaysBefore}

	// Inside the window: fire time passed, event not yet started.
	assert.True(t, reminderDue(oneDay, event, event.Add(-12*time.Hour)))
	assert.True(t, reminderDue(oneDay, event, event.Add(-24*time.Hour)))

	// Before the window opens.
	assert.False(t, reminderDue(oneDay, event, event.Add(-25*time.Hour)))

	// Event already started.
	assert.False(t, reminderDue(oneDay, event, event))
	assert.False(t, reminderDue(oneDay, event, event.Add(time.Hour)))
}

func TestReminderDueUnits(t *testing.T) {
	event := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)

	hours := models.Reminder{Value: 3, Type: models.ReminderHoursBefore}
	assert.True(t, reminderDue(hours, event, event.Add(-2*time.Hour)))
	assert.False(t, reminderDue(hours, event, event.Add(-4*time.Hour)))

	weeks := models.Reminder{Value: 1, Type: models.ReminderWeeksBefore}
	assert.True(t, reminderDue(weeks, event, event.Add(-6*24*time.Hour)))
	assert.False(t, reminderDue(weeks, event, event.Add(-8*24*time.Hour)))
}

func TestReminderDueOptOut(t *testing.T) {
	event := time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)
	none := models.Reminder{Value: 1, Type: models.ReminderNone}

	assert.False(t, reminderDue(none, event, event.Add(-time.Hour)))
}
