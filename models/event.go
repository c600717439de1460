package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder units. "No reminders" keeps the original app's playful label.
const (
	ReminderDaysBefore  = "Days before"
	ReminderHoursBefore = "Hours before"
	ReminderWeeksBefore = "Weeks before"
	ReminderNone        = "No reminders, I ❤️ FOMO"
)

// Reminder describes when to nudge the user before an event.
type Reminder struct {
	Value  int    `bson:"value" json:"value"`
	Type   string `bson:"type" json:"type"`
	Text   string `bson:"text" json:"text"`
	IsSent bool   `bson:"isSent" json:"isSent"`
}

// DefaultReminder is "1 day before", unsent.
func DefaultReminder() Reminder {
	return Reminder{Value: 1, Type: ReminderDaysBefore, Text: "1 day before"}
}

// Lead returns how far before the event the reminder fires, or false for
// the no-reminder unit.
func (r Reminder) Lead() (time.Duration, bool) {
	v := r.Value
	if v < 1 {
		v = 1
	}
	switch r.Type {
	case ReminderDaysBefore:
		return time.Duration(v) * 24 * time.Hour, true
	case ReminderHoursBefore:
		return time.Duration(v) * time.Hour, true
	case ReminderWeeksBefore:
		return time.Duration(v) * 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// SingleDayDetails is the inline detail block of a single-day event.
type SingleDayDetails struct {
	EventTime   string   `bson:"eventTime" json:"eventTime"`
	Location    string   `bson:"location" json:"location"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Reminder    Reminder `bson:"reminder" json:"reminder"`
}

// DayEvent is one day's entry inside a multi-day event.
type DayEvent struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date             time.Time          `bson:"date" json:"date"`
	EventName        string             `bson:"eventName" json:"eventName"`
	EventTime        string             `bson:"eventTime" json:"eventTime"`
	Location         string             `bson:"location" json:"location"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	Reminder         Reminder           `bson:"reminder" json:"reminder"`
	DaySpecificImage []string           `bson:"daySpecificImage,omitempty" json:"daySpecificImage,omitempty"`
}

// Event is a calendar entry the user wants styled. Single-day and
// multi-day variants are mutually exclusive: Normalize clears the
// fields of whichever variant is not active before any write.
type Event struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	Title            string             `bson:"title" json:"title"`
	Occasion         string             `bson:"occasion" json:"occasion"`
	StartDate        time.Time          `bson:"startDate" json:"startDate"`
	EndDate          time.Time          `bson:"endDate" json:"endDate"`
	IsMultiDay       bool               `bson:"isMultiDay" json:"isMultiDay"`
	SingleDayDetails *SingleDayDetails  `bson:"singleDayDetails,omitempty" json:"singleDayDetails,omitempty"`
	DaySpecificData  []DayEvent         `bson:"daySpecificData,omitempty" json:"daySpecificData,omitempty"`
	IsStyled         bool               `bson:"isStyled" json:"isStyled"`
	GeneratedImages  []string           `bson:"generatedImages,omitempty" json:"generatedImages,omitempty"`
	Timezone         string             `bson:"timezone" json:"timezone"`
	ExpiresAt        time.Time          `bson:"expiresAt" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Normalize makes the document internally consistent before it is saved:
// single-day events collapse their date range and drop day entries,
// multi-day events drop the inline detail block, and the expiry used by
// the TTL index is re-derived as end date + one day.
func (e *Event) Normalize() error {
	if e.Timezone == "" {
		e.Timezone = "UTC"
	}
	if e.IsMultiDay {
		if len(e.DaySpecificData) == 0 {
			return fmt.Errorf("multi-day event must have at least one day entry")
		}
		e.SingleDayDetails = nil
	} else {
		e.EndDate = e.StartDate
		e.DaySpecificData = nil
		if e.SingleDayDetails == nil {
			e.SingleDayDetails = &SingleDayDetails{Reminder: DefaultReminder()}
		}
	}
	e.ExpiresAt = e.EndDate.Add(24 * time.Hour)
	return nil
}
