package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// EmailSender matches utils.SendEmail; injected so the sweep is
// testable without SendGrid.
type EmailSender func(toName, toEmail, subject, textContent, htmlContent string) error

// ReminderSweeper scans events every minute and emails users whose
// reminders have come due. Each reminder carries its own isSent flag
// so a multi-day event can fire once per day entry.
type ReminderSweeper struct {
	DBName string
	Send   EmailSender
	Now    func() time.Time
}

func NewReminderSweeper(dbName string) *ReminderSweeper {
	return &ReminderSweeper{DBName: dbName, Send: utils.SendEmail, Now: time.Now}
}

// Start registers the per-minute sweep on the shared cron runner.
func (rs *ReminderSweeper) Start(c *cron.Cron) {
	_, err := c.AddFunc("* * * * *", func() {
		if err := rs.Sweep(context.Background()); err != nil {
			log.Printf("Reminder sweep error: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to schedule reminder sweep: %v", err)
	}
}

// Sweep sends all due, unsent reminders and marks them sent. An event
// whose email fails keeps its reminder unsent for the next sweep.
func (rs *ReminderSweeper) Sweep(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 50*time.Second)
	defer cancel()

	events := utils.GetCollection(rs.DBName, "events")
	users := utils.GetCollection(rs.DBName, "users")

	filter := bson.M{"$or": []bson.M{
		{"isMultiDay": false, "singleDayDetails.reminder.isSent": false},
		{"isMultiDay": true, "daySpecificData.reminder.isSent": false},
	}}
	cursor, err := events.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	now := rs.Now()
	checked := 0
	for cursor.Next(ctx) {
		var event models.Event
		if err := cursor.Decode(&event); err != nil {
			log.Printf("Failed to decode event: %v", err)
			continue
		}
		checked++

		var user models.User
		if err := users.FindOne(ctx, bson.M{"_id": event.UserID}).Decode(&user); err != nil {
			log.Printf("Reminder skipped, user %s not found: %v", event.UserID.Hex(), err)
			continue
		}

		if event.IsMultiDay {
			rs.sweepMultiDay(ctx, &event, user, now)
		} else {
			rs.sweepSingleDay(ctx, &event, user, now)
		}
	}
	if err := cursor.Err(); err != nil {
		return err
	}

	log.Printf("[%s] Checked %d events for due reminders.", now.Format(time.RFC3339), checked)
	return nil
}

func (rs *ReminderSweeper) sweepSingleDay(ctx context.Context, event *models.Event, user models.User, now time.Time) {
	if event.SingleDayDetails == nil || event.SingleDayDetails.Reminder.IsSent {
		return
	}
	if !reminderDue(event.SingleDayDetails.Reminder, event.StartDate, now) {
		return
	}
	if err := rs.sendReminder(user, event.Title, event.StartDate, event.SingleDayDetails.Location); err != nil {
		log.Printf("Failed to send reminder for event %s: %v", event.ID.Hex(), err)
		return
	}
	events := utils.GetCollection(rs.DBName, "events")
	_, err := events.UpdateOne(ctx,
		bson.M{"_id": event.ID},
		bson.M{"$set": bson.M{"singleDayDetails.reminder.isSent": true}},
	)
	if err != nil {
		log.Printf("Failed to mark reminder sent for event %s: %v", event.ID.Hex(), err)
	}
}

func (rs *ReminderSweeper) sweepMultiDay(ctx context.Context, event *models.Event, user models.User, now time.Time) {
	events := utils.GetCollection(rs.DBName, "events")
	for _, day := range event.DaySpecificData {
		if day.Reminder.IsSent || !reminderDue(day.Reminder, day.Date, now) {
			continue
		}
		title := day.EventName
		if title == "" {
			title = event.Title
		}
		if err := rs.sendReminder(user, title, day.Date, day.Location); err != nil {
			log.Printf("Failed to send reminder for event %s day %s: %v", event.ID.Hex(), day.ID.Hex(), err)
			continue
		}
		_, err := events.UpdateOne(ctx,
			bson.M{"_id": event.ID, "daySpecificData._id": day.ID},
			bson.M{"$set": bson.M{"daySpecificData.$.reminder.isSent": true}},
		)
		if err != nil {
			log.Printf("Failed to mark day reminder sent for event %s: %v", event.ID.Hex(), err)
		}
	}
}

// reminderDue reports whether the reminder's fire time has passed but
// the event itself has not.
func reminderDue(r models.Reminder, eventDate time.Time, now time.Time) bool {
	lead, ok := r.Lead()
	if !ok {
		return false
	}
	fireAt := eventDate.Add(-lead)
	return !now.Before(fireAt) && now.Before(eventDate)
}

func (rs *ReminderSweeper) sendReminder(user models.User, title string, date time.Time, location string) error {
	subject := fmt.Sprintf("Reminder: %s is coming up!", title)
	when := date.Format("Monday, January 2, 2006")
	text := fmt.Sprintf("Hi %s,\n\nYour event %q is coming up on %s.", user.FullName, title, when)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Your event <strong>%s</strong> is coming up on %s.</p>", user.FullName, title, when)
	if location != "" {
		text += fmt.Sprintf("\nLocation: %s", location)
		html += fmt.Sprintf("<p>Location: %s</p>", location)
	}
	text += "\n\nTime to plan your outfit!"
	html += "<p>Time to plan your outfit!</p>"
	return rs.Send(user.FullName, user.Email, subject, text, html)
}
