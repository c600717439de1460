package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// AddEventHandler creates a calendar event
func AddEventHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Add Event API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if event.Title == "" || event.StartDate.IsZero() {
		utils.RespondError(w, &logMessageBuilder, "Title and start date are required", http.StatusBadRequest)
		return
	}

	event.ID = primitive.NilObjectID
	event.UserID = userID
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	for i := range event.DaySpecificData {
		if event.DaySpecificData[i].ID.IsZero() {
			event.DaySpecificData[i].ID = primitive.NewObjectID()
		}
	}
	if err := event.Normalize(); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.InsertOne(ctx, event)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create event: %v", err))
		utils.RespondError(w, nil, "Failed to create event", http.StatusInternalServerError)
		return
	}
	event.ID = res.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Event created: %s", event.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Event created",
		"event":   event,
	})
}

// GetEventsHandler lists the user's events, soonest first
func GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Events API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode events: %v", err))
		utils.RespondError(w, nil, "Failed to load events", http.StatusInternalServerError)
		return
	}

	presignEventImages(ctx, events)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d events", len(events)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// presignEventImages rewrites stored image keys to presigned URLs.
// External URLs pass through untouched.
func presignEventImages(ctx context.Context, events []models.Event) {
	for i := range events {
		events[i].GeneratedImages = utils.PresignImageURLs(ctx, events[i].GeneratedImages)
		for j := range events[i].DaySpecificData {
			day := &events[i].DaySpecificData[j]
			day.DaySpecificImage = utils.PresignImageURLs(ctx, day.DaySpecificImage)
		}
	}
}

// UpcomingEventsHandler lists events that have not ended yet
func UpcomingEventsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Upcoming Events API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "endDate": bson.M{"$gte": time.Now()}}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode events: %v", err))
		utils.RespondError(w, nil, "Failed to load events", http.StatusInternalServerError)
		return
	}

	presignEventImages(ctx, events)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d upcoming events", len(events)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// UpdateEventHandler replaces the mutable fields of an event
func UpdateEventHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Event API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(r.PathValue("eventId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid event ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existing models.Event
	if err := collection.FindOne(ctx, bson.M{"_id": eventID, "userId": userID}).Decode(&existing); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Event not found", http.StatusNotFound)
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	event.ID = eventID
	event.UserID = userID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now()
	for i := range event.DaySpecificData {
		if event.DaySpecificData[i].ID.IsZero() {
			event.DaySpecificData[i].ID = primitive.NewObjectID()
		}
	}
	if err := event.Normalize(); err != nil {
		utils.RespondError(w, &logMessageBuilder, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := collection.ReplaceOne(ctx, bson.M{"_id": eventID, "userId": userID}, event); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update event: %v", err))
		utils.RespondError(w, nil, "Failed to update event", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Event %s updated", eventID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Event updated",
		"event":   event,
	})
}

// AttachEventImagesRequest adds generated outfit image references to an
// event; with DayID set they attach to that day entry instead.
type AttachEventImagesRequest struct {
	DayID  string   `json:"dayId"`
	Images []string `json:"images"`
}

// AttachEventImagesHandler records styled outfit images on an event
func AttachEventImagesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Attach Event Images API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(r.PathValue("eventId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid event ID", http.StatusBadRequest)
		return
	}

	var req AttachEventImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Images) == 0 {
		utils.RespondError(w, &logMessageBuilder, "At least one image is required", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": eventID, "userId": userID}
	update := bson.M{
		"$push": bson.M{"generatedImages": bson.M{"$each": req.Images}},
		"$set":  bson.M{"isStyled": true, "updatedAt": time.Now()},
	}
	if req.DayID != "" {
		dayID, err := primitive.ObjectIDFromHex(req.DayID)
		if err != nil {
			utils.RespondError(w, &logMessageBuilder, "Invalid day ID", http.StatusBadRequest)
			return
		}
		filter["daySpecificData._id"] = dayID
		update = bson.M{
			"$push": bson.M{"daySpecificData.$.daySpecificImage": bson.M{"$each": req.Images}},
			"$set":  bson.M{"isStyled": true, "updatedAt": time.Now()},
		}
	}

	res, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to attach images: %v", err))
		utils.RespondError(w, nil, "Failed to attach images", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Event not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Attached %d images to event %s", len(req.Images), eventID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Images attached"})
}

// DeleteEventHandler removes an event
func DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Event API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	eventID, err := primitive.ObjectIDFromHex(r.PathValue("eventId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid event ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "events")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.DeleteOne(ctx, bson.M{"_id": eventID, "userId": userID})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete event: %v", err))
		utils.RespondError(w, nil, "Failed to delete event", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, &logMessageBuilder, "Event not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Event %s deleted", eventID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Event deleted"})
}
