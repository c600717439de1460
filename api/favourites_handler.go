package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// SaveFavouriteHandler stores an inspiration image with its tags
func SaveFavouriteHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Save Favourite API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	data, mimeType, err := readFormFile(r, "image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("favourites/%s/%d-%s", userID.Hex(), time.Now().UnixNano(), uuid.NewString())
	if _, err := imageStore.UploadBytes(r.Context(), data, key, mimeType); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to upload image: %v", err))
		utils.RespondError(w, nil, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	favourite := models.SavedFavourite{
		UserID:      userID,
		ImageKey:    key,
		Tag:         r.FormValue("tag"),
		Occasion:    r.FormValue("occasion"),
		Description: r.FormValue("description"),
		CreatedAt:   time.Now(),
	}

	collection := utils.GetCollection(config.DBName, "favourites")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.InsertOne(ctx, favourite)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save favourite: %v", err))
		utils.RespondError(w, nil, "Failed to save favourite", http.StatusInternalServerError)
		return
	}
	favourite.ID = res.InsertedID.(primitive.ObjectID)

	imageURL, err := utils.GetPresignedURL(r.Context(), key)
	if err != nil {
		imageURL = key
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Favourite saved: %s", favourite.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Favourite saved",
		"favourite": favourite,
		"imageUrl":  imageURL,
	})
}

// ListFavouritesHandler lists the user's favourites, newest first
func ListFavouritesHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Favourites API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "favourites")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	favourites := []models.SavedFavourite{}
	if err := cursor.All(ctx, &favourites); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode favourites: %v", err))
		utils.RespondError(w, nil, "Failed to load favourites", http.StatusInternalServerError)
		return
	}

	type favouriteWithURL struct {
		models.SavedFavourite
		ImageURL string `json:"imageUrl"`
	}
	out := make([]favouriteWithURL, 0, len(favourites))
	for _, f := range favourites {
		url, err := utils.GetPresignedURL(r.Context(), f.ImageKey)
		if err != nil {
			url = f.ImageKey
		}
		out = append(out, favouriteWithURL{SavedFavourite: f, ImageURL: url})
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d favourites", len(out)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(out),
		"favourites": out,
	})
}

// DeleteFavouriteHandler removes a favourite and its hosted image
func DeleteFavouriteHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Favourite API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	favID, err := primitive.ObjectIDFromHex(r.PathValue("favouriteId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid favourite ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "favourites")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var favourite models.SavedFavourite
	err = collection.FindOneAndDelete(ctx, bson.M{"_id": favID, "userId": userID}).Decode(&favourite)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Favourite not found", http.StatusNotFound)
		return
	}

	if favourite.ImageKey != "" {
		if err := utils.DeleteFileFromS3(r.Context(), favourite.ImageKey); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete hosted image %s: %v", favourite.ImageKey, err))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Favourite %s deleted", favID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Favourite deleted"})
}
