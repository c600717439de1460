package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// GetProfileHandler returns the authenticated user's account
func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Profile API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := utils.GetCollection(config.DBName, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	// Stored keys get a presigned URL; external URLs pass through.
	if user.ProfilePicture != "" && !strings.HasPrefix(user.ProfilePicture, "http") {
		if url, err := utils.GetPresignedURL(r.Context(), user.ProfilePicture); err == nil {
			user.ProfilePicture = url
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateProfileHandler updates the display name and profile picture
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Profile API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if fullName := strings.TrimSpace(r.FormValue("fullName")); fullName != "" {
		set["fullName"] = fullName
	}

	if data, mimeType, err := readFormFile(r, "profilePicture"); err == nil {
		key := fmt.Sprintf("profiles/%s/%d-%s", userID.Hex(), time.Now().UnixNano(), uuid.NewString())
		if _, uploadErr := imageStore.UploadBytes(r.Context(), data, key, mimeType); uploadErr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to upload profile picture: %v", uploadErr))
			utils.RespondError(w, nil, "Failed to upload profile picture", http.StatusInternalServerError)
			return
		}
		set["profilePicture"] = key
	}

	if len(set) == 1 {
		utils.RespondError(w, &logMessageBuilder, "Nothing to update", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := utils.GetCollection(config.DBName, "users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update profile: %v", err))
		utils.RespondError(w, nil, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Profile updated")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Profile updated"})
}
