package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/stylist"
	"github.com/zuriwear/zuri-backend/utils"
)

// UpdateBodyProfileRequest is the manual body-profile payload.
type UpdateBodyProfileRequest struct {
	BodyShape string        `json:"bodyShape"`
	Undertone string        `json:"undertone"`
	Height    models.Height `json:"height"`
}

// GetBodyInfoHandler returns the user's body profile and analysis document
func GetBodyInfoHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Body Info API]")

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

	var info models.UserBodyInfo
	err = utils.GetCollection(config.DBName, "userbodyinfos").FindOne(ctx, bson.M{"userId": userID}).Decode(&info)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"profile": user.BodyProfile,
	}
	if err == nil {
		response["bodyInfo"] = info
	}
	utils.RespondJSON(w, http.StatusOK, response)
}

// UpdateBodyProfileHandler saves manually entered body attributes
func UpdateBodyProfileHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Body Profile API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateBodyProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.BodyShape = strings.ToLower(strings.TrimSpace(req.BodyShape))
	req.Undertone = strings.ToLower(strings.TrimSpace(req.Undertone))
	if req.BodyShape != "" && !models.ValidBodyShape(req.BodyShape) {
		utils.RespondError(w, &logMessageBuilder, "Invalid body shape", http.StatusBadRequest)
		return
	}
	if req.Undertone != "" && !models.ValidUndertone(req.Undertone) {
		utils.RespondError(w, &logMessageBuilder, "Invalid undertone", http.StatusBadRequest)
		return
	}

	profile := models.BodyProfile{
		BodyShape: req.BodyShape,
		Undertone: req.Undertone,
		Height:    req.Height,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = utils.GetCollection(config.DBName, "users").UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"userBodyInfo": profile, "updatedAt": time.Now()}},
	)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update profile: %v", err))
		utils.RespondError(w, nil, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Body profile updated")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Body profile updated",
		"profile": profile,
	})
}

// CheckFullBodyHandler classifies whether an uploaded photo shows a full body
func CheckFullBodyHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Check Full Body API]")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	data, _, err := readFormFile(r, "image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}

	isFullBody, err := stylistSvc.CheckFullBody(r.Context(), data)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Full body check failed: %v", err))
		utils.RespondError(w, nil, "Failed to analyze image", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("isFullBody=%t", isFullBody))
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"isFullBody": isFullBody})
}

// AnalyzeBodyPhotoHandler runs the vision analysis on a full-body photo and
// persists both the raw analysis and the normalized profile attributes
func AnalyzeBodyPhotoHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Analyze Body Photo API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	data, _, err := readFormFile(r, "image")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}

	analysis, err := stylistSvc.AnalyzeBodyPhoto(r.Context(), data)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Body analysis failed: %v", err))
		utils.RespondError(w, nil, "Failed to analyze body photo", http.StatusInternalServerError)
		return
	}

	bodyShape := stylist.NormalizeBodyShape(analysis.BodyShape.Classification)
	undertone := stylist.NormalizeUndertone(analysis.SkinTone.ToneCategory)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()

	_, err = utils.GetCollection(config.DBName, "userbodyinfos").UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"bodyShapeAnalysis": analysis, "updatedAt": now},
			"$setOnInsert": bson.M{"userId": userID, "createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save analysis: %v", err))
		utils.RespondError(w, nil, "Failed to save analysis", http.StatusInternalServerError)
		return
	}

	set := bson.M{"updatedAt": now}
	if bodyShape != "" {
		set["userBodyInfo.bodyShape"] = bodyShape
	}
	if undertone != "" {
		set["userBodyInfo.undertone"] = undertone
	}
	if _, err := utils.GetCollection(config.DBName, "users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update user profile: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Body analysis saved: shape=%s undertone=%s", bodyShape, undertone))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"analysis":  analysis,
		"bodyShape": bodyShape,
		"undertone": undertone,
	})
}

// OutfitSuggestionsHandler generates per-category outfit suggestions and
// search keyword groups from the saved body profile
func OutfitSuggestionsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Outfit Suggestions API]")

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

	suggestions, err := stylistSvc.GenerateOutfitSuggestions(r.Context(), user.BodyProfile)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Suggestion generation failed: %v", err))
		utils.RespondError(w, nil, "Failed to generate outfit suggestions", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	_, err = utils.GetCollection(config.DBName, "userbodyinfos").UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$set":         bson.M{"outfitSuggestions": suggestions, "updatedAt": now},
			"$setOnInsert": bson.M{"userId": userID, "createdAt": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save suggestions: %v", err))
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Generated %d keyword groups", len(suggestions.Keywords)))
	utils.RespondJSON(w, http.StatusOK, suggestions)
}
