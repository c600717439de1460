package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
	"github.com/zuriwear/zuri-backend/wardrobe"
)

// UploadLookHandler stores a full-body outfit photo. The photo is first
// classified; non-full-body uploads are rejected. Accepted looks also
// feed the wardrobe ingestion as a side effect.
func UploadLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Upload Look API]")

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

	check := stylistSvc.ClassifyLook(r.Context(), data, r.FormValue("userQuery"))
	if !check.FullBody {
		utils.RespondError(w, &logMessageBuilder, "Image must show a full-body look", http.StatusBadRequest)
		return
	}

	key := fmt.Sprintf("looks/%s/%d-%s", userID.Hex(), time.Now().UnixNano(), uuid.NewString())
	if _, err := imageStore.UploadBytes(r.Context(), data, key, mimeType); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to upload image: %v", err))
		utils.RespondError(w, nil, "Failed to upload image", http.StatusInternalServerError)
		return
	}

	title := check.Title
	if title == "" {
		title = "Your Uploaded Look"
	}
	look := models.UploadedLook{
		UserID:    userID,
		ImageKey:  key,
		Title:     title,
		CreatedAt: time.Now(),
	}

	collection := utils.GetCollection(config.DBName, "uploadedlooks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.InsertOne(ctx, look)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, &logMessageBuilder, "This look was already uploaded", http.StatusConflict)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save look: %v", err))
		utils.RespondError(w, nil, "Failed to save look", http.StatusInternalServerError)
		return
	}
	look.ID = res.InsertedID.(primitive.ObjectID)

	// Garments join the wardrobe in the background, but only when the
	// classifier saw a fashion item; a failure there does not affect
	// the upload.
	if check.FashionItem {
		go func(file wardrobe.UploadFile) {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, _, err := wardrobeSvc.Ingest(bg, userID, file); err != nil {
				log.Printf("Look-to-wardrobe ingestion failed for user %s: %v", userID.Hex(), err)
			}
		}(wardrobe.UploadFile{Filename: "look", MimeType: mimeType, Data: data})
	}

	imageURL, err := utils.GetPresignedURL(r.Context(), key)
	if err != nil {
		imageURL = key
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Look saved: %s", look.ID.Hex()))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Look uploaded",
		"look":     look,
		"imageUrl": imageURL,
	})
}

// ListLooksHandler lists the user's looks, newest first
func ListLooksHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[List Looks API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "uploadedlooks")
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

	looks := []models.UploadedLook{}
	if err := cursor.All(ctx, &looks); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode looks: %v", err))
		utils.RespondError(w, nil, "Failed to load looks", http.StatusInternalServerError)
		return
	}

	type lookWithURL struct {
		models.UploadedLook
		ImageURL string `json:"imageUrl"`
	}
	out := make([]lookWithURL, 0, len(looks))
	for _, l := range looks {
		url, err := utils.GetPresignedURL(r.Context(), l.ImageKey)
		if err != nil {
			url = l.ImageKey
		}
		out = append(out, lookWithURL{UploadedLook: l, ImageURL: url})
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d looks", len(out)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(out),
		"looks": out,
	})
}

// GetLookHandler returns one look with a fresh presigned URL
func GetLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Look API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lookID, err := primitive.ObjectIDFromHex(r.PathValue("lookId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid look ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "uploadedlooks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var look models.UploadedLook
	if err := collection.FindOne(ctx, bson.M{"_id": lookID, "userId": userID}).Decode(&look); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Look not found", http.StatusNotFound)
		return
	}

	imageURL, err := utils.GetPresignedURL(r.Context(), look.ImageKey)
	if err != nil {
		imageURL = look.ImageKey
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Look %s", lookID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"look":     look,
		"imageUrl": imageURL,
	})
}

// DeleteLookHandler removes a look and its hosted image
func DeleteLookHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Look API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lookID, err := primitive.ObjectIDFromHex(r.PathValue("lookId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid look ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "uploadedlooks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var look models.UploadedLook
	err = collection.FindOneAndDelete(ctx, bson.M{"_id": lookID, "userId": userID}).Decode(&look)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Look not found", http.StatusNotFound)
		return
	}

	if look.ImageKey != "" {
		if err := utils.DeleteFileFromS3(r.Context(), look.ImageKey); err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete hosted image %s: %v", look.ImageKey, err))
		}
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Look %s deleted", lookID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Look deleted"})
}
