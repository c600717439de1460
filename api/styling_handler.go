package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/stylist"
	"github.com/zuriwear/zuri-backend/utils"
)

// slotFields maps multipart field names to validator slot positions.
var slotFields = []string{"topwear", "bottomwear", "accessory", "footwear"}

// loadStylingContext fetches the profile and occasion-tagged wardrobe
// garments every styling request personalizes on.
func loadStylingContext(r *http.Request, occasion string) (models.BodyProfile, []models.GarmentRef, string, error) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		return models.BodyProfile{}, nil, "", err
	}

	var user models.User
	ctx := r.Context()
	if err := utils.GetCollection(config.DBName, "users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return models.BodyProfile{}, nil, "", err
	}

	garments, err := wardrobeSvc.GarmentsForOccasion(ctx, userID, occasion)
	if err != nil {
		return models.BodyProfile{}, nil, "", err
	}
	return user.BodyProfile, garments, userID.Hex(), nil
}

// StyleRecommenderHandler runs the full styling pipeline on up to four
// uploaded garment images
func StyleRecommenderHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Style Recommender API]")

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	occasion := r.FormValue("occasion")
	if occasion == "" {
		utils.RespondError(w, &logMessageBuilder, "Occasion is required", http.StatusBadRequest)
		return
	}
	description := r.FormValue("description")

	profile, garments, userID, err := loadStylingContext(r, occasion)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to load styling context: %v", err))
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Slot uploads go to S3 first so the validator can delete them on
	// rejection and the analyzer can reference the bad ones.
	var images [4]stylist.SlotImage
	provided := 0
	for i, field := range slotFields {
		data, mimeType, err := readFormFile(r, field)
		if err != nil {
			continue
		}
		key := fmt.Sprintf("uploads/%s/%d-%s", userID, time.Now().UnixNano(), uuid.NewString())
		if _, uploadErr := imageStore.UploadBytes(r.Context(), data, key, mimeType); uploadErr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to upload %s image: %v", field, uploadErr))
			key = ""
		}
		images[i] = stylist.SlotImage{Data: data, Key: key}
		provided++
	}
	if provided == 0 {
		utils.RespondError(w, &logMessageBuilder, "At least one garment image is required", http.StatusBadRequest)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Occasion=%q slots=%d wardrobe=%d", occasion, provided, len(garments)))

	resp, err := stylistSvc.Recommend(r.Context(), stylist.RecommendRequest{
		UserID:        userID,
		Occasion:      occasion,
		Description:   description,
		Images:        images,
		WardrobeItems: garments,
		Profile:       profile,
	})
	if err != nil {
		var invalid *stylist.ErrInvalidItems
		if errors.As(err, &invalid) {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Invalid fashion items: %s", invalid.Message))
			utils.RespondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":        "Invalid fashion items",
				"invalidItems": invalid.Message,
			})
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Styling failed: %v", err))
		utils.RespondError(w, nil, "Failed to generate recommendations", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Styling done: %d results", len(resp.Results)))
	utils.RespondJSON(w, http.StatusOK, resp)
}

// OccasionStylingHandler generates outfit images for an occasion with no
// uploads: wardrobe selection plus fresh generations
func OccasionStylingHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Occasion Styling API]")

	occasion := r.FormValue("occasion")
	if occasion == "" {
		utils.RespondError(w, &logMessageBuilder, "Occasion is required", http.StatusBadRequest)
		return
	}
	description := r.FormValue("description")

	profile, garments, userID, err := loadStylingContext(r, occasion)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to load styling context: %v", err))
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Occasion=%q wardrobe=%d", occasion, len(garments)))

	resp, err := stylistSvc.RecommendForOccasion(r.Context(), stylist.RecommendRequest{
		UserID:        userID,
		Occasion:      occasion,
		Description:   description,
		WardrobeItems: garments,
		Profile:       profile,
	})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Styling failed: %v", err))
		utils.RespondError(w, nil, "Failed to generate recommendations", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Styling done: %d results", len(resp.Results)))
	utils.RespondJSON(w, http.StatusOK, resp)
}
