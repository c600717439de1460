package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
	"github.com/zuriwear/zuri-backend/wardrobe"
)

// presignRefs fills ImageURL on each garment ref from its stored key.
func presignRefs(r *http.Request, refs []models.GarmentRef) []models.GarmentRef {
	for i := range refs {
		if refs[i].ImageURL != "" {
			continue
		}
		url, err := utils.GetPresignedURL(r.Context(), refs[i].ImageKey)
		if err != nil {
			url = refs[i].ImageKey
		}
		refs[i].ImageURL = url
	}
	return refs
}

// UploadWardrobeHandler ingests a batch of wardrobe images
func UploadWardrobeHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe Upload API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	files, err := readFormFiles(r, "images")
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error reading uploaded files", http.StatusBadRequest)
		return
	}
	if len(files) == 0 {
		utils.RespondError(w, &logMessageBuilder, "At least one image is required", http.StatusBadRequest)
		return
	}

	result := wardrobeSvc.IngestBatch(r.Context(), userID, files)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Batch done: processed=%d skipped=%d total=%d",
		result.Processed, result.Skipped, result.Total))
	utils.RespondJSON(w, http.StatusOK, result)
}

// UploadByCategoryHandler ingests images expected to belong to one category.
// Images whose detected garments do not match come back as mismatches so
// the client can confirm them via force-upload.
func UploadByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe Upload By Category API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}
	category := r.FormValue("category")
	if category == "" {
		utils.RespondError(w, &logMessageBuilder, "Category is required", http.StatusBadRequest)
		return
	}
	files, err := readFormFiles(r, "images")
	if err != nil || len(files) == 0 {
		utils.RespondError(w, &logMessageBuilder, "At least one image is required", http.StatusBadRequest)
		return
	}

	result, mismatched := wardrobeSvc.IngestByCategory(r.Context(), userID, category, files)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Category %q: processed=%d skipped=%d mismatched=%d",
		category, result.Processed, result.Skipped, len(mismatched)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"result":     result,
		"mismatched": mismatched,
	})
}

// ForceUploadHandler keeps previously mismatched images
func ForceUploadHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe Force Upload API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Entries []wardrobe.ForceEntry `json:"entries"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Entries) == 0 {
		utils.RespondError(w, &logMessageBuilder, "At least one entry is required", http.StatusBadRequest)
		return
	}

	result := wardrobeSvc.ForceUpload(r.Context(), userID, req.Entries)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Force upload: processed=%d skipped=%d total=%d",
		result.Processed, result.Skipped, result.Total))
	utils.RespondJSON(w, http.StatusOK, result)
}

// CategoryCountsHandler returns garment counts per category
func CategoryCountsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe Category Counts API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	counts, err := wardrobeSvc.CategoryCounts(r.Context(), userID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to count garments: %v", err))
		utils.RespondError(w, nil, "Failed to count garments", http.StatusInternalServerError)
		return
	}

	utils.RespondJSON(w, http.StatusOK, counts)
}

// WardrobeByCategoryHandler lists garments of one category, newest first.
// The special category "Recent" returns everything.
func WardrobeByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe By Category API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	category := r.PathValue("category")
	if category == "" {
		category = "Recent"
	}

	refs, err := wardrobeSvc.GarmentsByCategory(r.Context(), userID, category)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to list garments: %v", err))
		utils.RespondError(w, nil, "Failed to list garments", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Category %q: %d garments", category, len(refs)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"garments": presignRefs(r, refs),
	})
}

// WardrobeFilterHandler lists garments matching comma-separated filters
func WardrobeFilterHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Wardrobe Filter API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	splitParam := func(name string) []string {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return nil
		}
		parts := strings.Split(raw, ",")
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	params := wardrobe.FilterParams{
		Categories: splitParam("category"),
		Colors:     splitParam("color"),
		Fabrics:    splitParam("fabric"),
		Occasions:  splitParam("occasion"),
		Seasons:    splitParam("season"),
	}

	refs, err := wardrobeSvc.Filter(r.Context(), userID, params)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to filter garments: %v", err))
		utils.RespondError(w, nil, "Failed to filter garments", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Filter matched %d garments", len(refs)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"garments": presignRefs(r, refs),
	})
}

// GarmentDetailsHandler returns one garment with its image
func GarmentDetailsHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Garment Details API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	garmentID, err := primitive.ObjectIDFromHex(r.PathValue("garmentId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid garment ID", http.StatusBadRequest)
		return
	}

	garment, image, err := wardrobeSvc.GarmentDetails(r.Context(), userID, garmentID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to load garment: %v", err))
		utils.RespondError(w, nil, "Failed to load garment", http.StatusInternalServerError)
		return
	}
	if garment == nil {
		utils.RespondError(w, &logMessageBuilder, "Garment not found", http.StatusNotFound)
		return
	}

	imageURL, err := utils.GetPresignedURL(r.Context(), image.ImageKey)
	if err != nil {
		imageURL = image.ImageKey
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"garment":  garment,
		"imageUrl": imageURL,
	})
}

// UpdateGarmentHandler applies a partial update to one garment
func UpdateGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Update Garment API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	garmentID, err := primitive.ObjectIDFromHex(r.PathValue("garmentId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid garment ID", http.StatusBadRequest)
		return
	}

	var upd wardrobe.GarmentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	garment, err := wardrobeSvc.UpdateGarment(r.Context(), userID, garmentID, upd)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update garment: %v", err))
		utils.RespondError(w, nil, "Failed to update garment: "+err.Error(), http.StatusBadRequest)
		return
	}
	if garment == nil {
		utils.RespondError(w, &logMessageBuilder, "Garment not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Garment %s updated", garmentID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Garment updated",
		"garment": garment,
	})
}

// DeleteGarmentHandler removes one garment
func DeleteGarmentHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Delete Garment API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	garmentID, err := primitive.ObjectIDFromHex(r.PathValue("garmentId"))
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid garment ID", http.StatusBadRequest)
		return
	}

	deleted, err := wardrobeSvc.DeleteGarment(r.Context(), userID, garmentID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to delete garment: %v", err))
		utils.RespondError(w, nil, "Failed to delete garment", http.StatusInternalServerError)
		return
	}
	if !deleted {
		utils.RespondError(w, &logMessageBuilder, "Garment not found", http.StatusNotFound)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Garment %s deleted", garmentID.Hex()))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Garment deleted"})
}
