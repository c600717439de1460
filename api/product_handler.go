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

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// ProductSearchRequest carries explicit keyword groups. When empty, the
// saved outfit-suggestion keywords are used instead.
type ProductSearchRequest struct {
	Keywords [][]string `json:"keywords"`
}

// ProductSearchHandler runs the shopping search for keyword groups
func ProductSearchHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Product Search API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ProductSearchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if len(req.Keywords) == 0 {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var info models.UserBodyInfo
		err := utils.GetCollection(config.DBName, "userbodyinfos").FindOne(ctx, bson.M{"userId": userID}).Decode(&info)
		if err == mongo.ErrNoDocuments || (err == nil && (info.OutfitSuggestions == nil || len(info.OutfitSuggestions.Keywords) == 0)) {
			utils.RespondError(w, &logMessageBuilder, "No keywords provided and no saved outfit suggestions", http.StatusBadRequest)
			return
		}
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
			return
		}
		req.Keywords = info.OutfitSuggestions.Keywords
		utils.AddToLogMessage(&logMessageBuilder, "Using saved outfit-suggestion keywords")
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Searching %d keyword groups", len(req.Keywords)))

	// The search walks groups sequentially with fixed delays; give it
	// room beyond the per-call timeout.
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	results := searchClient.Search(ctx, req.Keywords)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Search returned %d products", len(results)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(results),
		"products": results,
	})
}
