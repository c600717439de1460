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
	"github.com/zuriwear/zuri-backend/utils"
)

// ToggleWishlistHandler inserts the product, or removes it when it is
// already saved. The (userId, productId) unique index arbitrates races.
func ToggleWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Toggle Wishlist API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var item models.WishlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if item.ProductID == "" {
		utils.RespondError(w, &logMessageBuilder, "productId is required", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "wishlists")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"userId": userID, "productId": item.ProductID}
	res, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount > 0 {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Removed product %s", item.ProductID))
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"message":    "Removed from wishlist",
			"wishlisted": false,
		})
		return
	}

	item.UserID = userID
	item.CreatedAt = time.Now()
	if _, err := collection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race against a concurrent toggle; treat as saved.
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
				"message":    "Added to wishlist",
				"wishlisted": true,
			})
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to save item: %v", err))
		utils.RespondError(w, nil, "Failed to save item", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Added product %s", item.ProductID))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Added to wishlist",
		"wishlisted": true,
		"item":       item,
	})
}

// GetWishlistHandler lists the user's saved products, newest first
func GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Get Wishlist API]")

	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "wishlists")
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

	items := []models.WishlistItem{}
	if err := cursor.All(ctx, &items); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode items: %v", err))
		utils.RespondError(w, nil, "Failed to load wishlist", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("%d wishlist items", len(items)))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"items": items,
	})
}
