package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zuriwear/zuri-backend/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware validates the access token and stores the user id in
// the request context. Tokens come from the Authorization header or
// the accessToken cookie.
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			http.Error(w, "Authorization token required", http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		userID, err := utils.UserIDFromToken(token)
		if err != nil {
			http.Error(w, "Invalid token claims", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}

// GetUserIDFromContext returns the authenticated user's object id.
func GetUserIDFromContext(ctx context.Context) (primitive.ObjectID, error) {
	hex, ok := ctx.Value(userIDKey).(string)
	if !ok || hex == "" {
		return primitive.NilObjectID, errors.New("user id not found in context")
	}
	return primitive.ObjectIDFromHex(hex)
}
