package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/utils"
)

func authedRequest(t *testing.T, userID primitive.ObjectID, attach func(*http.Request, string)) *httptest.ResponseRecorder {
	t.Helper()

	token, err := utils.GenerateToken(userID.Hex())
	require.NoError(t, err)

	var gotID primitive.ObjectID
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	attach(req, token)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code == http.StatusOK {
		assert.Equal(t, userID, gotID)
	}
	return rec
}

func TestAuthMiddlewareBearerHeader(t *testing.T) {
	config.JWTSecret = "test-secret"
	userID := primitive.NewObjectID()

	rec := authedRequest(t, userID, func(r *http.Request, token string) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareCookie(t *testing.T) {
	config.JWTSecret = "test-secret"
	userID := primitive.NewObjectID()

	rec := authedRequest(t, userID, func(r *http.Request, token string) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	config.JWTSecret = "test-secret"

	handler := AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserIDFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetUserIDFromContext(req.Context())
	assert.Error(t, err)
}
