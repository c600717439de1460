package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

func getOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  config.GoogleRedirectURL,
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleLoginHandler handles the login request by redirecting to Google
func GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Google Login API]")

	oauthConfig := getOauthConfig()
	// State should be randomized for security in production
	url := oauthConfig.AuthCodeURL("random-state")

	utils.AddToLogMessage(&logMessageBuilder, "Redirecting to Google Auth")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallbackHandler exchanges the code, finds or creates the local
// user by email and issues our token pair.
func GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Google Callback API]")

	state := r.FormValue("state")
	if state != "random-state" {
		utils.RespondError(w, &logMessageBuilder, "State invalid", http.StatusBadRequest)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		utils.RespondError(w, &logMessageBuilder, "Code not found", http.StatusBadRequest)
		return
	}

	oauthConfig := getOauthConfig()
	token, err := oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to exchange token: %v", err))
		utils.RespondError(w, nil, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to get user info: %v", err))
		utils.RespondError(w, nil, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to decode user info: %v", err))
		utils.RespondError(w, nil, "Failed to read user info", http.StatusInternalServerError)
		return
	}
	if info.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "Google account has no email", http.StatusBadRequest)
		return
	}
	info.Email = strings.ToLower(info.Email)

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = collection.FindOne(ctx, bson.M{"email": info.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			FullName:       info.Name,
			Email:          info.Email,
			ProfilePicture: info.Picture,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		res, insertErr := collection.InsertOne(ctx, user)
		if insertErr != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create user: %v", insertErr))
			utils.RespondError(w, nil, "Failed to create user", http.StatusInternalServerError)
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Created user via Google: %s", user.Email))
	} else if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
		utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		return
	}

	access, refresh, err := issueTokens(ctx, user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate tokens: %v", err))
		utils.RespondError(w, nil, "Failed to generate tokens", http.StatusInternalServerError)
		return
	}
	setAuthCookies(w, access, refresh)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Google login successful: %s", user.Email))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Login successful",
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}
