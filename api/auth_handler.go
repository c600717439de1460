package api

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/zuriwear/zuri-backend/config"
	"github.com/zuriwear/zuri-backend/models"
	"github.com/zuriwear/zuri-backend/utils"
)

// SignupRequest represents the payload for user registration
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the payload for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents the payload for token refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest represents the payload for forgot password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the payload for resetting password
type ResetPasswordRequest struct {
	Email        string `json:"email"`
	RecoveryCode string `json:"recoveryCode"`
	NewPassword  string `json:"newPassword"`
}

const recoveryCodeTTL = 15 * time.Minute

func generateRecoveryCode() (string, error) {
	var code strings.Builder
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate recovery code: %w", err)
		}
		code.WriteString(n.String())
	}
	return code.String(), nil
}

func setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(utils.AccessTokenTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(utils.RefreshTokenTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			MaxAge:   -1,
		})
	}
}

// issueTokens generates the token pair and persists the refresh token.
func issueTokens(ctx context.Context, userID primitive.ObjectID) (access, refresh string, err error) {
	access, err = utils.GenerateToken(userID.Hex())
	if err != nil {
		return "", "", err
	}
	refresh, err = utils.GenerateRefreshToken(userID.Hex())
	if err != nil {
		return "", "", err
	}
	collection := utils.GetCollection(config.DBName, "users")
	_, err = collection.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"refreshToken": refresh, "updatedAt": time.Now()}})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// SignupHandler handles user registration
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Signup API]")

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.FullName == "" || req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Full name, email and password are required", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var existingUser models.User
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existingUser)
	if err == nil {
		utils.RespondError(w, &logMessageBuilder, "User with this email already exists", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error checking user: %v", err))
		utils.RespondError(w, nil, "Database error checking user", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to hash password: %v", err))
		utils.RespondError(w, nil, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	newUser := models.User{
		FullName:  req.FullName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}

	res, err := collection.InsertOne(ctx, newUser)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, &logMessageBuilder, "User with this email already exists", http.StatusConflict)
			return
		}
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to create user: %v", err))
		utils.RespondError(w, nil, "Failed to create user", http.StatusInternalServerError)
		return
	}
	newUser.ID = res.InsertedID.(primitive.ObjectID)

	access, refresh, err := issueTokens(ctx, newUser.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate tokens: %v", err))
		utils.RespondError(w, nil, "Failed to generate tokens", http.StatusInternalServerError)
		return
	}
	setAuthCookies(w, access, refresh)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("User registered: %s", newUser.Email))
	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "User registered successfully",
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         newUser,
	})
}

// LoginHandler handles user login
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Login API]")

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "Email and password are required", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		} else {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Database error: %v", err))
			utils.RespondError(w, nil, "Database error", http.StatusInternalServerError)
		}
		return
	}

	if user.Password == "" {
		utils.RespondError(w, &logMessageBuilder, "This account uses Google sign-in", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	access, refresh, err := issueTokens(ctx, user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate tokens: %v", err))
		utils.RespondError(w, nil, "Failed to generate tokens", http.StatusInternalServerError)
		return
	}
	setAuthCookies(w, access, refresh)

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Login successful: %s", user.Email))
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Login successful",
		"accessToken":  access,
		"refreshToken": refresh,
		"user":         user,
	})
}

// RefreshTokenHandler rotates the token pair from a valid refresh token
func RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Refresh Token API]")

	var req RefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.RefreshToken == "" {
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			req.RefreshToken = cookie.Value
		}
	}
	if req.RefreshToken == "" {
		utils.RespondError(w, &logMessageBuilder, "Refresh token required", http.StatusUnauthorized)
		return
	}

	token, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}
	userIDHex, err := utils.UserIDFromToken(token)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid token claims", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid token claims", http.StatusUnauthorized)
		return
	}

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusUnauthorized)
		return
	}
	// Rotation: only the most recently issued refresh token is accepted.
	if user.RefreshToken != req.RefreshToken {
		utils.RespondError(w, &logMessageBuilder, "Refresh token has been revoked", http.StatusUnauthorized)
		return
	}

	access, refresh, err := issueTokens(ctx, user.ID)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to generate tokens: %v", err))
		utils.RespondError(w, nil, "Failed to generate tokens", http.StatusInternalServerError)
		return
	}
	setAuthCookies(w, access, refresh)

	utils.AddToLogMessage(&logMessageBuilder, "Tokens refreshed")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

// userIDFromRefreshCookie recovers the user ID from a valid refresh
// cookie. Returns the zero ObjectID when the cookie is absent or invalid.
func userIDFromRefreshCookie(r *http.Request) primitive.ObjectID {
	cookie, err := r.Cookie("refreshToken")
	if err != nil {
		return primitive.NilObjectID
	}
	token, err := utils.ValidateRefreshToken(cookie.Value)
	if err != nil {
		return primitive.NilObjectID
	}
	userIDHex, err := utils.UserIDFromToken(token)
	if err != nil {
		return primitive.NilObjectID
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return primitive.NilObjectID
	}
	return userID
}

// LogoutHandler clears the cookies and revokes the refresh token
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Logout API]")

	// The route is public so a client with an expired access token can
	// still log out; the refresh cookie identifies the user instead.
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		userID = userIDFromRefreshCookie(r)
	}
	if !userID.IsZero() {
		collection := utils.GetCollection(config.DBName, "users")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := collection.UpdateOne(ctx, bson.M{"_id": userID},
			bson.M{"$unset": bson.M{"refreshToken": ""}})
		if err != nil {
			utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to revoke refresh token: %v", err))
		}
	}

	clearAuthCookies(w)
	utils.AddToLogMessage(&logMessageBuilder, "Logged out")
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// ForgotPasswordHandler emails the user a recovery code
func ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Forgot Password API]")

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "Email is required", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	code, err := generateRecoveryCode()
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, err.Error())
		utils.RespondError(w, nil, "Failed to generate recovery code", http.StatusInternalServerError)
		return
	}
	_, err = collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"recoveryCode":          code,
		"recoveryCodeExpiresAt": time.Now().Add(recoveryCodeTTL),
	}})
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to store recovery code: %v", err))
		utils.RespondError(w, nil, "Failed to generate recovery code", http.StatusInternalServerError)
		return
	}

	emailErr := utils.SendEmail(user.FullName, user.Email, "Your password recovery code",
		fmt.Sprintf("Your recovery code is: %s. It expires in 15 minutes.", code),
		fmt.Sprintf("<p>Your recovery code is: <strong>%s</strong></p><p>It expires in 15 minutes.</p>", code))
	if emailErr != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to send email: %v", emailErr))
		utils.RespondError(w, nil, "Failed to send recovery email", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Recovery code sent")
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Recovery code sent to your email.",
	})
}

// ResetPasswordHandler resets the password with a valid recovery code
func ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Reset Password API]")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.RecoveryCode == "" || req.NewPassword == "" {
		utils.RespondError(w, &logMessageBuilder, "Email, recovery code and new password are required", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := collection.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user); err != nil {
		utils.RespondError(w, &logMessageBuilder, "User not found", http.StatusNotFound)
		return
	}

	if user.RecoveryCode == "" || user.RecoveryCode != req.RecoveryCode {
		utils.RespondError(w, &logMessageBuilder, "Invalid recovery code", http.StatusUnauthorized)
		return
	}
	if time.Now().After(user.RecoveryCodeExpiresAt) {
		utils.RespondError(w, &logMessageBuilder, "Recovery code has expired", http.StatusUnauthorized)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to hash password: %v", err))
		utils.RespondError(w, nil, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	update := bson.M{
		"$set":   bson.M{"password": string(hashedPassword), "updatedAt": time.Now()},
		"$unset": bson.M{"recoveryCode": "", "recoveryCodeExpiresAt": "", "refreshToken": ""},
	}
	if _, err := collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Failed to update password: %v", err))
		utils.RespondError(w, nil, "Failed to update password", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Password reset successfully")
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully. Please login with your new password.",
	})
}
