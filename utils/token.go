package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zuriwear/zuri-backend/config"
)

const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// GenerateToken generates a short-lived access JWT for the user
func GenerateToken(userID string) (string, error) {
	secret := []byte(config.JWTSecret)
	if len(secret) == 0 {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// GenerateRefreshToken generates a long-lived refresh JWT. The token is
// also stored on the user document so it can be revoked on logout.
func GenerateRefreshToken(userID string) (string, error) {
	secret := []byte(config.JWTRefreshSecret)
	if len(secret) == 0 {
		return "", fmt.Errorf("JWT_REFRESH_SECRET is not set")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(RefreshTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseWithSecret(tokenString string, secret []byte) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
}

// ValidateToken parses and validates an access token
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return parseWithSecret(tokenString, []byte(config.JWTSecret))
}

// ValidateRefreshToken parses and validates a refresh token
func ValidateRefreshToken(tokenString string) (*jwt.Token, error) {
	return parseWithSecret(tokenString, []byte(config.JWTRefreshSecret))
}

// UserIDFromToken extracts the user_id claim from a validated token.
func UserIDFromToken(token *jwt.Token) (string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim missing")
	}
	return userID, nil
}
