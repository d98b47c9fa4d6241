package util

import (
	"errors"
	"fmt"
	"time"

	"instaclone-backend/config"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken issues a signed token carrying userID.
func GenerateToken(userID string) (string, error) {
	ttl := config.AppConfig.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken returns the user ID of a valid token.
func ValidateToken(tokenString string) (string, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return "", err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.New("invalid user id claim")
	}
	return userID, nil
}

// TokenExpiry returns when a valid token stops being accepted.
func TokenExpiry(tokenString string) (time.Time, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, errors.New("missing exp claim")
	}
	return time.Unix(int64(exp), 0), nil
}

// RefreshToken issues a new token for the holder of a valid one.
func RefreshToken(tokenString string) (string, error) {
	userID, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return GenerateToken(userID)
}

func parseClaims(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
