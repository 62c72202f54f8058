package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/muhiddin-ilhan/OkulixAppWebBackend/models"
)

// Tokens are HS256 and long lived by default (365 days), matching the
// catalog's kiosk-style clients. Override with JWT_EXPIRE_SECONDS.
const defaultExpireSeconds = 365 * 24 * 60 * 60

func secret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func expireSeconds() int64 {
	if v := os.Getenv("JWT_EXPIRE_SECONDS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultExpireSeconds
}

// GenerateToken issues a signed token carrying the user's identity claims.
func GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"ad":      user.Ad,
		"soyad":   user.Soyad,
		"exp":     time.Now().Add(time.Duration(expireSeconds()) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// TokenClaims is the decoded identity carried by a verified token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   string
}

// VerifyToken parses and validates a token string.
func VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	out := &TokenClaims{}
	out.UserID, _ = claims["user_id"].(string)
	out.Email, _ = claims["email"].(string)
	out.Role, _ = claims["role"].(string)
	if out.UserID == "" {
		return nil, errors.New("invalid token claims")
	}
	return out, nil
}
