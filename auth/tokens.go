package auth

import (
	"net/http"
	"time"

	"attira/globals"
	"attira/middleware"

	"github.com/golang-jwt/jwt/v5"
)

var tokenTTL = 12 * time.Hour

// SetTokenTTL overrides the default from config at startup.
func SetTokenTTL(hours int) {
	if hours > 0 {
		tokenTTL = time.Duration(hours) * time.Hour
	}
}

func generateToken(userID, email, role string) (string, error) {
	claims := &middleware.Claims{
		Email:  email,
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

func setAuthCookie(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
