package middleware

import (
	"context"
	"fmt"
	"net/http"

	"attira/globals"
	"attira/rdx"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims shared by both credential domains. Role distinguishes a
// customer token from an admin token.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	UserCookie  = "token"
	AdminCookie = "adminToken"
)

// tokenFromRequest prefers the named cookie, falling back to a Bearer
// header so API clients without a cookie jar still work.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	return ""
}

func parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Authenticate guards customer routes. It validates the customer token,
// rejects revoked or admin tokens, and stores the user id in the context.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := tokenFromRequest(r, UserCookie)
		if tokenString == "" {
			http.Error(w, "Not authorized to access this route", http.StatusUnauthorized)
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil || claims.Role != RoleUser {
			http.Error(w, "Not authorized to access this route", http.StatusUnauthorized)
			return
		}

		if rdx.IsTokenRevoked(r.Context(), tokenString) {
			http.Error(w, "Not authorized to access this route", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		next(w, r.WithContext(ctx), ps)
	}
}

// AuthenticateAdmin guards admin routes via the separate adminToken cookie.
func AuthenticateAdmin(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		tokenString := tokenFromRequest(r, AdminCookie)
		if tokenString == "" {
			http.Error(w, "Not authorized to access admin routes", http.StatusUnauthorized)
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil || claims.Role != RoleAdmin {
			http.Error(w, "Not authorized to access admin routes", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), globals.AdminIDKey, claims.UserID)
		next(w, r.WithContext(ctx), ps)
	}
}

// ValidateJWT parses a raw token string, used where a handler needs claims
// beyond the context user id.
func ValidateJWT(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return parseToken(tokenString)
}
