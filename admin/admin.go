package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"attira/db"
	"attira/globals"
	"attira/middleware"
	"attira/models"
	"attira/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

var tokenTTL = 12 * time.Hour

// SetTokenTTL overrides the default from config at startup.
func SetTokenTTL(hours int) {
	if hours > 0 {
		tokenTTL = time.Duration(hours) * time.Hour
	}
}

// Login authenticates against the admins collection and sets the separate
// adminToken cookie.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Please provide an email and password")
		return
	}

	var adm models.Admin
	if err := db.AdminCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&adm); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(adm.Password), []byte(input.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sendTokenResponse(w, adm, http.StatusOK)
}

// Me returns the authenticated admin.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	adminID := utils.GetAdminIDFromRequest(r)

	var adm models.Admin
	if err := db.AdminCollection.FindOne(ctx, bson.M{"adminid": adminID}).Decode(&adm); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Admin not found")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, adm)
}

// Logout expires the admin cookie.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondSuccess(w, http.StatusOK, utils.M{})
}

// Seed creates the first admin account. Refused once any admin exists.
func Seed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := db.AdminCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if count > 0 {
		utils.RespondError(w, http.StatusBadRequest, "Admin already exists")
		return
	}

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || len(input.Password) < 6 {
		utils.RespondError(w, http.StatusBadRequest, "Email and a password of at least 6 characters are required")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	adm := models.Admin{
		AdminID:   "a" + utils.GenerateID(12),
		Email:     input.Email,
		Password:  string(hashed),
		Role:      middleware.RoleAdmin,
		CreatedAt: time.Now(),
	}
	if _, err := db.AdminCollection.InsertOne(ctx, adm); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	sendTokenResponse(w, adm, http.StatusCreated)
}

func sendTokenResponse(w http.ResponseWriter, adm models.Admin, statusCode int) {
	claims := &middleware.Claims{
		Email:  adm.Email,
		UserID: adm.AdminID,
		Role:   middleware.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AdminCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondWithJSON(w, statusCode, utils.M{
		"success": true,
		"token":   token,
		"data":    adm,
	})
}
