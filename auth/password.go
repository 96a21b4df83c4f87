package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"attira/db"
	"attira/models"
	"attira/rdx"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// ForgotPassword mails a reset OTP to a known account.
func ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "There is no user with that email")
		return
	}

	if rdx.Exists(ctx, "otp_cooldown:"+input.Email) {
		utils.RespondError(w, http.StatusTooManyRequests, "An OTP was sent recently, please wait before retrying")
		return
	}

	if err := issueOTP(ctx, input.Email, "Password reset OTP",
		"Your password reset OTP is: %s. It is valid for 10 minutes."); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Email could not be sent")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "OTP sent", nil)
}

// ResetPassword consumes the reset OTP, stores the new password hash and
// logs the user in.
func ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if len(input.Password) < 6 {
		utils.RespondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if !consumeOTP(ctx, input.Email, input.OTP) {
		utils.RespondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"email": input.Email},
		bson.M{"$set": bson.M{"password": string(hashed), "updated_at": time.Now()}},
	).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}

	sendTokenResponse(w, user, http.StatusOK)
}
