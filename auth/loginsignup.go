package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"attira/db"
	"attira/logger"
	"attira/mailer"
	"attira/middleware"
	"attira/models"
	"attira/mq"
	"attira/rdx"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const otpResendCooldown = 60 * time.Second

// isRetryOfUnverified reports whether a registration should overwrite the
// existing account instead of inserting a new one. Verified duplicates are
// rejected before this is consulted.
func isRetryOfUnverified(existing models.User) bool {
	return existing.UserID != "" && !existing.IsVerified
}

// Register creates an unverified account and mails a 6-digit OTP. An
// existing unverified account is overwritten so the user can retry; a
// verified one is a duplicate registration.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || len(input.Password) < 6 {
		utils.RespondError(w, http.StatusBadRequest, "Name, email and a password of at least 6 characters are required")
		return
	}

	var existing models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
	if err == nil && existing.IsVerified {
		utils.RespondError(w, http.StatusBadRequest, "Email is already registered")
		return
	}
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if rdx.Exists(ctx, "otp_cooldown:"+input.Email) {
		utils.RespondError(w, http.StatusTooManyRequests, "An OTP was sent recently, please wait before retrying")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	if isRetryOfUnverified(existing) {
		// retry of an unverified registration
		_, err = db.UserCollection.UpdateOne(ctx, bson.M{"email": input.Email}, bson.M{
			"$set": bson.M{"name": input.Name, "password": string(hashed), "updated_at": now},
		})
	} else {
		user := models.User{
			UserID:    "u" + utils.GenerateID(12),
			Name:      input.Name,
			Email:     input.Email,
			Password:  string(hashed),
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = db.UserCollection.InsertOne(ctx, user)
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := issueOTP(ctx, input.Email, "Verify your email",
		"Welcome! Your One-Time Password (OTP) for account verification is: %s. It is valid for 10 minutes."); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Email could not be sent")
		return
	}

	utils.RespondMessage(w, http.StatusOK, fmt.Sprintf("An OTP has been sent to %s", input.Email), nil)
}

// VerifyRegistration consumes the OTP, marks the account verified and logs
// the user in.
func VerifyRegistration(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !consumeOTP(ctx, input.Email, input.OTP) {
		utils.RespondError(w, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	var user models.User
	if err := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"email": input.Email},
		bson.M{"$set": bson.M{"is_verified": true, "updated_at": time.Now()}},
	).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	user.IsVerified = true

	sendTokenResponse(w, user, http.StatusOK)
}

// Login checks email+password for a verified account and sets the session
// cookie.
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

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil || !user.IsVerified {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials or user not verified")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if _, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	); err != nil {
		logger.L().Warn("failed to stamp last login", zap.String("user", user.UserID), zap.Error(err))
	}

	sendTokenResponse(w, user, http.StatusOK)
}

// Me returns the authenticated user's profile.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var user models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, user)
}

// Logout revokes the current token for its remaining lifetime and expires
// the cookie.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if c, err := r.Cookie(middleware.UserCookie); err == nil && c.Value != "" {
		if err := rdx.RevokeToken(r.Context(), c.Value, tokenTTL); err != nil {
			logger.L().Warn("failed to revoke token", zap.Error(err))
		}
	}
	clearAuthCookie(w, middleware.UserCookie)
	mq.Emit(r.Context(), mq.EventUserLoggedOut, "", utils.GetUserIDFromRequest(r))
	utils.RespondSuccess(w, http.StatusOK, utils.M{})
}

// sendTokenResponse issues a customer JWT, sets the cookie and returns
// {token, user} like the rest of the envelope surface.
func sendTokenResponse(w http.ResponseWriter, user models.User, statusCode int) {
	token, err := generateToken(user.UserID, user.Email, middleware.RoleUser)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	setAuthCookie(w, middleware.UserCookie, token)
	utils.RespondWithJSON(w, statusCode, utils.M{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// issueOTP creates an OTP record and mails it; format must contain one %s
// for the code.
func issueOTP(ctx context.Context, email, subject, format string) error {
	code := utils.GenerateDigitCode(6)
	otp := models.OTP{Email: email, Code: code, CreatedAt: time.Now()}
	if _, err := db.OTPCollection.InsertOne(ctx, otp); err != nil {
		return err
	}

	if err := mailer.Send(email, subject, fmt.Sprintf(format, code)); err != nil {
		// don't leave a dangling code the user never saw
		_, _ = db.OTPCollection.DeleteOne(ctx, bson.M{"email": email, "code": code})
		return err
	}

	if err := rdx.SetWithExpiry(ctx, "otp_cooldown:"+email, "1", otpResendCooldown); err != nil {
		logger.L().Warn("failed to set otp cooldown", zap.Error(err))
	}
	return nil
}

// consumeOTP validates and deletes a pending OTP record in one step.
func consumeOTP(ctx context.Context, email, code string) bool {
	if email == "" || code == "" {
		return false
	}
	res, err := db.OTPCollection.DeleteOne(ctx, bson.M{"email": email, "code": code})
	return err == nil && res.DeletedCount > 0
}
