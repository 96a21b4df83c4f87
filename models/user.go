package models

import "time"

// User is a customer account. Password holds the bcrypt hash and is never
// serialized to JSON.
type User struct {
	UserID     string    `json:"userId" bson:"userid"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Password   string    `json:"-" bson:"password"`
	IsVerified bool      `json:"isVerified" bson:"is_verified"`
	LastLogin  time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// Admin is a back-office account, kept in its own collection so the two
// credential domains stay independent.
type Admin struct {
	AdminID   string    `json:"adminId" bson:"adminid"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	Role      string    `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// OTP is a short-lived email verification code. A TTL index on created_at
// expires records after 10 minutes.
type OTP struct {
	Email     string    `json:"email" bson:"email"`
	Code      string    `json:"-" bson:"code"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
