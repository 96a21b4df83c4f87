package models

import "time"

// Address is one saved address-book entry; a user may keep at most five.
type Address struct {
	AddressID         string    `json:"addressId" bson:"addressid"`
	UserID            string    `json:"-" bson:"userId"`
	Name              string    `json:"name" bson:"name"`
	AddressLine1      string    `json:"addressLine1" bson:"address_line1"`
	AddressLine2      string    `json:"addressLine2,omitempty" bson:"address_line2,omitempty"`
	City              string    `json:"city" bson:"city"`
	State             string    `json:"state" bson:"state"`
	Pincode           string    `json:"pincode" bson:"pincode"`
	Phone             string    `json:"phone" bson:"phone"`
	Email             string    `json:"email,omitempty" bson:"email,omitempty"`
	IsDefaultShipping bool      `json:"isDefaultShipping" bson:"is_default_shipping"`
	IsDefaultBilling  bool      `json:"isDefaultBilling" bson:"is_default_billing"`
	CreatedAt         time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" bson:"updated_at"`
}
