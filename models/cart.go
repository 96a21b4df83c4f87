package models

import "time"

// CartItem is one line in a user's cart. Name, image and price are
// snapshots taken from the catalog when the line is added; they are not
// refreshed when the catalog changes.
type CartItem struct {
	ProductID string `json:"productId" bson:"productid"`
	Name      string `json:"name" bson:"name"`
	Image     string `json:"image" bson:"image"`
	Price     int64  `json:"price" bson:"price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Size      string `json:"size" bson:"size"`
}

// Cart holds the single mutable cart per user. TotalPrice is recomputed on
// every mutation; a line is identified by (productid, size).
type Cart struct {
	UserID     string     `json:"userId" bson:"userId"`
	Items      []CartItem `json:"items" bson:"items"`
	TotalPrice int64      `json:"totalPrice" bson:"totalPrice"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updated_at"`
}
