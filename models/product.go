package models

import "time"

// Product categories and sizes are closed sets.
var (
	ProductCategories = []string{"T-shirt", "Hoodie", "Shoes", "Other"}
	ProductSizes      = []string{"S", "M", "L", "XL", "XXL"}
)

// Product is a catalog entry. Price is in paise so totals never touch
// floating point. Stock is mutated by admin CRUD and, through conditional
// updates, by checkout.
type Product struct {
	ProductID   string    `json:"productId" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description" bson:"description"`
	Price       int64     `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	Sizes       []string  `json:"sizes" bson:"sizes"`
	Colour      string    `json:"colour,omitempty" bson:"colour,omitempty"`
	Image       string    `json:"image" bson:"image"`
	Thumb       string    `json:"thumb,omitempty" bson:"thumb,omitempty"`
	CreatedBy   string    `json:"createdBy" bson:"created_by"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}
