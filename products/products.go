package products

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type productInput struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Price       int64    `json:"price"`
	Stock       int      `json:"stock"`
	Sizes       []string `json:"sizes"`
	Colour      string   `json:"colour"`
	Image       string   `json:"image"`
}

func validateProductInput(in productInput) error {
	if in.Name == "" || len(in.Name) > 100 {
		return fmt.Errorf("name must be between 1 and 100 characters")
	}
	if !utils.Contains(models.ProductCategories, in.Category) {
		return fmt.Errorf("category must be one of T-shirt, Hoodie, Shoes or Other")
	}
	if in.Description == "" {
		return fmt.Errorf("description is required")
	}
	if in.Price <= 0 {
		return fmt.Errorf("price must be a positive amount in paise")
	}
	if in.Stock < 0 {
		return fmt.Errorf("stock must be a non-negative integer")
	}
	if len(in.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	for _, s := range in.Sizes {
		if !utils.Contains(models.ProductSizes, s) {
			return fmt.Errorf("invalid size %q", s)
		}
	}
	return nil
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validateProductInput(input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	product := models.Product{
		ProductID:   "p" + utils.GenerateID(14),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Sizes:       input.Sizes,
		Colour:      input.Colour,
		Image:       input.Image,
		CreatedBy:   utils.GetAdminIDFromRequest(r),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Image == "" {
		product.Image = "placeholder"
	}

	if _, err := db.ProductCollection.InsertOne(ctx, product); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}

	utils.RespondSuccess(w, http.StatusCreated, product)
}

// UpdateProduct replaces the mutable fields of a catalog entry. Admin only.
func UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validateProductInput(input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	update := bson.M{"$set": bson.M{
		"name":        input.Name,
		"category":    input.Category,
		"description": input.Description,
		"price":       input.Price,
		"stock":       input.Stock,
		"sizes":       input.Sizes,
		"colour":      input.Colour,
		"updated_at":  time.Now(),
	}}
	if input.Image != "" {
		update["$set"].(bson.M)["image"] = input.Image
	}

	var product models.Product
	if err := db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": productID}, update,
	).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Product not found with id of %s", productID))
		return
	}

	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to load product")
		return
	}
	utils.RespondSuccess(w, http.StatusOK, product)
}

// DeleteProduct removes a catalog entry. Admin only.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	productID := ps.ByName("id")

	res, err := db.ProductCollection.DeleteOne(ctx, bson.M{"productid": productID})
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, http.StatusNotFound, fmt.Sprintf("Product not found with id of %s", productID))
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{})
}
