package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// A cart line is identified by (product, size). Setting quantity to zero or
// below removes the line; adding the same key again creates a fresh line.
func applyCartUpdate(items []models.CartItem, product *models.Product, size string, quantity int) []models.CartItem {
	idx := -1
	for i, it := range items {
		if it.ProductID == product.ProductID && it.Size == size {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0 && quantity <= 0:
		items = append(items[:idx], items[idx+1:]...)
	case idx >= 0:
		items[idx].Quantity = quantity
	case quantity > 0:
		items = append(items, models.CartItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  quantity,
			Size:      size,
		})
	}
	return items
}

// cartTotal sums snapshot price times quantity over the remaining lines.
func cartTotal(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

func loadOrCreateCart(ctx context.Context, userID string) (models.Cart, error) {
	var c models.Cart
	err := db.CartCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		c = models.Cart{UserID: userID, Items: []models.CartItem{}, UpdatedAt: time.Now()}
		_, err = db.CartCollection.InsertOne(ctx, c)
	}
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return c, err
}

func saveCart(ctx context.Context, c models.Cart) error {
	c.TotalPrice = cartTotal(c.Items)
	c.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := db.CartCollection.ReplaceOne(ctx, bson.M{"userId": c.UserID}, c, opts)
	return err
}

// GetCart returns the user's cart, creating an empty one on first touch.
func GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	c, err := loadOrCreateCart(ctx, userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, c)
}

// UpdateCart adds, changes or removes one line and recomputes the total.
func UpdateCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.ProductID == "" || input.Size == "" {
		utils.RespondError(w, http.StatusBadRequest, "productId and size are required")
		return
	}

	var product models.Product
	if err := db.ProductCollection.FindOne(ctx, bson.M{"productid": input.ProductID}).Decode(&product); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	c, err := loadOrCreateCart(ctx, userID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	c.Items = applyCartUpdate(c.Items, &product, input.Size, input.Quantity)

	if err := saveCart(ctx, c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}
	c.TotalPrice = cartTotal(c.Items)

	utils.RespondSuccess(w, http.StatusOK, c)
}

// ClearCart empties the cart and resets the total.
func ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	_, err := db.CartCollection.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "totalPrice": int64(0), "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}

	utils.RespondMessage(w, http.StatusOK, "Cart cleared successfully", nil)
}
