package orders

import (
	"context"
	"fmt"

	"attira/db"
	"attira/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CheckoutItem is one requested line: product reference, quantity and size.
// Any client-supplied price is ignored.
type CheckoutItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

// OutOfStockItem reports a line that cannot be fulfilled, with the
// requested and available counts.
type OutOfStockItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ProductFinder resolves a product id against the catalog. A nil product
// with nil error means the id is unknown.
type ProductFinder func(ctx context.Context, productID string) (*models.Product, error)

// findProduct is the Mongo-backed ProductFinder.
func findProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	err := db.ProductCollection.FindOne(ctx, bson.M{"productid": productID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// verifyItems recomputes every line against the catalog: stock checks,
// server-side prices, and the verified snapshot used for the order. The
// whole request fails if any line is short; there is no partial order.
func verifyItems(ctx context.Context, items []CheckoutItem, find ProductFinder) (
	verified []models.OrderItem, subtotal int64, outOfStock []OutOfStockItem, err error,
) {
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, 0, nil, fmt.Errorf("quantity must be at least 1")
		}

		product, ferr := find(ctx, item.ProductID)
		if ferr != nil {
			return nil, 0, nil, ferr
		}

		if product == nil || product.Stock < item.Quantity {
			available := 0
			name := item.Name
			if product != nil {
				available = product.Stock
				name = product.Name
			}
			outOfStock = append(outOfStock, OutOfStockItem{
				ProductID: item.ProductID,
				Name:      name,
				Requested: item.Quantity,
				Available: available,
			})
			continue
		}

		subtotal += product.Price * int64(item.Quantity)
		verified = append(verified, models.OrderItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
		})
	}
	return verified, subtotal, outOfStock, nil
}
