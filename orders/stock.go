package orders

import (
	"context"

	"attira/db"
	"attira/logger"
	"attira/models"
	"attira/mq"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type stockDecrementer func(ctx context.Context, productID string, quantity int) (remaining int, ok bool, err error)
type stockRestorer func(ctx context.Context, productID string, quantity int)

// decrementLine is a single conditional update: the stock only moves when
// at least the requested quantity is still there. ok=false means the
// condition failed, i.e. a concurrent checkout won the race; a database
// fault is returned as an error.
func decrementLine(ctx context.Context, productID string, quantity int) (remaining int, ok bool, err error) {
	var updated models.Product
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = db.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"productid": productID, "stock": bson.M{"$gte": quantity}},
		bson.M{"$inc": bson.M{"stock": -quantity}},
		opts,
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if updated.Stock == 0 {
		mq.Emit(ctx, mq.EventStockDepleted, productID, "")
	}
	return updated.Stock, true, nil
}

func restoreLine(ctx context.Context, productID string, quantity int) {
	if _, err := db.ProductCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$inc": bson.M{"stock": quantity}},
	); err != nil {
		logger.L().Error("failed to restore stock after aborted checkout",
			zap.String("product", productID), zap.Int("quantity", quantity), zap.Error(err))
	}
}

// reserveStock decrements every line before an unpaid order is persisted.
// On the first line that cannot be satisfied, the lines already taken are
// put back and the failing line is reported so the caller can surface a
// retryable out-of-stock error.
func reserveStock(ctx context.Context, items []models.OrderItem) *OutOfStockItem {
	return reserveStockWith(ctx, items, decrementLine, restoreLine, findProduct)
}

func reserveStockWith(ctx context.Context, items []models.OrderItem, dec stockDecrementer, restore stockRestorer, find ProductFinder) *OutOfStockItem {
	for i, item := range items {
		_, ok, err := dec(ctx, item.ProductID, item.Quantity)
		if err != nil {
			logger.L().Error("stock reservation fault",
				zap.String("product", item.ProductID), zap.Error(err))
		}
		if err != nil || !ok {
			for _, taken := range items[:i] {
				restore(ctx, taken.ProductID, taken.Quantity)
			}
			available := 0
			if p, ferr := find(ctx, item.ProductID); ferr == nil && p != nil {
				available = p.Stock
			}
			return &OutOfStockItem{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: available,
			}
		}
	}
	return nil
}

// decrementStockAfterPayment runs after a paid order is persisted. The
// payment is captured, so a short line cannot abort anything; it is logged
// as a fulfillment warning and the order stands.
func decrementStockAfterPayment(ctx context.Context, orderID string, items []models.OrderItem) {
	for _, item := range items {
		_, ok, err := decrementLine(ctx, item.ProductID, item.Quantity)
		if err != nil {
			logger.L().Error("fulfillment fault: stock update failed after paid order",
				zap.String("order", orderID), zap.String("product", item.ProductID), zap.Error(err))
			continue
		}
		if !ok {
			logger.L().Warn("fulfillment warning: stock short after paid order",
				zap.String("order", orderID),
				zap.String("product", item.ProductID),
				zap.Int("quantity", item.Quantity))
		}
	}
}
