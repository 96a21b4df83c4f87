package orders

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

// GetUserOrders returns the caller's orders, newest first.
func GetUserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	cursor, err := db.OrderCollection.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// GetUserOrder returns one of the caller's orders. Orders belonging to
// other users are indistinguishable from missing ones.
func GetUserOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)

	var order models.Order
	err := db.OrderCollection.FindOne(ctx,
		bson.M{"orderid": ps.ByName("id"), "userId": userID},
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, order)
}

// GetAdminOrders lists all orders for the back office, newest first, with
// the same page/limit parameters as the catalog listing.
func GetAdminOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	total, err := db.OrderCollection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	cursor, err := db.OrderCollection.Find(ctx, filter,
		options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetSkip(int64((opts.Page-1)*opts.Limit)).
			SetLimit(int64(opts.Limit)),
	)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(orders),
		"total":   total,
		"page":    opts.Page,
		"data":    orders,
	})
}

// GetAdminOrder returns any order by id, no ownership scoping.
func GetAdminOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": ps.ByName("id")}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, order)
}

type statusUpdateRequest struct {
	Status string `json:"orderStatus"`
}

// UpdateOrderStatus sets an order's status to any recognized value. There is
// no transition graph; the back office is trusted to know what it is doing.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if !utils.Contains(models.OrderStatuses, req.Status) {
		utils.RespondError(w, http.StatusBadRequest, "Invalid order status: "+req.Status)
		return
	}

	var order models.Order
	err := db.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"orderid": ps.ByName("id")},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, order)
}
