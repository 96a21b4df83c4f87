package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"attira/config"
	"attira/db"
	"attira/logger"
	"attira/mailer"
	"attira/models"
	"attira/mq"
	"attira/razorpay"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	gateway       *razorpay.Client
	gatewaySecret []byte
)

// Init wires the payment gateway client from config.
func Init(cfg config.RazorpayConfig) {
	gateway = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	gatewaySecret = []byte(cfg.KeySecret)
}

// Collection operations behind function values, like the price resolvers in
// the wallet service this grew out of. The defaults talk to Mongo.
var (
	catalog             ProductFinder = findProduct
	claimPendingPayment               = claimPendingPaymentMongo
	loadPaymentRecord                 = loadPaymentRecordMongo
	markPaymentFailed                 = markPaymentFailedMongo
	linkPaymentOrder                  = linkPaymentOrderMongo
	insertOrderDoc                    = insertOrderDocMongo
	loadOrderByID                     = loadOrderByIDMongo
	fulfillStock                      = decrementStockAfterPayment
)

type checkoutRequest struct {
	OrderItems      []CheckoutItem      `json:"orderItems"`
	TotalAmount     int64               `json:"totalAmount"`
	ShippingAddress models.OrderAddress `json:"shippingAddress"`
	BillingAddress  models.OrderAddress `json:"billingAddress"`
}

func validateOrderAddress(a models.OrderAddress, label string) error {
	if a.Name == "" || a.AddressLine1 == "" || a.City == "" || a.State == "" || a.Pincode == "" || a.Phone == "" {
		return fmt.Errorf("%s address is incomplete", label)
	}
	return nil
}

// verifyCheckout runs the mandatory re-verification shared by both payment
// paths: catalog lookups, stock checks, server-side subtotal, and the
// client-total comparison. It writes the error response itself and returns
// ok=false when the checkout must not proceed.
func verifyCheckout(ctx context.Context, w http.ResponseWriter, req checkoutRequest, find ProductFinder) ([]models.OrderItem, int64, bool) {
	if len(req.OrderItems) == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Order must contain at least one item")
		return nil, 0, false
	}
	if err := validateOrderAddress(req.ShippingAddress, "shipping"); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}
	if err := validateOrderAddress(req.BillingAddress, "billing"); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}

	verified, subtotal, outOfStock, err := verifyItems(ctx, req.OrderItems, find)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, 0, false
	}
	if len(outOfStock) > 0 {
		utils.RespondErrorWith(w, http.StatusBadRequest,
			"Some items are out of stock or quantity exceeds available stock.",
			utils.M{"outOfStockItems": outOfStock})
		return nil, 0, false
	}
	if subtotal != req.TotalAmount {
		utils.RespondErrorWith(w, http.StatusBadRequest,
			fmt.Sprintf("Price mismatch: client sent %d, server calculated %d.", req.TotalAmount, subtotal),
			utils.M{"clientTotal": req.TotalAmount, "serverTotal": subtotal})
		return nil, 0, false
	}
	return verified, subtotal, true
}

// PlaceCODOrder is the cash-on-delivery path: verify, take the stock with
// conditional updates, persist the unpaid order. Once the order document
// exists nothing rolls it back; the confirmation mail is best-effort.
func PlaceCODOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	verified, subtotal, ok := verifyCheckout(ctx, w, req, catalog)
	if !ok {
		return
	}

	// the conditional decrement is the arbiter under concurrency: two
	// orders racing for the last unit cannot both pass
	if failed := reserveStock(ctx, verified); failed != nil {
		utils.RespondErrorWith(w, http.StatusBadRequest,
			"Some items went out of stock while placing the order, please retry.",
			utils.M{"outOfStockItems": []OutOfStockItem{*failed}})
		return
	}

	now := time.Now()
	order := models.Order{
		OrderID:         "o" + utils.GenerateID(14),
		UserID:          userID,
		Items:           verified,
		TotalAmount:     subtotal,
		Status:          "New",
		PaymentMethod:   models.PaymentMethodCOD,
		Payment:         models.PaymentDetails{IsPaid: false},
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := insertOrderDoc(ctx, order); err != nil {
		// order was never created, so the reservation can be undone
		for _, item := range verified {
			restoreLine(ctx, item.ProductID, item.Quantity)
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to place order")
		return
	}

	mq.Emit(ctx, mq.EventOrderPlaced, order.OrderID, userID)
	sendConfirmation(ctx, order, fmt.Sprintf("COD Order Placed - #%s", order.OrderID))

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "COD Order placed successfully",
		"data":    order,
	})
}

// CreateRazorpayOrder verifies the request, opens a gateway order for the
// server-computed subtotal, and persists the pending payment record with
// the verified snapshot. The snapshot never round-trips through the client.
func CreateRazorpayOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	verified, subtotal, ok := verifyCheckout(ctx, w, req, catalog)
	if !ok {
		return
	}

	receipt := razorpay.Receipt(userID, time.Now())
	gwOrder, err := gateway.CreateOrder(ctx, subtotal, "INR", receipt)
	if err != nil {
		logger.L().Error("gateway order creation failed", zap.String("user", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create payment order")
		return
	}

	now := time.Now()
	record := models.PaymentRecord{
		RzpOrderID: gwOrder.ID,
		UserID:     userID,
		Amount:     subtotal,
		Currency:   gwOrder.Currency,
		Status:     models.PaymentPending,
		Snapshot: models.OrderSnapshot{
			UserID:          userID,
			Items:           verified,
			TotalAmount:     subtotal,
			ShippingAddress: req.ShippingAddress,
			BillingAddress:  req.BillingAddress,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := db.PaymentCollection.InsertOne(ctx, record); err != nil {
		logger.L().Error("failed to persist payment record",
			zap.String("gatewayOrder", gwOrder.ID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Failed to initiate payment")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"orderId":  gwOrder.ID,
		"amount":   gwOrder.Amount,
		"currency": gwOrder.Currency,
	})
}

type paymentSuccessRequest struct {
	RzpOrderID   string `json:"razorpay_order_id"`
	RzpPaymentID string `json:"razorpay_payment_id"`
	RzpSignature string `json:"razorpay_signature"`
}

// PaymentSuccess confirms a gateway payment. The signature is recomputed
// server-side; on a match the pending payment record is claimed atomically
// so a replayed confirmation returns the already-created order instead of
// a duplicate. Failures after the order document exists are logged only.
func PaymentSuccess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var req paymentSuccessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.RzpOrderID == "" || req.RzpPaymentID == "" || req.RzpSignature == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing payment confirmation fields")
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	if !razorpay.VerifySignature(req.RzpOrderID, req.RzpPaymentID, req.RzpSignature, gatewaySecret) {
		if err := markPaymentFailed(ctx, req.RzpOrderID, userID); err != nil {
			logger.L().Warn("failed to mark payment record failed",
				zap.String("gatewayOrder", req.RzpOrderID), zap.Error(err))
		}
		mq.Emit(ctx, mq.EventPaymentFailed, req.RzpOrderID, userID)
		utils.RespondError(w, http.StatusBadRequest, "Invalid payment signature. Payment failed.")
		return
	}

	// claim the pending record; exactly one confirmation can win
	record, err := claimPendingPayment(ctx, req.RzpOrderID, userID, req.RzpPaymentID)
	if err == mongo.ErrNoDocuments {
		respondReplayedConfirmation(ctx, w, req.RzpOrderID, userID)
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to confirm payment")
		return
	}

	paidAt := time.Now()
	order := models.Order{
		OrderID:       "o" + utils.GenerateID(14),
		UserID:        record.Snapshot.UserID,
		Items:         record.Snapshot.Items,
		TotalAmount:   record.Snapshot.TotalAmount,
		Status:        "New",
		PaymentMethod: models.PaymentMethodRazorpay,
		Payment: models.PaymentDetails{
			RzpOrderID:   req.RzpOrderID,
			RzpPaymentID: req.RzpPaymentID,
			IsPaid:       true,
			PaidAt:       &paidAt,
		},
		ShippingAddress: record.Snapshot.ShippingAddress,
		BillingAddress:  record.Snapshot.BillingAddress,
		CreatedAt:       paidAt,
		UpdatedAt:       paidAt,
	}

	if err := insertOrderDoc(ctx, order); err != nil {
		// payment is captured; surface the fault loudly but keep the audit
		// record in success state for reconciliation
		logger.L().Error("order creation failed after captured payment",
			zap.String("gatewayOrder", req.RzpOrderID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "Payment received but order creation failed; support has been notified")
		return
	}

	if err := linkPaymentOrder(ctx, req.RzpOrderID, order.OrderID); err != nil {
		logger.L().Warn("failed to link payment record to order",
			zap.String("gatewayOrder", req.RzpOrderID), zap.String("order", order.OrderID), zap.Error(err))
	}

	fulfillStock(ctx, order.OrderID, order.Items)
	mq.Emit(ctx, mq.EventOrderPaid, order.OrderID, userID)
	sendConfirmation(ctx, order, fmt.Sprintf("Order Confirmation - #%s", order.OrderID))

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Order placed and paid successfully",
		"data":    order,
	})
}

// respondReplayedConfirmation handles a valid-signature confirmation whose
// record is no longer pending: either a replay of a success (idempotent,
// return the existing order) or a terminally failed attempt.
func respondReplayedConfirmation(ctx context.Context, w http.ResponseWriter, rzpOrderID, userID string) {
	record, err := loadPaymentRecord(ctx, rzpOrderID, userID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Payment record not found")
		return
	}

	if record.Status == models.PaymentSuccess && record.OrderRef != "" {
		if order, err := loadOrderByID(ctx, record.OrderRef); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, utils.M{
				"success": true,
				"message": "Order already placed",
				"data":    order,
			})
			return
		}
	}

	utils.RespondError(w, http.StatusBadRequest, "Payment is not pending confirmation")
}

func claimPendingPaymentMongo(ctx context.Context, rzpOrderID, userID, paymentID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := db.PaymentCollection.FindOneAndUpdate(ctx,
		bson.M{"rzp_order_id": rzpOrderID, "userId": userID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{
			"status":         models.PaymentSuccess,
			"rzp_payment_id": paymentID,
			"updated_at":     time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func loadPaymentRecordMongo(ctx context.Context, rzpOrderID, userID string) (*models.PaymentRecord, error) {
	var record models.PaymentRecord
	err := db.PaymentCollection.FindOne(ctx,
		bson.M{"rzp_order_id": rzpOrderID, "userId": userID},
	).Decode(&record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func markPaymentFailedMongo(ctx context.Context, rzpOrderID, userID string) error {
	_, err := db.PaymentCollection.UpdateOne(ctx,
		bson.M{"rzp_order_id": rzpOrderID, "userId": userID, "status": models.PaymentPending},
		bson.M{"$set": bson.M{"status": models.PaymentFailed, "updated_at": time.Now()}},
	)
	return err
}

func linkPaymentOrderMongo(ctx context.Context, rzpOrderID, orderID string) error {
	_, err := db.PaymentCollection.UpdateOne(ctx,
		bson.M{"rzp_order_id": rzpOrderID},
		bson.M{"$set": bson.M{"order_ref": orderID, "updated_at": time.Now()}},
	)
	return err
}

func insertOrderDocMongo(ctx context.Context, order models.Order) error {
	_, err := db.OrderCollection.InsertOne(ctx, order)
	return err
}

func loadOrderByIDMongo(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// sendConfirmation mails the order summary off the request path. The
// recipient falls back from shipping email to billing email to the account
// email.
func sendConfirmation(ctx context.Context, order models.Order, subject string) {
	email := order.ShippingAddress.Email
	if email == "" {
		email = order.BillingAddress.Email
	}
	if email == "" {
		var user models.User
		if err := db.UserCollection.FindOne(ctx, bson.M{"userid": order.UserID}).Decode(&user); err == nil {
			email = user.Email
		}
	}
	if email == "" {
		logger.L().Warn("no recipient for order confirmation", zap.String("order", order.OrderID))
		return
	}
	mailer.SendAsync(email, subject, orderSummaryHTML(order))
}
