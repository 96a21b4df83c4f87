package orders

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"attira/config"
	"attira/globals"
	"attira/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func testAddress() models.OrderAddress {
	return models.OrderAddress{
		Name: "Asha Rao", AddressLine1: "14 MG Road",
		City: "Bengaluru", State: "Karnataka", Pincode: "560001",
		Phone: "9876543210", Email: "asha@example.com",
	}
}

func TestVerifyCheckoutRejectsPriceMismatchWithBothFigures(t *testing.T) {
	find := finderFor(map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Shirt", Price: 500, Stock: 10},
	})

	rec := httptest.NewRecorder()
	req := checkoutRequest{
		OrderItems:      []CheckoutItem{{ProductID: "p1", Quantity: 2}},
		TotalAmount:     900,
		ShippingAddress: testAddress(),
		BillingAddress:  testAddress(),
	}

	_, _, ok := verifyCheckout(context.Background(), rec, req, find)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(900), body["clientTotal"])
	assert.Equal(t, float64(1000), body["serverTotal"])
	assert.Contains(t, body["message"], "900")
	assert.Contains(t, body["message"], "1000")
}

func TestVerifyCheckoutReportsOutOfStockPayload(t *testing.T) {
	find := finderFor(map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Shirt", Price: 500, Stock: 1},
	})

	rec := httptest.NewRecorder()
	req := checkoutRequest{
		OrderItems:      []CheckoutItem{{ProductID: "p1", Quantity: 3}},
		TotalAmount:     1500,
		ShippingAddress: testAddress(),
		BillingAddress:  testAddress(),
	}

	_, _, ok := verifyCheckout(context.Background(), rec, req, find)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success        bool             `json:"success"`
		OutOfStock     []OutOfStockItem `json:"outOfStockItems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.Len(t, body.OutOfStock, 1)
	assert.Equal(t, 3, body.OutOfStock[0].Requested)
	assert.Equal(t, 1, body.OutOfStock[0].Available)
}

func TestVerifyCheckoutAcceptsMatchingTotal(t *testing.T) {
	find := finderFor(map[string]*models.Product{
		"p1": {ProductID: "p1", Name: "Shirt", Price: 500, Stock: 10},
	})

	rec := httptest.NewRecorder()
	req := checkoutRequest{
		OrderItems:      []CheckoutItem{{ProductID: "p1", Quantity: 2}},
		TotalAmount:     1000,
		ShippingAddress: testAddress(),
		BillingAddress:  testAddress(),
	}

	verified, subtotal, ok := verifyCheckout(context.Background(), rec, req, find)

	require.True(t, ok)
	assert.Equal(t, int64(1000), subtotal)
	assert.Len(t, verified, 1)
	assert.Empty(t, rec.Body.Bytes())
}

func stubConfirmationStores(t *testing.T) {
	t.Helper()
	origClaim := claimPendingPayment
	origLoad := loadPaymentRecord
	origFail := markPaymentFailed
	origLink := linkPaymentOrder
	origInsert := insertOrderDoc
	origOrder := loadOrderByID
	origFulfill := fulfillStock
	t.Cleanup(func() {
		claimPendingPayment = origClaim
		loadPaymentRecord = origLoad
		markPaymentFailed = origFail
		linkPaymentOrder = origLink
		insertOrderDoc = origInsert
		loadOrderByID = origOrder
		fulfillStock = origFulfill
	})
}

func confirmationRequest(t *testing.T, rzpOrderID, paymentID, signature string) *http.Request {
	t.Helper()
	payload, err := json.Marshal(map[string]string{
		"razorpay_order_id":   rzpOrderID,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/orders/payment-success", bytes.NewReader(payload))
	return req.WithContext(context.WithValue(req.Context(), globals.UserIDKey, "u1"))
}

func gatewaySign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaymentConfirmationReplayReturnsExistingOrder(t *testing.T) {
	Init(config.RazorpayConfig{KeyID: "key", KeySecret: "test-secret"})
	stubConfirmationStores(t)

	record := models.PaymentRecord{
		RzpOrderID: "order_abc",
		UserID:     "u1",
		Amount:     1000,
		Status:     models.PaymentPending,
		Snapshot: models.OrderSnapshot{
			UserID:          "u1",
			Items:           []models.OrderItem{{ProductID: "p1", Name: "Shirt", Price: 1000, Quantity: 1}},
			TotalAmount:     1000,
			ShippingAddress: testAddress(),
			BillingAddress:  testAddress(),
		},
	}

	claimed := false
	var inserted []models.Order

	claimPendingPayment = func(ctx context.Context, rzpOrderID, userID, paymentID string) (*models.PaymentRecord, error) {
		if claimed {
			return nil, mongo.ErrNoDocuments
		}
		claimed = true
		rec := record
		rec.Status = models.PaymentSuccess
		rec.RzpPaymentID = paymentID
		return &rec, nil
	}
	loadPaymentRecord = func(ctx context.Context, rzpOrderID, userID string) (*models.PaymentRecord, error) {
		rec := record
		rec.Status = models.PaymentSuccess
		if len(inserted) > 0 {
			rec.OrderRef = inserted[0].OrderID
		}
		return &rec, nil
	}
	insertOrderDoc = func(ctx context.Context, order models.Order) error {
		inserted = append(inserted, order)
		return nil
	}
	linkPaymentOrder = func(ctx context.Context, rzpOrderID, orderID string) error { return nil }
	loadOrderByID = func(ctx context.Context, orderID string) (*models.Order, error) {
		for i := range inserted {
			if inserted[i].OrderID == orderID {
				return &inserted[i], nil
			}
		}
		return nil, mongo.ErrNoDocuments
	}
	fulfillStock = func(ctx context.Context, orderID string, items []models.OrderItem) {}

	sig := gatewaySign("order_abc", "pay_1", "test-secret")

	first := httptest.NewRecorder()
	PaymentSuccess(first, confirmationRequest(t, "order_abc", "pay_1", sig), nil)

	require.Equal(t, http.StatusCreated, first.Code)
	require.Len(t, inserted, 1)
	assert.True(t, inserted[0].Payment.IsPaid)
	assert.Equal(t, "order_abc", inserted[0].Payment.RzpOrderID)

	second := httptest.NewRecorder()
	PaymentSuccess(second, confirmationRequest(t, "order_abc", "pay_1", sig), nil)

	assert.Equal(t, http.StatusOK, second.Code)
	assert.Len(t, inserted, 1)

	var body struct {
		Message string       `json:"message"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "Order already placed", body.Message)
	assert.Equal(t, inserted[0].OrderID, body.Data.OrderID)
}

func TestPaymentConfirmationRejectsTamperedSignature(t *testing.T) {
	Init(config.RazorpayConfig{KeyID: "key", KeySecret: "test-secret"})
	stubConfirmationStores(t)

	markedFailed := false
	markPaymentFailed = func(ctx context.Context, rzpOrderID, userID string) error {
		markedFailed = true
		return nil
	}
	insertOrderDoc = func(ctx context.Context, order models.Order) error {
		t.Fatal("no order may be created on a bad signature")
		return nil
	}

	rec := httptest.NewRecorder()
	PaymentSuccess(rec, confirmationRequest(t, "order_abc", "pay_1", "deadbeef"), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, markedFailed)
	assert.Contains(t, rec.Body.String(), "Invalid payment signature")
}
