package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := []byte("test-secret")
	sig := sign("order_123", "pay_456", secret)

	assert.True(t, VerifySignature("order_123", "pay_456", sig, secret))
	assert.False(t, VerifySignature("order_123", "pay_456", sig+"00", secret))
	assert.False(t, VerifySignature("order_999", "pay_456", sig, secret))
	assert.False(t, VerifySignature("order_123", "pay_456", sig, []byte("other-secret")))
	assert.False(t, VerifySignature("order_123", "pay_456", "", secret))
}

func TestReceiptFormatAndLength(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	r := Receipt("u123", at)
	assert.Equal(t, "rcpt_u123_1700000000000", r)

	long := Receipt("u"+strings.Repeat("x", 50), at)
	assert.Len(t, long, 40)
	assert.True(t, strings.HasPrefix(long, "rcpt_"))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(299800), body["amount"])
		assert.Equal(t, "INR", body["currency"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_abc",
			Amount:   299800,
			Currency: "INR",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret")
	client.BaseURL = srv.URL

	order, err := client.CreateOrder(context.Background(), 299800, "INR", "rcpt_u1_1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(299800), order.Amount)
	assert.Equal(t, "rcpt_u1_1", order.Receipt)
}

func TestCreateOrderSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret")
	client.BaseURL = srv.URL

	_, err := client.CreateOrder(context.Background(), 1, "INR", "rcpt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount must be at least 100")
}
