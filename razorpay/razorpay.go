package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// receiptMaxLen is the gateway's limit on receipt identifiers.
const receiptMaxLen = 40

// Client talks to the Razorpay orders API.
type Client struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	HTTP      *http.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{
		KeyID:     keyID,
		KeySecret: keySecret,
		BaseURL:   defaultBaseURL,
		HTTP:      &http.Client{Timeout: 10 * time.Second},
	}
}

// GatewayOrder is the provider-side transaction handle created before the
// customer pays.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens a gateway order for amount in minor units.
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	body, err := json.Marshal(map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.KeyID, c.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay: %s", apiErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay: create order returned %d", resp.StatusCode)
	}

	var order GatewayOrder
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifySignature checks an HMAC-SHA256 over "orderID|paymentID" against the
// gateway-issued signature, in constant time.
func VerifySignature(orderID, paymentID, signature string, secret []byte) bool {
	mac := hmac.New(sha256.New, secret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Receipt derives a gateway receipt id from the user identity and the
// current time, truncated to the gateway's length limit.
func Receipt(userID string, t time.Time) string {
	r := fmt.Sprintf("rcpt_%s_%d", userID, t.UnixMilli())
	if len(r) > receiptMaxLen {
		r = r[:receiptMaxLen]
	}
	return r
}
