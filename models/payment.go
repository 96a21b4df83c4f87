package models

import "time"

// Payment record statuses.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// OrderSnapshot is the verified order-to-be captured when a gateway order is
// opened. Confirmation builds the final order from this record instead of
// trusting anything echoed back by the client.
type OrderSnapshot struct {
	UserID          string       `json:"userId" bson:"userId"`
	Items           []OrderItem  `json:"orderItems" bson:"items"`
	TotalAmount     int64        `json:"totalAmount" bson:"total_amount"`
	ShippingAddress OrderAddress `json:"shippingAddress" bson:"shipping_address"`
	BillingAddress  OrderAddress `json:"billingAddress" bson:"billing_address"`
}

// PaymentRecord is the audit trail for one payment attempt, keyed by the
// gateway order id. It exists whether or not the attempt produced an Order.
type PaymentRecord struct {
	RzpOrderID   string        `json:"razorpayOrderId" bson:"rzp_order_id"`
	RzpPaymentID string        `json:"razorpayPaymentId,omitempty" bson:"rzp_payment_id,omitempty"`
	UserID       string        `json:"userId" bson:"userId"`
	Amount       int64         `json:"amount" bson:"amount"`
	Currency     string        `json:"currency" bson:"currency"`
	Status       string        `json:"status" bson:"status"`
	Snapshot     OrderSnapshot `json:"orderData" bson:"snapshot"`
	OrderRef     string        `json:"orderRef,omitempty" bson:"order_ref,omitempty"`
	CreatedAt    time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" bson:"updated_at"`
}
