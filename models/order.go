package models

import "time"

// Order statuses are admin-settable; no transition graph is enforced.
var OrderStatuses = []string{"New", "Packed", "Shipped", "Delivered", "Cancelled"}

const (
	PaymentMethodCOD      = "COD"
	PaymentMethodRazorpay = "Razorpay"
)

// OrderItem carries the server-verified price snapshot for one line. The
// client-supplied price is never written here.
type OrderItem struct {
	ProductID string `json:"productId" bson:"productid"`
	Name      string `json:"name" bson:"name"`
	Image     string `json:"image" bson:"image"`
	Price     int64  `json:"price" bson:"price"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Size      string `json:"size" bson:"size"`
}

// OrderAddress is the postal snapshot frozen into an order at checkout.
// It is a copy, not a reference into the address book.
type OrderAddress struct {
	Name         string `json:"name" bson:"name"`
	AddressLine1 string `json:"addressLine1" bson:"address_line1"`
	AddressLine2 string `json:"addressLine2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Pincode      string `json:"pincode" bson:"pincode"`
	Phone        string `json:"phone" bson:"phone"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
}

// PaymentDetails records how and when an order was paid.
type PaymentDetails struct {
	RzpOrderID   string     `json:"razorpayOrderId,omitempty" bson:"rzp_order_id,omitempty"`
	RzpPaymentID string     `json:"razorpayPaymentId,omitempty" bson:"rzp_payment_id,omitempty"`
	IsPaid       bool       `json:"isPaid" bson:"is_paid"`
	PaidAt       *time.Time `json:"paidAt,omitempty" bson:"paid_at,omitempty"`
}

// Order is immutable once created, except for its admin-settable status.
type Order struct {
	OrderID         string         `json:"orderId" bson:"orderid"`
	UserID          string         `json:"userId" bson:"userId"`
	Items           []OrderItem    `json:"orderItems" bson:"items"`
	TotalAmount     int64          `json:"totalAmount" bson:"total_amount"`
	Status          string         `json:"orderStatus" bson:"status"`
	PaymentMethod   string         `json:"paymentMethod" bson:"payment_method"`
	Payment         PaymentDetails `json:"paymentDetails" bson:"payment"`
	ShippingAddress OrderAddress   `json:"shippingAddress" bson:"shipping_address"`
	BillingAddress  OrderAddress   `json:"billingAddress" bson:"billing_address"`
	CreatedAt       time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updated_at"`
}
