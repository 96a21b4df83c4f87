package orders

import (
	"testing"
	"time"

	"attira/models"

	"github.com/stretchr/testify/assert"
)

func TestOrderSummaryHTML(t *testing.T) {
	order := models.Order{
		OrderID: "o99",
		Items: []models.OrderItem{
			{Name: "Oxford Shirt", Size: "L", Price: 50000, Quantity: 2},
		},
		TotalAmount:   100000,
		PaymentMethod: models.PaymentMethodCOD,
		ShippingAddress: models.OrderAddress{
			Name: "Asha Rao", AddressLine1: "14 MG Road",
			City: "Bengaluru", State: "Karnataka", Pincode: "560001", Phone: "9876543210",
		},
		CreatedAt: time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
	}

	body := orderSummaryHTML(order)

	assert.Contains(t, body, "#o99")
	assert.Contains(t, body, "Oxford Shirt")
	assert.Contains(t, body, "₹1000.00")
	assert.Contains(t, body, "Cash on Delivery")
	assert.Contains(t, body, "Bengaluru")
}

func TestOrderSummaryHTMLEscapesUserContent(t *testing.T) {
	order := models.Order{
		OrderID: "o1",
		Items: []models.OrderItem{
			{Name: "<script>alert(1)</script>", Price: 100, Quantity: 1},
		},
		TotalAmount:   100,
		PaymentMethod: models.PaymentMethodCOD,
		ShippingAddress: models.OrderAddress{
			Name: "A", AddressLine1: "1", City: "C", State: "S", Pincode: "0", Phone: "0",
		},
	}

	body := orderSummaryHTML(order)

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestFormatAmountPaise(t *testing.T) {
	assert.Equal(t, "₹0.01", formatAmount(1))
	assert.Equal(t, "₹1.00", formatAmount(100))
	assert.Equal(t, "₹2998.00", formatAmount(299800))
	assert.Equal(t, "₹1499.50", formatAmount(149950))
}
