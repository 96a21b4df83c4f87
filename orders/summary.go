package orders

import (
	"fmt"
	"html"
	"strings"

	"attira/models"
)

func formatAmount(paise int64) string {
	return fmt.Sprintf("₹%d.%02d", paise/100, paise%100)
}

// orderSummaryHTML renders the confirmation email body.
func orderSummaryHTML(order models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<h2>Thank you for your order!</h2>")
	fmt.Fprintf(&b, "<p>Order <strong>#%s</strong> placed on %s.</p>",
		html.EscapeString(order.OrderID), order.CreatedAt.Format("02 Jan 2006 15:04"))

	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">")
	b.WriteString("<tr><th>Item</th><th>Size</th><th>Qty</th><th>Price</th></tr>")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>",
			html.EscapeString(item.Name), html.EscapeString(item.Size),
			item.Quantity, formatAmount(item.Price*int64(item.Quantity)))
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p><strong>Total: %s</strong></p>", formatAmount(order.TotalAmount))

	if order.PaymentMethod == models.PaymentMethodCOD {
		b.WriteString("<p>Payment method: Cash on Delivery. Please keep the exact amount ready.</p>")
	} else {
		fmt.Fprintf(&b, "<p>Payment method: %s (paid).</p>", html.EscapeString(order.PaymentMethod))
	}

	a := order.ShippingAddress
	fmt.Fprintf(&b, "<p>Shipping to:<br>%s<br>%s", html.EscapeString(a.Name), html.EscapeString(a.AddressLine1))
	if a.AddressLine2 != "" {
		fmt.Fprintf(&b, "<br>%s", html.EscapeString(a.AddressLine2))
	}
	fmt.Fprintf(&b, "<br>%s, %s %s<br>Phone: %s</p>",
		html.EscapeString(a.City), html.EscapeString(a.State),
		html.EscapeString(a.Pincode), html.EscapeString(a.Phone))

	return b.String()
}
