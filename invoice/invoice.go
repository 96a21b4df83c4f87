package invoice

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"attira/db"
	"attira/models"
	"attira/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var signingSecret []byte

// Init sets the secret used to sign invoice QR payloads.
func Init(secret string) {
	signingSecret = []byte(secret)
}

// qrPayload is orderID|userID|timestamp|signature; scanning it lets support
// verify an invoice was produced by us.
func qrPayload(orderID, userID string) string {
	data := fmt.Sprintf("%s|%s|%d", orderID, userID, time.Now().Unix())
	h := hmac.New(sha256.New, signingSecret)
	h.Write([]byte(data))
	return fmt.Sprintf("%s|%s", data, base64.StdEncoding.EncodeToString(h.Sum(nil)))
}

func formatAmount(paise int64) string {
	return fmt.Sprintf("Rs. %d.%02d", paise/100, paise%100)
}

// DownloadInvoice streams a PDF invoice for one of the caller's orders.
func DownloadInvoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	orderID := ps.ByName("id")

	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID, "userId": userID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		utils.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	pdfBytes, err := Render(order)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+order.OrderID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdfBytes)
}

// Render produces the invoice PDF for an order.
func Render(order models.Order) ([]byte, error) {
	qrPNG, err := qrcode.Encode(qrPayload(order.OrderID, order.UserID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(40, 10, "Tax Invoice")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order: #%s", order.OrderID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("02 Jan 2006")))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Payment: %s", order.PaymentMethod))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, item := range order.Items {
		pdf.CellFormat(80, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.Size, "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, formatAmount(item.Price*int64(item.Quantity)), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(125, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, formatAmount(order.TotalAmount), "1", 1, "R", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	a := order.ShippingAddress
	pdf.Cell(0, 6, "Ship to:")
	pdf.Ln(6)
	pdf.Cell(0, 6, a.Name)
	pdf.Ln(6)
	pdf.Cell(0, 6, a.AddressLine1)
	pdf.Ln(6)
	if a.AddressLine2 != "" {
		pdf.Cell(0, 6, a.AddressLine2)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("%s, %s %s", a.City, a.State, a.Pincode))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Phone: "+a.Phone)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 155, 30, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
