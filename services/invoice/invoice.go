package invoice

import (
	"fmt"
	"time"

	"courier-booking/models/shipment"

	"github.com/jinzhu/now"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
)

// PaymentTermDays is the gap between invoice date and due date
const PaymentTermDays = 15

var TaxRate = decimal.RequireFromString("0.18")

// Company is the fixed billed-from record printed on every invoice
type Company struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	GSTIN   string `json:"gstin"`
}

var BilledFrom = Company{
	Name:    "Swift Courier Services Pvt. Ltd.",
	Street:  "42 Logistics Park, Andheri East",
	City:    "Mumbai",
	State:   "Maharashtra",
	Pincode: "400069",
	Country: "India",
	Phone:   "+91 22 4000 1234",
	Email:   "billing@swiftcourier.in",
	GSTIN:   "27AABCS1234F1Z5",
}

type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a display projection of a shipment. It is never stored.
type Invoice struct {
	ID            string          `json:"id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	BilledFrom    Company         `json:"billed_from"`
	BilledTo      shipment.Party  `json:"billed_to"`
	ShipTo        shipment.Party  `json:"ship_to"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// Project maps a shipment onto its invoice. Monetary values are copied from the shipment, not recomputed.
func Project(s shipment.Shipment) Invoice {
	invoiceDate := now.With(s.BookingDate).BeginningOfDay()

	line := LineItem{
		Description: Describe(s),
		Quantity:    1,
		UnitPrice:   s.NetPrice,
		Total:       s.NetPrice,
	}

	status := PaymentPending
	if s.Stage == shipment.StageDelivered {
		status = PaymentPaid
	}

	return Invoice{
		ID:            s.Code,
		InvoiceDate:   invoiceDate,
		DueDate:       invoiceDate.AddDate(0, 0, PaymentTermDays),
		BilledFrom:    BilledFrom,
		BilledTo:      s.Sender,
		ShipTo:        s.Receiver,
		Items:         []LineItem{line},
		Subtotal:      s.NetPrice,
		TaxRate:       TaxRate,
		TaxAmount:     s.TaxAmount,
		GrandTotal:    s.NetPrice.Add(s.TaxAmount),
		PaymentStatus: status,
	}
}

// Describe renders the single line item text for a shipment
func Describe(s shipment.Shipment) string {
	return fmt.Sprintf("%s courier service, %s kg (%s to %s)",
		s.ServiceType,
		decimal.NewFromFloat(s.Package.Weight).StringFixed(2),
		s.Sender.City,
		s.Receiver.City,
	)
}
