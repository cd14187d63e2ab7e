package invoice

import (
	"fmt"
	"io"
	"strings"

	"courier-booking/models/shipment"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const dateLayout = "02 Jan 2006"

// the core fonts are latin-1 only, so amounts are prefixed with the currency code
func money(d decimal.Decimal) string {
	return "INR " + d.StringFixed(2)
}

func partyLines(p shipment.Party) []string {
	return []string{
		p.Name,
		p.Street,
		fmt.Sprintf("%s, %s %s", p.City, p.State, p.Pincode),
		p.Country,
		"Phone: " + p.Phone,
	}
}

// RenderPDF writes an A4 invoice document for inv to w
func RenderPDF(inv Invoice, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.ID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(120, 10, inv.BilledFrom.Name)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(70, 10, "INVOICE", "", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	company := []string{
		inv.BilledFrom.Street,
		fmt.Sprintf("%s, %s %s, %s", inv.BilledFrom.City, inv.BilledFrom.State, inv.BilledFrom.Pincode, inv.BilledFrom.Country),
		"Phone: " + inv.BilledFrom.Phone + "  Email: " + inv.BilledFrom.Email,
		"GSTIN: " + inv.BilledFrom.GSTIN,
	}
	for _, line := range company {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	meta := [][2]string{
		{"Invoice No.", inv.ID},
		{"Invoice Date", inv.InvoiceDate.Format(dateLayout)},
		{"Due Date", inv.DueDate.Format(dateLayout)},
		{"Status", string(inv.PaymentStatus)},
	}
	for _, m := range meta {
		pdf.CellFormat(35, 6, m[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, m[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(95, 6, "Billed To", "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Ship To", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	billed, ship := partyLines(inv.BilledTo), partyLines(inv.ShipTo)
	for i := range billed {
		pdf.CellFormat(95, 5, billed[i], "", 0, "L", false, 0, "")
		pdf.CellFormat(95, 5, ship[i], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, item := range inv.Items {
		pdf.CellFormat(100, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, money(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, money(item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	rate := inv.TaxRate.Mul(decimal.NewFromInt(100)).String()
	totals := [][2]string{
		{"Subtotal", money(inv.Subtotal)},
		{"Tax (" + rate + "%)", money(inv.TaxAmount)},
		{"Grand Total", money(inv.GrandTotal)},
	}
	for i, t := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(155, 7, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, t[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 8)
	pdf.MultiCell(0, 4, strings.Join([]string{
		"Payment is due within 15 days of the invoice date.",
		"This is a computer generated invoice and does not require a signature.",
	}, "\n"), "", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render invoice %s: %w", inv.ID, err)
	}
	return pdf.Output(w)
}
