package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"courier-booking/models/shipment"
	"courier-booking/services/invoice"
	"courier-booking/services/tracking"
	"courier-booking/types"

	"github.com/shopspring/decimal"
)

const dateLayout = "02 Jan 2006"

func rupees(d decimal.Decimal) string {
	return "Rs " + d.StringFixed(2)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printShipments(w io.Writer, list []shipment.Shipment) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No shipments yet")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tBOOKED\tFROM\tTO\tSERVICE\tSTAGE\tTOTAL")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Code, s.BookingDate.Format(dateLayout), s.Sender.City, s.Receiver.City, s.ServiceType, s.Stage, rupees(s.Total))
	}
	tw.Flush()
}

func printPage(w io.Writer, page types.ShipmentPage) {
	printShipments(w, page.Shipments)
	fmt.Fprintf(w, "Page %d of %d, %d shipments\n", page.CurrentPage, page.TotalPages, page.TotalCount)
}

func partyLine(p shipment.Party) string {
	return fmt.Sprintf("%s, %s, %s, %s %s, %s (%s)", p.Name, p.Street, p.City, p.State, p.Pincode, p.Country, p.Phone)
}

func printShipment(w io.Writer, s shipment.Shipment) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID\t%s\n", s.Code)
	fmt.Fprintf(tw, "Stage\t%s\n", s.Stage)
	fmt.Fprintf(tw, "Service\t%s\n", s.ServiceType)
	fmt.Fprintf(tw, "Booked\t%s\n", s.BookingDate.Format(tracking.LabelLayout))
	fmt.Fprintf(tw, "Pickup\t%s\n", s.PickupDate.Format(dateLayout))
	fmt.Fprintf(tw, "From\t%s\n", partyLine(s.Sender))
	fmt.Fprintf(tw, "To\t%s\n", partyLine(s.Receiver))
	fmt.Fprintf(tw, "Package\t%s kg, %gx%gx%g cm\n",
		decimal.NewFromFloat(s.Package.Weight).StringFixed(2), s.Package.Length, s.Package.Width, s.Package.Height)
	fmt.Fprintf(tw, "Price\t%s + %s tax = %s\n", rupees(s.NetPrice), rupees(s.TaxAmount), rupees(s.Total))
	tw.Flush()
}

var stepMarks = map[tracking.StepStatus]string{
	tracking.StepCompleted: "[x]",
	tracking.StepCurrent:   "[>]",
	tracking.StepPending:   "[ ]",
}

func printSteps(w io.Writer, steps []tracking.Step) {
	if len(steps) == 0 {
		fmt.Fprintln(w, "No tracking history yet")
		return
	}
	tw := newTable(w)
	for _, step := range steps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", stepMarks[step.Status], step.Label, step.Stage, step.Location, step.Activity)
	}
	tw.Flush()
}

func printInvoice(w io.Writer, inv invoice.Invoice) {
	fmt.Fprintf(w, "Invoice %s\n", inv.ID)
	fmt.Fprintf(w, "Date %s, due %s, %s\n", inv.InvoiceDate.Format(dateLayout), inv.DueDate.Format(dateLayout), inv.PaymentStatus)
	fmt.Fprintf(w, "From: %s\n", inv.BilledFrom.Name)
	fmt.Fprintf(w, "Bill to: %s\n", partyLine(inv.BilledTo))
	fmt.Fprintf(w, "Ship to: %s\n", partyLine(inv.ShipTo))

	tw := newTable(w)
	fmt.Fprintln(tw, "ITEM\tQTY\tPRICE\tTOTAL")
	for _, item := range inv.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", item.Description, item.Quantity, rupees(item.UnitPrice), rupees(item.Total))
	}
	fmt.Fprintf(tw, "Subtotal\t\t\t%s\n", rupees(inv.Subtotal))
	fmt.Fprintf(tw, "GST %s%%\t\t\t%s\n", inv.TaxRate.Mul(decimal.NewFromInt(100)).String(), rupees(inv.TaxAmount))
	fmt.Fprintf(tw, "Total\t\t\t%s\n", rupees(inv.GrandTotal))
	tw.Flush()
}
