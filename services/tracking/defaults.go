package tracking

import (
	"courier-booking/models/shipment"
)

// DefaultActivity is the note attached to a status change when the operator leaves it blank
func DefaultActivity(target shipment.TrackingStage, s shipment.Shipment) string {
	switch target {
	case shipment.StageBooked:
		return "Shipment booked"
	case shipment.StageInTransit:
		return "Shipment in transit"
	case shipment.StageOutForDelivery:
		return "Out for delivery"
	case shipment.StageDelivered:
		return "Delivered to " + s.Receiver.Name
	case shipment.StageCancelled:
		return "Shipment cancelled"
	}
	return ""
}

func DefaultLocation(target shipment.TrackingStage, s shipment.Shipment) string {
	switch target {
	case shipment.StageBooked, shipment.StageCancelled:
		return s.Sender.City
	case shipment.StageInTransit:
		return s.Sender.City + " Hub"
	case shipment.StageOutForDelivery, shipment.StageDelivered:
		return s.Receiver.City
	}
	return ""
}
