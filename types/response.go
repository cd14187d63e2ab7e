package types

import (
	"courier-booking/models/shipment"
)

type ApiResponse struct {
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ShipmentPage is the admin listing payload
type ShipmentPage struct {
	Shipments   []shipment.Shipment `json:"shipments"`
	TotalPages  int64               `json:"totalPages"`
	CurrentPage int                 `json:"currentPage"`
	TotalCount  int64               `json:"totalCount"`
}
