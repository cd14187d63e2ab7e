package shipment

import (
	"time"
)

// ShipmentStatusEvent tracks stage history for a Shipment.
type ShipmentStatusEvent struct {
	ID         uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ShipmentID uint     `gorm:"not null;index"           json:"shipment_id"`
	Shipment   Shipment `gorm:"foreignKey:ShipmentID"    json:"-"`

	Stage     TrackingStage `gorm:"size:32;not null" json:"stage"`
	Location  string        `gorm:"size:255"         json:"location"`
	Activity  string        `gorm:"type:text"        json:"activity"`
	CreatedBy uint          `gorm:"not null;index"   json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the ShipmentStatusEvent model
func (ShipmentStatusEvent) TableName() string {
	return "shipment_status_events"
}
