package asset

import "time"

// PaymentQRCode is an uploaded payment QR image. The newest row is the active one.
type PaymentQRCode struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName     string    `gorm:"size:255;not null" json:"file_name"`
	OriginalName string    `gorm:"size:255" json:"original_name"`
	MimeType     string    `gorm:"size:50;not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	StoragePath  string    `gorm:"type:text;not null" json:"-"`
	UploadedBy   uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName sets the table name for the PaymentQRCode model
func (PaymentQRCode) TableName() string {
	return "payment_qr_codes"
}
