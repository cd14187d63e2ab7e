package user

import (
	"strings"
	"time"
)

// User is an account that can book shipments. IsAdmin unlocks the order management panel.
type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Uuid         string  `gorm:"type:varchar(255);not null;unique" json:"uuid"`
	Email        string  `gorm:"type:varchar(255);not null;unique" json:"email"`
	FirstName    *string `gorm:"type:varchar(255)" json:"first_name,omitempty"`
	LastName     *string `gorm:"type:varchar(255)" json:"last_name,omitempty"`
	IsAdmin      bool    `gorm:"type:bool;default:false" json:"is_admin"`
	PasswordHash string  `gorm:"type:varchar(255);not null" json:"-"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// DisplayName joins the optional names, falling back to the email
func (u User) DisplayName() string {
	var parts []string
	if u.FirstName != nil && *u.FirstName != "" {
		parts = append(parts, *u.FirstName)
	}
	if u.LastName != nil && *u.LastName != "" {
		parts = append(parts, *u.LastName)
	}
	if len(parts) == 0 {
		return u.Email
	}
	return strings.Join(parts, " ")
}
