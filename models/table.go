package models

import "time"

// Status meja adalah enumerasi tertutup
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

type Table struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	TableNumber    string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"table_number"`
	Seats          int        `gorm:"not null;default:4" json:"seats"`
	Section        string     `gorm:"type:varchar(50)" json:"section"`
	Status         string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	ServerID       *uint      `gorm:"index" json:"server_id,omitempty"`
	Server         *User      `gorm:"foreignKey:ServerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"server,omitempty"`
	GuestCount     int        `json:"guest_count"`
	SeatedAt       *time.Time `json:"seated_at,omitempty"`
	CurrentOrderID *uint      `gorm:"index" json:"current_order_id,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}
