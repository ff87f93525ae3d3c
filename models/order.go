package models

import "time"

const (
	OrderActive    = "active"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TableID     uint        `gorm:"not null;index" json:"table_id"`
	Table       Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ServerID    uint        `gorm:"not null;index" json:"server_id"`
	Server      User        `gorm:"foreignKey:ServerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"server"`
	GuestCount  int         `gorm:"not null" json:"guest_count"`
	Status      string      `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	TotalAmount float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Tip         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tip"`
	OrderItems  []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

// IsActive -> hanya order aktif yang boleh dimutasi
func (o *Order) IsActive() bool {
	return o.Status == OrderActive
}
