package models

import "time"

const (
	ChitPending = "pending"
	ChitReady   = "ready"
)

// Chit -> tiket dapur. Satu chit bisa menampung beberapa kali "fire" selama
// masih pending; setelah ready, fire berikutnya membuka chit baru.
type Chit struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Order       Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber string     `gorm:"type:varchar(50);not null" json:"table_number"`
	ServerName  string     `gorm:"type:varchar(255);not null" json:"server_name"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Run         bool       `gorm:"not null;default:false" json:"run"`
	Items       []ChitItem `gorm:"foreignKey:ChitID" json:"items"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type ChitItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ChitID        uint      `gorm:"not null;index" json:"chit_id"`
	Chit          Chit      `gorm:"foreignKey:ChitID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OrderItemID   uint      `gorm:"not null" json:"order_item_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	GuestNumber   int       `gorm:"not null" json:"guest_number"`
	Modifications string    `gorm:"type:text" json:"modifications"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Done          bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
