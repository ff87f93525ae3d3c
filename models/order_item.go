package models

import "time"

// OrderItem menyimpan snapshot nama/harga/kategori dari katalog saat item
// ditambahkan, supaya edit menu di kemudian hari tidak mengubah order lama.
type OrderItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	Order         Order     `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID        uint      `gorm:"not null" json:"menu_id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Category      string    `gorm:"type:varchar(50);not null" json:"category"`
	GuestNumber   int       `gorm:"not null" json:"guest_number"`
	Modifications string    `gorm:"type:text" json:"modifications"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Price         float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	SentToKitchen bool      `gorm:"not null;default:false" json:"sent_to_kitchen"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
