package models

import "time"

// PartyBlock -> blokir reservasi meja oleh manager untuk rentang waktu tertentu.
// Meja dengan block aktif tidak boleh di-seat sampai jendela waktunya lewat.
type PartyBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableID   uint      `gorm:"not null;index" json:"table_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	FromTime  time.Time `gorm:"not null" json:"from_time"`
	ToTime    time.Time `gorm:"not null" json:"to_time"`
	MaxGuests *int      `json:"max_guests,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

// ActiveAt -> apakah block ini sedang berlaku pada waktu t
func (pb *PartyBlock) ActiveAt(t time.Time) bool {
	return !t.Before(pb.FromTime) && t.Before(pb.ToTime)
}
