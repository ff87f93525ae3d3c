package models

import "time"

// TableHistoryRecord dibuat sekali saat bill-out dan tidak pernah diubah.
// Semua durasi disimpan dalam menit.
type TableHistoryRecord struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	TableID         uint          `gorm:"not null;index" json:"table_id"`
	Table           Table         `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	ServerID        uint          `gorm:"not null;index" json:"server_id"`
	Server          User          `gorm:"foreignKey:ServerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"server"`
	OrderID         uint          `gorm:"not null" json:"order_id"`
	SeatedAt        time.Time     `gorm:"not null" json:"seated_at"`
	ClosedAt        time.Time     `gorm:"not null" json:"closed_at"`
	GuestCount      int           `gorm:"not null" json:"guest_count"`
	TotalSales      float64       `gorm:"type:decimal(12,2);not null" json:"total_sales"`
	Tip             float64       `gorm:"type:decimal(12,2);not null" json:"tip"`
	TotalPartyTime  float64       `gorm:"not null" json:"total_party_time"`
	TimeToOrder     float64       `gorm:"not null" json:"time_to_order"`
	AvgOrderRunTime float64       `gorm:"not null" json:"avg_order_run_time"`
	Chits           []HistoryChit `gorm:"foreignKey:RecordID" json:"chits"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
}

// HistoryChit adalah snapshot chit pada saat sesi ditutup.
type HistoryChit struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	RecordID    uint               `gorm:"not null;index" json:"record_id"`
	Record      TableHistoryRecord `gorm:"foreignKey:RecordID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ChitID      uint               `gorm:"not null" json:"chit_id"`
	Status      string             `gorm:"type:varchar(20);not null" json:"status"`
	Run         bool               `gorm:"not null" json:"run"`
	FiredAt     time.Time          `gorm:"not null" json:"fired_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Items       []HistoryChitItem  `gorm:"foreignKey:HistoryChitID" json:"items"`
	CreatedAt   time.Time          `gorm:"not null" json:"created_at"`
}

type HistoryChitItem struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	HistoryChitID uint        `gorm:"not null;index" json:"history_chit_id"`
	HistoryChit   HistoryChit `gorm:"foreignKey:HistoryChitID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name          string      `gorm:"type:varchar(255);not null" json:"name"`
	GuestNumber   int         `gorm:"not null" json:"guest_number"`
	Done          bool        `gorm:"not null" json:"done"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
}
