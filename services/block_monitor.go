package services

import (
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/kds"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// BlockMonitor menyapu meja reserved secara berkala dan mengembalikannya
// ke available begitu jendela block-nya lewat.
type BlockMonitor struct {
	DB       *gorm.DB
	Clock    clockwork.Clock
	StopChan chan struct{}
	Interval time.Duration
}

func NewBlockMonitor(db *gorm.DB, clock clockwork.Clock) *BlockMonitor {
	return &BlockMonitor{
		DB:       db,
		Clock:    clock,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
	}
}

func (bm *BlockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(bm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				bm.Sweep()
			case <-bm.StopChan:
				return
			}
		}
	}()
}

func (bm *BlockMonitor) Stop() {
	close(bm.StopChan)
}

// Sweep -> lepaskan meja reserved yang semua block-nya sudah kadaluarsa
func (bm *BlockMonitor) Sweep() {
	now := bm.Clock.Now()

	var tables []models.Table
	if err := bm.DB.Where("status = ?", models.TableReserved).Find(&tables).Error; err != nil {
		utils.ErrorLogger.Printf("block sweep query failed: %v", err)
		return
	}

	for _, t := range tables {
		bm.sweepOne(t.ID, now)
	}
}

func (bm *BlockMonitor) sweepOne(tableID uint, now time.Time) {
	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	tx := bm.DB.Begin()

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return
	}
	if table.Status != models.TableReserved {
		tx.Rollback()
		return
	}

	// Block yang masih berjalan atau belum mulai tetap menahan meja
	var pending int64
	if err := tx.Model(&models.PartyBlock{}).
		Where("table_id = ? AND to_time > ?", tableID, now).
		Count(&pending).Error; err != nil {
		tx.Rollback()
		return
	}
	if pending > 0 {
		tx.Rollback()
		return
	}

	table.Status = models.TableAvailable
	table.UpdatedAt = now
	if err := tx.Save(&table).Error; err != nil {
		tx.Rollback()
		return
	}
	if err := tx.Commit().Error; err != nil {
		return
	}

	utils.InfoLogger.Printf("Table %s block expired, back to available", table.TableNumber)
	kds.Broadcast(kds.EventTableUpdate, table)
}
