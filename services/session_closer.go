package services

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/finance"
	"github.com/yeremiapane/restaurant-floor/kds"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// SessionCloser mengorkestrasi bill-out: validasi kelengkapan, hitung
// total dan metrik timing, tulis riwayat, lalu kosongkan meja — semuanya
// dalam satu transaksi di bawah lock meja.
type SessionCloser struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewSessionCloser(db *gorm.DB, clock clockwork.Clock) *SessionCloser {
	return &SessionCloser{DB: db, Clock: clock}
}

// CloseOrder -> tutup sesi meja dengan tip. Gagal IncompleteOrder selama
// masih ada item yang belum dikirim (kirim atau hapus dulu).
func (sc *SessionCloser) CloseOrder(tableID uint, tipAmount float64) (*models.TableHistoryRecord, error) {
	if tipAmount < 0 {
		return nil, fmt.Errorf("%w: tip %.2f is negative", utils.ErrInvalidArgument, tipAmount)
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := sc.Clock.Now()
	tx := sc.DB.Begin()

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}
	if table.CurrentOrderID == nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: table %s has no open session", utils.ErrInvalidState, table.TableNumber)
	}

	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, *table.CurrentOrderID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: order %d", utils.ErrNotFound, *table.CurrentOrderID)
	}
	if !order.IsActive() {
		tx.Rollback()
		return nil, fmt.Errorf("%w: order %d is %s", utils.ErrInvalidState, order.ID, order.Status)
	}

	for _, item := range order.OrderItems {
		if !item.SentToKitchen {
			tx.Rollback()
			return nil, fmt.Errorf("%w: item %q has not been sent", utils.ErrIncompleteOrder, item.Name)
		}
	}

	subtotal := finance.Subtotal(order.OrderItems)
	order.Tip = tipAmount
	order.TotalAmount = subtotal
	order.Status = models.OrderCompleted
	order.ClosedAt = &now
	order.UpdatedAt = now
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var chits []models.Chit
	if err := tx.Preload("Items").Where("order_id = ?", order.ID).
		Order("created_at asc").Find(&chits).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	seatedAt := order.CreatedAt
	if table.SeatedAt != nil {
		seatedAt = *table.SeatedAt
	} else {
		utils.InfoLogger.Warnf("table %s closed without seated_at, falling back to order time", table.TableNumber)
	}

	// Metrik timing sesi (menit)
	timeToOrder := 0.0
	if len(chits) > 0 {
		timeToOrder = finance.MinutesBetween(seatedAt, chits[0].CreatedAt)
	} else {
		utils.InfoLogger.Warnf("order %d closed with no kitchen chits", order.ID)
	}

	avgRun := 0.0
	completed := 0
	for _, chit := range chits {
		if chit.CompletedAt == nil {
			utils.InfoLogger.Warnf("chit %d has no completion time, excluded from run-time average", chit.ID)
			continue
		}
		avgRun += finance.MinutesBetween(chit.CreatedAt, *chit.CompletedAt)
		completed++
	}
	if completed > 0 {
		avgRun /= float64(completed)
	}

	record := models.TableHistoryRecord{
		TableID:         table.ID,
		ServerID:        order.ServerID,
		OrderID:         order.ID,
		SeatedAt:        seatedAt,
		ClosedAt:        now,
		GuestCount:      order.GuestCount,
		TotalSales:      subtotal,
		Tip:             tipAmount,
		TotalPartyTime:  finance.MinutesBetween(seatedAt, now),
		TimeToOrder:     timeToOrder,
		AvgOrderRunTime: avgRun,
		CreatedAt:       now,
	}
	for _, chit := range chits {
		snap := models.HistoryChit{
			ChitID:      chit.ID,
			Status:      chit.Status,
			Run:         chit.Run,
			FiredAt:     chit.CreatedAt,
			CompletedAt: chit.CompletedAt,
			CreatedAt:   now,
		}
		for _, item := range chit.Items {
			snap.Items = append(snap.Items, models.HistoryChitItem{
				Name:        item.Name,
				GuestNumber: item.GuestNumber,
				Done:        item.Done,
				CreatedAt:   now,
			})
		}
		record.Chits = append(record.Chits, snap)
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := releaseTableTx(tx, &table, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventOrderClosed, record)
	kds.Broadcast(kds.EventTableReleased, table)
	return &record, nil
}

// GetTableHistory -> riwayat sesi satu meja, terbaru dulu
func (sc *SessionCloser) GetTableHistory(tableID uint) ([]models.TableHistoryRecord, error) {
	var table models.Table
	if err := sc.DB.First(&table, tableID).Error; err != nil {
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}

	var records []models.TableHistoryRecord
	err := sc.DB.Preload("Chits.Items").Preload("Server").
		Where("table_id = ?", tableID).
		Order("closed_at desc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
