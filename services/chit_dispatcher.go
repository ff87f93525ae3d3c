package services

import (
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/kds"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// ChitDispatcher memegang tiket dapur. State machine chit:
// pending --(semua item done)--> ready --(MarkChitAsRun)--> run (terminal).
// Chit pending menampung beberapa kali fire; setelah ready, fire berikutnya
// membuka chit baru karena makanan yang sudah naik tidak bisa ditarik.
type ChitDispatcher struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewChitDispatcher(db *gorm.DB, clock clockwork.Clock) *ChitDispatcher {
	return &ChitDispatcher{DB: db, Clock: clock}
}

// SendToKitchen -> kirim semua item yang belum terkirim. Item makanan masuk
// chit; item minuman ditandai terkirim tanpa chit (langsung ke bar).
// Mengembalikan jumlah item yang masuk chit.
func (cd *ChitDispatcher) SendToKitchen(orderID uint, tableNumber, serverName string) (int, error) {
	tableID, err := cd.tableIDForOrder(orderID)
	if err != nil {
		return 0, err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := cd.Clock.Now()
	tx := cd.DB.Begin()

	var order models.Order
	if err := tx.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	if !order.IsActive() {
		tx.Rollback()
		return 0, fmt.Errorf("%w: order %d is %s", utils.ErrInvalidState, orderID, order.Status)
	}

	var unsent []models.OrderItem
	for _, item := range order.OrderItems {
		if !item.SentToKitchen {
			unsent = append(unsent, item)
		}
	}
	if len(unsent) == 0 {
		tx.Rollback()
		return 0, fmt.Errorf("%w: order %d has no unsent items", utils.ErrNothingToSend, orderID)
	}

	var food []models.OrderItem
	for _, item := range unsent {
		if item.Category != models.CategoryBeverage {
			food = append(food, item)
		}
	}

	var chit *models.Chit
	if len(food) > 0 {
		// Cari chit pending yang masih terbuka untuk order ini;
		// chit yang sudah ready tidak pernah dibuka kembali
		var open models.Chit
		err := tx.Where("order_id = ? AND status = ?", orderID, models.ChitPending).First(&open).Error
		switch {
		case err == nil:
			chit = &open
		case errors.Is(err, gorm.ErrRecordNotFound):
			chit = &models.Chit{
				OrderID:     orderID,
				TableNumber: tableNumber,
				ServerName:  serverName,
				Status:      models.ChitPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := tx.Create(chit).Error; err != nil {
				tx.Rollback()
				return 0, err
			}
		default:
			tx.Rollback()
			return 0, err
		}

		for _, item := range food {
			chitItem := models.ChitItem{
				ChitID:        chit.ID,
				OrderItemID:   item.ID,
				Name:          item.Name,
				GuestNumber:   item.GuestNumber,
				Modifications: item.Modifications,
				Notes:         item.Notes,
				Done:          false,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := tx.Create(&chitItem).Error; err != nil {
				tx.Rollback()
				return 0, err
			}
		}
	}

	// Tandai terkirim dalam transaksi yang sama dengan mutasi chit;
	// pembacaan lain tidak pernah melihat pengiriman setengah jalan
	for i := range unsent {
		unsent[i].SentToKitchen = true
		unsent[i].UpdatedAt = now
		if err := tx.Save(&unsent[i]).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}

	if chit != nil {
		var full models.Chit
		if err := cd.DB.Preload("Items").First(&full, chit.ID).Error; err == nil {
			kds.Broadcast(kds.EventChitUpdate, full)
		}
	}
	return len(food), nil
}

// MarkItemDone -> chef menandai satu item selesai. Saat semua item done,
// chit menjadi ready dan completedAt terisi.
func (cd *ChitDispatcher) MarkItemDone(chitID uint, chitItemID uint) (*models.Chit, error) {
	tableID, err := cd.tableIDForChit(chitID)
	if err != nil {
		return nil, err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := cd.Clock.Now()
	tx := cd.DB.Begin()

	var chit models.Chit
	if err := tx.Preload("Items").First(&chit, chitID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: chit %d", utils.ErrNotFound, chitID)
	}
	if chit.Status != models.ChitPending {
		tx.Rollback()
		return nil, fmt.Errorf("%w: chit %d is %s", utils.ErrInvalidState, chitID, chit.Status)
	}

	found := false
	allDone := true
	for i := range chit.Items {
		if chit.Items[i].ID == chitItemID {
			found = true
			if !chit.Items[i].Done {
				chit.Items[i].Done = true
				chit.Items[i].UpdatedAt = now
				if err := tx.Save(&chit.Items[i]).Error; err != nil {
					tx.Rollback()
					return nil, err
				}
			}
		}
		if !chit.Items[i].Done {
			allDone = false
		}
	}
	if !found {
		tx.Rollback()
		return nil, fmt.Errorf("%w: item %d on chit %d", utils.ErrNotFound, chitItemID, chitID)
	}

	becameReady := false
	if allDone {
		chit.Status = models.ChitReady
		chit.CompletedAt = &now
		chit.UpdatedAt = now
		if err := tx.Save(&chit).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		becameReady = true
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	if becameReady {
		kds.Broadcast(kds.EventChitReady, chit)
	} else {
		kds.Broadcast(kds.EventChitUpdate, chit)
	}
	return &chit, nil
}

// MarkChitAsRun -> makanan sudah diantar ke meja. Terminal; hanya boleh
// dari status ready dan tidak bisa diulang.
func (cd *ChitDispatcher) MarkChitAsRun(chitID uint) (*models.Chit, error) {
	tableID, err := cd.tableIDForChit(chitID)
	if err != nil {
		return nil, err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := cd.Clock.Now()
	tx := cd.DB.Begin()

	var chit models.Chit
	if err := tx.Preload("Items").First(&chit, chitID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: chit %d", utils.ErrNotFound, chitID)
	}
	if chit.Status != models.ChitReady || chit.Run {
		tx.Rollback()
		return nil, fmt.Errorf("%w: chit %d is not ready to run", utils.ErrInvalidState, chitID)
	}

	chit.Run = true
	chit.UpdatedAt = now
	if err := tx.Save(&chit).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventChitRun, chit)
	return &chit, nil
}

// HasReadyFood -> sinyal "attention" untuk floor staff: ada chit ready
// yang belum diantar untuk meja ini
func (cd *ChitDispatcher) HasReadyFood(tableNumber string) (bool, error) {
	var count int64
	err := cd.DB.Model(&models.Chit{}).
		Where("table_number = ? AND status = ? AND run = ?", tableNumber, models.ChitReady, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListReadyChits -> chit siap antar untuk tampilan floor
func (cd *ChitDispatcher) ListReadyChits() ([]models.Chit, error) {
	var chits []models.Chit
	err := cd.DB.Preload("Items").
		Where("status = ? AND run = ?", models.ChitReady, false).
		Order("created_at asc").Find(&chits).Error
	if err != nil {
		return nil, err
	}
	return chits, nil
}

// ListOpenChits -> tampilan dapur: semua chit yang belum diantar
func (cd *ChitDispatcher) ListOpenChits() ([]models.Chit, error) {
	var chits []models.Chit
	err := cd.DB.Preload("Items").
		Where("run = ?", false).
		Order("created_at asc").Find(&chits).Error
	if err != nil {
		return nil, err
	}
	return chits, nil
}

func (cd *ChitDispatcher) tableIDForOrder(orderID uint) (uint, error) {
	var order models.Order
	if err := cd.DB.Select("id", "table_id").First(&order, orderID).Error; err != nil {
		return 0, fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	return order.TableID, nil
}

func (cd *ChitDispatcher) tableIDForChit(chitID uint) (uint, error) {
	var chit models.Chit
	if err := cd.DB.Select("id", "order_id").First(&chit, chitID).Error; err != nil {
		return 0, fmt.Errorf("%w: chit %d", utils.ErrNotFound, chitID)
	}
	return cd.tableIDForOrder(chit.OrderID)
}
