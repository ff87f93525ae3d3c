package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/kds"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// TableRegistry memegang state machine okupansi meja.
// Semua operasi read-then-write mengunci table id dulu (utils.LockTable)
// lalu jalan dalam satu transaksi, supaya dua terminal yang menyentuh meja
// yang sama terserialisasi.
type TableRegistry struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewTableRegistry(db *gorm.DB, clock clockwork.Clock) *TableRegistry {
	return &TableRegistry{DB: db, Clock: clock}
}

// SeatTable -> dudukkan party di meja. Tidak membuat order; gunakan
// SeatParty supaya okupansi dan order dibuat dalam satu transaksi.
func (tr *TableRegistry) SeatTable(tableID uint, guestCount int, serverID uint) (*models.Table, error) {
	if guestCount < 1 {
		return nil, fmt.Errorf("%w: guest count %d", utils.ErrInvalidArgument, guestCount)
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := tr.Clock.Now()
	tx := tr.DB.Begin()
	table, err := seatTableTx(tx, tableID, guestCount, serverID, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventTableSeated, table)
	return table, nil
}

// SeatParty -> komposisi atomik seat + create order. Ini jalur yang dipakai
// floor staff; meja occupied tanpa order tidak pernah terlihat.
func (tr *TableRegistry) SeatParty(tableID uint, guestCount int, serverID uint) (*models.Table, *models.Order, error) {
	if guestCount < 1 {
		return nil, nil, fmt.Errorf("%w: guest count %d", utils.ErrInvalidArgument, guestCount)
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := tr.Clock.Now()
	tx := tr.DB.Begin()

	table, err := seatTableTx(tx, tableID, guestCount, serverID, now)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	order, err := createOrderTx(tx, table, serverID, guestCount, now)
	if err != nil {
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, nil, err
	}

	kds.Broadcast(kds.EventTableSeated, table)
	kds.Broadcast(kds.EventOrderCreated, order)
	return table, order, nil
}

// ReleaseTable -> kembalikan meja ke available. Gagal selama masih ada
// order aktif yang menunjuk meja ini.
func (tr *TableRegistry) ReleaseTable(tableID uint) (*models.Table, error) {
	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := tr.Clock.Now()
	tx := tr.DB.Begin()

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}

	if table.CurrentOrderID != nil {
		var order models.Order
		if err := tx.First(&order, *table.CurrentOrderID).Error; err == nil && order.IsActive() {
			tx.Rollback()
			return nil, fmt.Errorf("%w: table %d still has active order %d", utils.ErrInvalidState, tableID, order.ID)
		}
	}

	if err := releaseTableTx(tx, &table, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventTableReleased, table)
	return &table, nil
}

// ApplyPartyBlock -> blokir sejumlah meja untuk jendela waktu tertentu.
// Meja yang sedang occupied dilewati; mengembalikan jumlah meja yang diblokir.
func (tr *TableRegistry) ApplyPartyBlock(tableIDs []uint, fromTime, toTime time.Time, maxGuests *int, notes string) (int, error) {
	if len(tableIDs) == 0 {
		return 0, fmt.Errorf("%w: no tables given", utils.ErrInvalidArgument)
	}
	if !toTime.After(fromTime) {
		return 0, fmt.Errorf("%w: block window ends before it starts", utils.ErrInvalidArgument)
	}
	if maxGuests != nil && *maxGuests < 1 {
		return 0, fmt.Errorf("%w: max guests %d", utils.ErrInvalidArgument, *maxGuests)
	}

	// Validasi seluruh id dulu supaya satu id salah tidak meninggalkan
	// blokir parsial
	var count int64
	if err := tr.DB.Model(&models.Table{}).Where("id IN ?", tableIDs).Count(&count).Error; err != nil {
		return 0, err
	}
	if int(count) != len(tableIDs) {
		return 0, fmt.Errorf("%w: one or more tables unknown", utils.ErrNotFound)
	}

	now := tr.Clock.Now()
	applied := 0
	for _, id := range tableIDs {
		blocked, err := tr.blockOneTable(id, fromTime, toTime, maxGuests, notes, now)
		if err != nil {
			return applied, err
		}
		if blocked {
			applied++
		}
	}
	return applied, nil
}

func (tr *TableRegistry) blockOneTable(tableID uint, fromTime, toTime time.Time, maxGuests *int, notes string, now time.Time) (bool, error) {
	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	tx := tr.DB.Begin()

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return false, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}

	if table.Status == models.TableOccupied {
		tx.Rollback()
		return false, nil
	}

	block := models.PartyBlock{
		TableID:   tableID,
		FromTime:  fromTime,
		ToTime:    toTime,
		MaxGuests: maxGuests,
		Notes:     notes,
		CreatedAt: now,
	}
	if err := tx.Create(&block).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	table.Status = models.TableReserved
	table.UpdatedAt = now
	if err := tx.Save(&table).Error; err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}

	kds.Broadcast(kds.EventTableBlocked, table)
	return true, nil
}

// ListTables -> seluruh meja untuk tampilan floor
func (tr *TableRegistry) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := tr.DB.Preload("Server").Order("table_number asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// GetTable -> detail satu meja
func (tr *TableRegistry) GetTable(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := tr.DB.Preload("Server").First(&table, tableID).Error; err != nil {
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}
	return &table, nil
}

// seatTableTx menjalankan transisi available/reserved -> occupied.
func seatTableTx(tx *gorm.DB, tableID uint, guestCount int, serverID uint, now time.Time) (*models.Table, error) {
	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}

	var server models.User
	if err := tx.First(&server, serverID).Error; err != nil {
		return nil, fmt.Errorf("%w: server %d", utils.ErrNotFound, serverID)
	}

	if table.Status == models.TableOccupied {
		return nil, fmt.Errorf("%w: table %s already occupied", utils.ErrInvalidState, table.TableNumber)
	}

	// Reserved hanya menolak seat selama block masih berlaku
	if table.Status == models.TableReserved {
		block, err := activeBlockTx(tx, tableID, now)
		if err != nil {
			return nil, err
		}
		if block != nil {
			return nil, fmt.Errorf("%w: table %s blocked until %s", utils.ErrInvalidState,
				table.TableNumber, block.ToTime.Format("15:04"))
		}
	}

	table.Status = models.TableOccupied
	table.ServerID = &serverID
	table.GuestCount = guestCount
	table.SeatedAt = &now
	table.UpdatedAt = now
	if err := tx.Save(&table).Error; err != nil {
		return nil, err
	}
	return &table, nil
}

// releaseTableTx mengosongkan meja; kembali ke reserved jika masih ada
// block yang berlaku, selain itu available.
func releaseTableTx(tx *gorm.DB, table *models.Table, now time.Time) error {
	status := models.TableAvailable
	block, err := activeBlockTx(tx, table.ID, now)
	if err != nil {
		return err
	}
	if block != nil {
		status = models.TableReserved
	}

	table.Status = status
	table.ServerID = nil
	table.GuestCount = 0
	table.SeatedAt = nil
	table.CurrentOrderID = nil
	table.UpdatedAt = now
	return tx.Save(table).Error
}

// activeBlockTx -> block yang mencakup waktu now untuk satu meja, atau nil
func activeBlockTx(tx *gorm.DB, tableID uint, now time.Time) (*models.PartyBlock, error) {
	var block models.PartyBlock
	err := tx.Where("table_id = ? AND from_time <= ? AND to_time > ?", tableID, now, now).
		Order("to_time desc").First(&block).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &block, nil
}
