package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/finance"
	"github.com/yeremiapane/restaurant-floor/kds"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// OrderLedger memegang Order dan OrderItem. Harga/nama/kategori item
// di-snapshot dari katalog saat ditambahkan.
type OrderLedger struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewOrderLedger(db *gorm.DB, clock clockwork.Clock) *OrderLedger {
	return &OrderLedger{DB: db, Clock: clock}
}

// AddItemInput -> permintaan penambahan item oleh floor staff
type AddItemInput struct {
	MenuID        uint   `json:"menu_id"`
	GuestNumber   int    `json:"guest_number"`
	Modifications string `json:"modifications"`
	Notes         string `json:"notes"`
}

// CreateOrder -> buka order untuk meja yang sudah occupied.
// Conflict jika meja sudah punya order aktif.
func (ol *OrderLedger) CreateOrder(tableID uint, serverID uint, guestCount int) (*models.Order, error) {
	if guestCount < 1 {
		return nil, fmt.Errorf("%w: guest count %d", utils.ErrInvalidArgument, guestCount)
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := ol.Clock.Now()
	tx := ol.DB.Begin()

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}
	if table.Status != models.TableOccupied {
		tx.Rollback()
		return nil, fmt.Errorf("%w: table %s is not occupied", utils.ErrInvalidState, table.TableNumber)
	}

	order, err := createOrderTx(tx, &table, serverID, guestCount, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventOrderCreated, order)
	return order, nil
}

// AddItem -> tambah item ke order aktif dengan snapshot katalog
func (ol *OrderLedger) AddItem(orderID uint, input AddItemInput) (*models.OrderItem, error) {
	tableID, err := ol.tableIDForOrder(orderID)
	if err != nil {
		return nil, err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := ol.Clock.Now()
	tx := ol.DB.Begin()

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	if !order.IsActive() {
		tx.Rollback()
		return nil, fmt.Errorf("%w: order %d is %s", utils.ErrInvalidState, orderID, order.Status)
	}
	if input.GuestNumber < 1 || input.GuestNumber > order.GuestCount {
		tx.Rollback()
		return nil, fmt.Errorf("%w: guest number %d outside 1..%d", utils.ErrInvalidArgument,
			input.GuestNumber, order.GuestCount)
	}

	var menu models.Menu
	if err := tx.Preload("Category").First(&menu, input.MenuID).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("%w: menu item %d", utils.ErrNotFound, input.MenuID)
	}
	if !menu.Available {
		tx.Rollback()
		return nil, fmt.Errorf("%w: menu item %q is not available", utils.ErrInvalidState, menu.Name)
	}
	if menu.Price < 0 {
		tx.Rollback()
		return nil, fmt.Errorf("%w: menu item %q has negative price", utils.ErrInvalidArgument, menu.Name)
	}

	item := models.OrderItem{
		OrderID:       order.ID,
		MenuID:        menu.ID,
		Name:          menu.Name,
		Category:      strings.ToLower(menu.Category.Name),
		GuestNumber:   input.GuestNumber,
		Modifications: input.Modifications,
		Notes:         input.Notes,
		Price:         menu.Price,
		SentToKitchen: false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.Create(&item).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	kds.Broadcast(kds.EventItemAdded, item)
	return &item, nil
}

// RemoveItem -> hapus item yang belum dikirim ke dapur.
// Item yang sudah terkirim immutable; koreksi lewat void/refund terpisah.
func (ol *OrderLedger) RemoveItem(orderID uint, itemID uint) error {
	tableID, err := ol.tableIDForOrder(orderID)
	if err != nil {
		return err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	tx := ol.DB.Begin()

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	if !order.IsActive() {
		tx.Rollback()
		return fmt.Errorf("%w: order %d is %s", utils.ErrInvalidState, orderID, order.Status)
	}

	var item models.OrderItem
	if err := tx.Where("id = ? AND order_id = ?", itemID, orderID).First(&item).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: item %d on order %d", utils.ErrNotFound, itemID, orderID)
	}
	if item.SentToKitchen {
		tx.Rollback()
		return fmt.Errorf("%w: item %q already sent to kitchen", utils.ErrImmutable, item.Name)
	}

	if err := tx.Delete(&item).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	kds.Broadcast(kds.EventItemRemoved, item)
	return nil
}

// GetActiveOrderByTable -> order aktif satu meja beserta item-nya
func (ol *OrderLedger) GetActiveOrderByTable(tableID uint) (*models.Order, error) {
	var order models.Order
	err := ol.DB.Preload("OrderItems").Preload("Server").
		Where("table_id = ? AND status = ?", tableID, models.OrderActive).
		First(&order).Error
	if err != nil {
		return nil, fmt.Errorf("%w: no active order for table %d", utils.ErrNotFound, tableID)
	}
	return &order, nil
}

// ComputeTotal -> jumlah harga item order (delegasi ke finance)
func (ol *OrderLedger) ComputeTotal(orderID uint) (float64, error) {
	var order models.Order
	if err := ol.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		return 0, fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	return finance.Subtotal(order.OrderItems), nil
}

// ListActiveOrders -> seluruh order aktif untuk tampilan floor
func (ol *OrderLedger) ListActiveOrders() ([]models.Order, error) {
	var orders []models.Order
	err := ol.DB.Preload("OrderItems").Preload("Server").
		Where("status = ?", models.OrderActive).
		Order("created_at asc").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder -> batalkan order aktif dan kosongkan mejanya.
// Setelah cancelled, order immutable dan hanya dirujuk riwayat.
func (ol *OrderLedger) CancelOrder(orderID uint) error {
	tableID, err := ol.tableIDForOrder(orderID)
	if err != nil {
		return err
	}

	utils.LockTable(tableID)
	defer utils.UnlockTable(tableID)

	now := ol.Clock.Now()
	tx := ol.DB.Begin()

	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	if !order.IsActive() {
		tx.Rollback()
		return fmt.Errorf("%w: order %d is %s", utils.ErrInvalidState, orderID, order.Status)
	}

	order.Status = models.OrderCancelled
	order.ClosedAt = &now
	order.UpdatedAt = now
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		return err
	}

	var table models.Table
	if err := tx.First(&table, tableID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("%w: table %d", utils.ErrNotFound, tableID)
	}
	if table.CurrentOrderID != nil && *table.CurrentOrderID == orderID {
		if err := releaseTableTx(tx, &table, now); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	kds.Broadcast(kds.EventOrderCancelled, order)
	kds.Broadcast(kds.EventTableReleased, table)
	return nil
}

// tableIDForOrder -> resolve meja pemilik order untuk keperluan locking
func (ol *OrderLedger) tableIDForOrder(orderID uint) (uint, error) {
	var order models.Order
	if err := ol.DB.Select("id", "table_id").First(&order, orderID).Error; err != nil {
		return 0, fmt.Errorf("%w: order %d", utils.ErrNotFound, orderID)
	}
	return order.TableID, nil
}

// createOrderTx membuat order aktif baru dan menautkannya ke meja.
// Dipanggil di dalam transaksi yang sudah memegang lock meja.
func createOrderTx(tx *gorm.DB, table *models.Table, serverID uint, guestCount int, now time.Time) (*models.Order, error) {
	var existing models.Order
	err := tx.Where("table_id = ? AND status = ?", table.ID, models.OrderActive).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: table %s already has active order %d", utils.ErrConflict, table.TableNumber, existing.ID)
	}

	order := models.Order{
		TableID:    table.ID,
		ServerID:   serverID,
		GuestCount: guestCount,
		Status:     models.OrderActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	table.CurrentOrderID = &order.ID
	table.UpdatedAt = now
	if err := tx.Save(table).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
