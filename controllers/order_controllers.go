package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Ledger *services.OrderLedger
}

func NewOrderController(db *gorm.DB, clock clockwork.Clock) *OrderController {
	return &OrderController{
		DB:     db,
		Ledger: services.NewOrderLedger(db, clock),
	}
}

// CreateOrder -> buka order untuk meja occupied (jalur non-SeatParty,
// mis. order kedua setelah cancel)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		ServerID   uint `json:"server_id" binding:"required"`
		GuestCount int  `json:"guest_count" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Ledger.CreateOrder(tableID, req.ServerID, req.GuestCount)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d opened for table %d", order.ID, tableID)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetActiveOrderByTable -> order aktif satu meja
func (oc *OrderController) GetActiveOrderByTable(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Ledger.GetActiveOrderByTable(tableID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active order", order)
}

// ListActiveOrders -> seluruh order aktif
func (oc *OrderController) ListActiveOrders(c *gin.Context) {
	orders, err := oc.Ledger.ListActiveOrders()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}

// AddItem -> tambah item ke order
func (oc *OrderController) AddItem(c *gin.Context) {
	orderID, err := paramUint(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var input services.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := oc.Ledger.AddItem(orderID, input)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Item %q added to order %d (guest %d)", item.Name, orderID, item.GuestNumber)
	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

// RemoveItem -> hapus item yang belum dikirim
func (oc *OrderController) RemoveItem(c *gin.Context) {
	orderID, err := paramUint(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	itemID, err := paramUint(c, "item_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Ledger.RemoveItem(orderID, itemID); err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", gin.H{"item_id": itemID})
}

// GetOrderTotal -> subtotal order saat ini
func (oc *OrderController) GetOrderTotal(c *gin.Context) {
	orderID, err := paramUint(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	total, err := oc.Ledger.ComputeTotal(orderID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order total", gin.H{
		"order_id":  orderID,
		"total":     total,
		"formatted": utils.FormatCurrency(total),
	})
}

// CancelOrder -> batalkan order aktif dan lepaskan mejanya
func (oc *OrderController) CancelOrder(c *gin.Context) {
	orderID, err := paramUint(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.Ledger.CancelOrder(orderID); err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d cancelled", orderID)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{"order_id": orderID})
}
