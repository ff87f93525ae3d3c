package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type KitchenController struct {
	DB         *gorm.DB
	Dispatcher *services.ChitDispatcher
}

func NewKitchenController(db *gorm.DB, clock clockwork.Clock) *KitchenController {
	return &KitchenController{
		DB:         db,
		Dispatcher: services.NewChitDispatcher(db, clock),
	}
}

// FireOrder -> kirim item yang belum terkirim ke dapur
func (kc *KitchenController) FireOrder(c *gin.Context) {
	orderID, err := paramUint(c, "order_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Denormalisasi nomor meja + nama server untuk tampilan dapur
	var order models.Order
	if err := kc.DB.Preload("Table").Preload("Server").First(&order, orderID).Error; err != nil {
		utils.RespondTypedError(c, utils.ErrNotFound)
		return
	}

	sent, err := kc.Dispatcher.SendToKitchen(orderID, order.Table.TableNumber, order.Server.Name)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d fired: %d items to kitchen", orderID, sent)
	utils.RespondJSON(c, http.StatusOK, "Items sent to kitchen", gin.H{
		"order_id":   orderID,
		"items_sent": sent,
	})
}

// MarkItemDone -> chef menandai satu item chit selesai
func (kc *KitchenController) MarkItemDone(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "chef" && roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	chitID, err := paramUint(c, "chit_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	chitItemID, err := paramUint(c, "chit_item_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	chit, err := kc.Dispatcher.MarkItemDone(chitID, chitItemID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	if chit.Status == models.ChitReady {
		utils.InfoLogger.Printf("Chit %d ready for table %s", chit.ID, chit.TableNumber)
	}
	utils.RespondJSON(c, http.StatusOK, "Item done", chit)
}

// MarkChitAsRun -> makanan diantar ke meja (terminal)
func (kc *KitchenController) MarkChitAsRun(c *gin.Context) {
	chitID, err := paramUint(c, "chit_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	chit, err := kc.Dispatcher.MarkChitAsRun(chitID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Chit %d run to table %s", chit.ID, chit.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Chit run", chit)
}

// GetKitchenDisplay -> overview dapur: semua chit yang belum diantar
func (kc *KitchenController) GetKitchenDisplay(c *gin.Context) {
	role, _ := c.Get("role")
	if role != "chef" && role != "staff" && role != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	chits, err := kc.Dispatcher.ListOpenChits()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display", chits)
}

// ListReadyChits -> chit siap antar untuk floor staff
func (kc *KitchenController) ListReadyChits(c *gin.Context) {
	chits, err := kc.Dispatcher.ListReadyChits()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ready chits", chits)
}

// HasReadyFood -> sinyal attention per meja
func (kc *KitchenController) HasReadyFood(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := kc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondTypedError(c, utils.ErrNotFound)
		return
	}

	ready, err := kc.Dispatcher.HasReadyFood(table.TableNumber)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ready food status", gin.H{
		"table_number": table.TableNumber,
		"ready_food":   ready,
	})
}
