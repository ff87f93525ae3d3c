package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/config"
	"github.com/yeremiapane/restaurant-floor/finance"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type AdminController struct {
	DB        *gorm.DB
	Snapshots *services.SnapshotService
}

func NewAdminController(db *gorm.DB, clock clockwork.Clock) *AdminController {
	return &AdminController{
		DB:        db,
		Snapshots: services.NewSnapshotService(db, clock),
	}
}

// GetDashboardStats -> ringkasan lantai untuk management
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" && roleInterface != "manager" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var available, occupied, reserved, activeOrders, readyChits int64
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableAvailable).Count(&available)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableOccupied).Count(&occupied)
	ac.DB.Model(&models.Table{}).Where("status = ?", models.TableReserved).Count(&reserved)
	ac.DB.Model(&models.Order{}).Where("status = ?", models.OrderActive).Count(&activeOrders)
	ac.DB.Model(&models.Chit{}).Where("status = ? AND run = ?", models.ChitReady, false).Count(&readyChits)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", gin.H{
		"tables": gin.H{
			"available": available,
			"occupied":  occupied,
			"reserved":  reserved,
			"total":     available + occupied + reserved,
		},
		"active_orders": activeOrders,
		"ready_chits":   readyChits,
	})
}

// ExportSnapshot -> seluruh state lantai sebagai data polos
func (ac *AdminController) ExportSnapshot(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	snap, err := ac.Snapshots.Export()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Floor snapshot %s exported", snap.SnapshotID)
	utils.RespondJSON(c, http.StatusOK, "Floor snapshot", snap)
}

// RestoreSnapshot -> muat ulang state lantai dari snapshot
func (ac *AdminController) RestoreSnapshot(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var snap services.FloorSnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.Snapshots.Restore(&snap); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Floor snapshot %s restored", snap.SnapshotID)
	utils.RespondJSON(c, http.StatusOK, "Snapshot restored", gin.H{
		"snapshot_id": snap.SnapshotID,
	})
}

// GetTipOut -> pembagian tip server per aturan tip-out rumah
func (ac *AdminController) GetTipOut(c *gin.Context) {
	var req struct {
		TipsEarned float64 `json:"tips_earned"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	kitchenPct, hostPct := config.TipOutPcts()
	split, err := finance.TipOut(req.TipsEarned, kitchenPct, hostPct)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tip-out split", split)
}
