package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type TableController struct {
	DB       *gorm.DB
	Registry *services.TableRegistry
}

func NewTableController(db *gorm.DB, clock clockwork.Clock) *TableController {
	return &TableController{
		DB:       db,
		Registry: services.NewTableRegistry(db, clock),
	}
}

// CreateTable -> menambahkan meja baru ke denah
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		TableNumber string `json:"table_number" binding:"required"`
		Seats       int    `json:"seats"`
		Section     string `json:"section"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Seats:       4,
		Section:     req.Section,
		Status:      models.TableAvailable,
	}
	if req.Seats > 0 {
		table.Seats = req.Seats
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New table created: %s (%d seats, section=%s)",
		table.TableNumber, table.Seats, table.Section)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Registry.ListTables()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Registry.GetTable(tableID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// SeatParty -> dudukkan party dan buka order dalam satu transaksi
func (tc *TableController) SeatParty(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		GuestCount int  `json:"guest_count" binding:"required"`
		ServerID   uint `json:"server_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, order, err := tc.Registry.SeatParty(tableID, req.GuestCount, req.ServerID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %s seated: %d guests, server %d, order %d",
		table.TableNumber, req.GuestCount, req.ServerID, order.ID)
	utils.RespondJSON(c, http.StatusCreated, "Party seated", gin.H{
		"table": table,
		"order": order,
	})
}

// ReleaseTable -> kosongkan meja yang ordernya sudah selesai
func (tc *TableController) ReleaseTable(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := tc.Registry.ReleaseTable(tableID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %s released", table.TableNumber)
	utils.RespondJSON(c, http.StatusOK, "Table released", table)
}

// ApplyPartyBlock -> manager memblokir sejumlah meja untuk satu jendela waktu
func (tc *TableController) ApplyPartyBlock(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "manager" && roleInterface != "admin" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		TableIDs  []uint    `json:"table_ids" binding:"required"`
		FromTime  time.Time `json:"from_time" binding:"required"`
		ToTime    time.Time `json:"to_time" binding:"required"`
		MaxGuests *int      `json:"max_guests"`
		Notes     string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	applied, err := tc.Registry.ApplyPartyBlock(req.TableIDs, req.FromTime, req.ToTime, req.MaxGuests, req.Notes)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Party block applied to %d of %d tables", applied, len(req.TableIDs))
	utils.RespondJSON(c, http.StatusOK, "Party block applied", gin.H{
		"tables_blocked": applied,
	})
}

// paramUint -> helper parse path param numerik
func paramUint(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
