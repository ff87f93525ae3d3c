package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

type SessionController struct {
	DB     *gorm.DB
	Closer *services.SessionCloser
}

func NewSessionController(db *gorm.DB, clock clockwork.Clock) *SessionController {
	return &SessionController{
		DB:     db,
		Closer: services.NewSessionCloser(db, clock),
	}
}

// CloseTable -> bill-out: tutup order, tulis riwayat, kosongkan meja
func (sc *SessionController) CloseTable(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Tip float64 `json:"tip"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	record, err := sc.Closer.CloseOrder(tableID, req.Tip)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}

	utils.InfoLogger.Printf("Table %d billed out: sales %s, tip %s, party %.0f min",
		tableID, utils.FormatCurrency(record.TotalSales),
		utils.FormatCurrency(record.Tip), record.TotalPartyTime)
	utils.RespondJSON(c, http.StatusOK, "Session closed", record)
}

// GetTableHistory -> riwayat sesi satu meja
func (sc *SessionController) GetTableHistory(c *gin.Context) {
	tableID, err := paramUint(c, "table_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	records, err := sc.Closer.GetTableHistory(tableID)
	if err != nil {
		utils.RespondTypedError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table history", records)
}
