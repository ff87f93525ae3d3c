package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// Katalog menu adalah input read-only bagi core; endpoint tulisnya hanya
// untuk seeding oleh admin. Order lama tidak terpengaruh edit katalog
// karena nama/harga/kategori di-snapshot saat item ditambahkan.
type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus -> seluruh item katalog
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu
	if err := mc.DB.Preload("Category").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByCategory -> filter katalog per kategori
func (mc *MenuController) GetMenuByCategory(c *gin.Context) {
	category := c.Query("category")

	var menus []models.Menu
	query := mc.DB.Preload("Category")
	if category != "" {
		query = query.Joins("JOIN menu_categories ON menu_categories.id = menus.category_id").
			Where("menu_categories.name = ?", category)
	}
	if err := query.Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menus by category", menus)
}

// CreateMenu -> admin menambahkan item katalog
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req struct {
		CategoryID  uint    `json:"category_id" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Price       float64 `json:"price"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Price < 0 {
		utils.RespondTypedError(c, utils.ErrInvalidArgument)
		return
	}

	menu := models.Menu{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Price:       req.Price,
		Available:   true,
		Description: req.Description,
	}
	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Menu created: %s (%s)", menu.Name, utils.FormatCurrency(menu.Price))
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenuAvailability -> 86 / un-86 item
func (mc *MenuController) UpdateMenuAvailability(c *gin.Context) {
	menuID, err := paramUint(c, "menu_id")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Available *bool `json:"available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var menu models.Menu
	if err := mc.DB.First(&menu, menuID).Error; err != nil {
		utils.RespondTypedError(c, utils.ErrNotFound)
		return
	}

	menu.Available = *req.Available
	if err := mc.DB.Save(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", menu)
}
