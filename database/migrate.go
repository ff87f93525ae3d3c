package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/models"
)

// AutoMigrate menyiapkan seluruh skema inti
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.PartyBlock{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Chit{},
		&models.ChitItem{},
		&models.TableHistoryRecord{},
		&models.HistoryChit{},
		&models.HistoryChitItem{},
	)
}

// SeedCategories memastikan kategori dasar ada; kategori beverage wajib
// ada karena menentukan item mana yang tidak masuk chit dapur.
func SeedCategories(db *gorm.DB) error {
	names := []string{"appetizer", "entree", "dessert", models.CategoryBeverage}
	for _, name := range names {
		var category models.MenuCategory
		err := db.Where("name = ?", name).First(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.MenuCategory{Name: name}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
