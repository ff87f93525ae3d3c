package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/finance"
)

// InitDB membuka koneksi database sesuai DB_DRIVER (mysql|sqlite).
// Default sqlite file lokal supaya development tidak butuh server DB.
func InitDB() (*gorm.DB, error) {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "mysql":
		dsn := os.Getenv("DB_DSN")
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
				getEnv("DB_HOST", "127.0.0.1"), getEnv("DB_PORT", "3306"),
				getEnv("DB_NAME", "restaurant_floor"))
		}
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "sqlite":
		dsn := getEnv("DB_DSN", "restaurant_floor.db")
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}
}

// TaxRate -> tarif pajak dari env, default 8.25%
func TaxRate() float64 {
	return getEnvFloat("TAX_RATE", 0.0825)
}

// TipOutPcts -> persentase tip-out kitchen/host dari env
func TipOutPcts() (kitchen, host float64) {
	return getEnvFloat("TIPOUT_KITCHEN_PCT", finance.DefaultKitchenPct),
		getEnvFloat("TIPOUT_HOST_PCT", finance.DefaultHostPct)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
