package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/controllers"
	"github.com/yeremiapane/restaurant-floor/database"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/services"
	"github.com/yeremiapane/restaurant-floor/utils"
)

func setupTestDBForSessions() (*gorm.DB, *clockwork.FakeClock) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.AutoMigrate(db); err != nil {
		panic(err)
	}
	if err := database.SeedCategories(db); err != nil {
		panic(err)
	}

	server := models.User{Name: "Dana", Email: "dana@floor.test", Password: "x", Role: "staff"}
	db.Create(&server)

	var entree models.MenuCategory
	db.Where("name = ?", "entree").First(&entree)
	db.Create(&models.Menu{CategoryID: entree.ID, Name: "Ribeye", Price: 32.00, Available: true})

	db.Create(&models.Table{TableNumber: "T1", Seats: 4, Status: models.TableAvailable})

	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	return db, clock
}

func setupSessionRouter(db *gorm.DB, clock clockwork.Clock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	sessionCtrl := controllers.NewSessionController(db, clock)
	router.POST("/tables/:table_id/close", sessionCtrl.CloseTable)
	router.GET("/tables/:table_id/history", sessionCtrl.GetTableHistory)
	return router
}

// runFullSessionForClose menjalankan seat, order, fire, done, run lewat service
func runFullSessionForClose(t *testing.T, db *gorm.DB, clock *clockwork.FakeClock) models.Table {
	t.Helper()

	var table models.Table
	db.Where("table_number = ?", "T1").First(&table)
	var server models.User
	db.Where("email = ?", "dana@floor.test").First(&server)
	var ribeye models.Menu
	db.Where("name = ?", "Ribeye").First(&ribeye)

	registry := services.NewTableRegistry(db, clock)
	_, order, err := registry.SeatParty(table.ID, 2, server.ID)
	if err != nil {
		t.Fatalf("seat failed: %v", err)
	}

	clock.Advance(10 * time.Minute)
	ledger := services.NewOrderLedger(db, clock)
	if _, err := ledger.AddItem(order.ID, services.AddItemInput{MenuID: ribeye.ID, GuestNumber: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	dispatcher := services.NewChitDispatcher(db, clock)
	if _, err := dispatcher.SendToKitchen(order.ID, table.TableNumber, server.Name); err != nil {
		t.Fatalf("fire failed: %v", err)
	}

	clock.Advance(15 * time.Minute)
	var chit models.Chit
	db.Preload("Items").Where("order_id = ?", order.ID).First(&chit)
	if _, err := dispatcher.MarkItemDone(chit.ID, chit.Items[0].ID); err != nil {
		t.Fatalf("mark done failed: %v", err)
	}
	if _, err := dispatcher.MarkChitAsRun(chit.ID); err != nil {
		t.Fatalf("mark run failed: %v", err)
	}
	return table
}

func TestCloseTableOverHTTP(t *testing.T) {
	utils.InitLogger()
	db, clock := setupTestDBForSessions()
	router := setupSessionRouter(db, clock)

	table := runFullSessionForClose(t, db, clock)
	clock.Advance(35 * time.Minute)

	payload, _ := json.Marshal(map[string]interface{}{"tip": 6.50})
	url := fmt.Sprintf("/tables/%d/close", table.ID)
	req, _ := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Session closed", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, 32.00, data["total_sales"])
	assert.Equal(t, 6.50, data["tip"])
	assert.InDelta(t, 10.0, data["time_to_order"].(float64), 0.01)
	assert.InDelta(t, 15.0, data["avg_order_run_time"].(float64), 0.01)
	assert.InDelta(t, 60.0, data["total_party_time"].(float64), 0.01)

	var freed models.Table
	db.First(&freed, table.ID)
	assert.Equal(t, models.TableAvailable, freed.Status)

	// Tutup kedua kali: sesi sudah tidak ada
	req, _ = http.NewRequest("POST", url, bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCloseTableIncompleteOrder(t *testing.T) {
	utils.InitLogger()
	db, clock := setupTestDBForSessions()
	router := setupSessionRouter(db, clock)

	var table models.Table
	db.Where("table_number = ?", "T1").First(&table)
	var server models.User
	db.Where("email = ?", "dana@floor.test").First(&server)
	var ribeye models.Menu
	db.Where("name = ?", "Ribeye").First(&ribeye)

	registry := services.NewTableRegistry(db, clock)
	_, order, err := registry.SeatParty(table.ID, 2, server.ID)
	assert.NoError(t, err)
	ledger := services.NewOrderLedger(db, clock)
	_, err = ledger.AddItem(order.ID, services.AddItemInput{MenuID: ribeye.ID, GuestNumber: 1})
	assert.NoError(t, err)

	// Item belum dikirim ke dapur
	payload, _ := json.Marshal(map[string]interface{}{"tip": 5.00})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/close", table.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetTableHistoryOverHTTP(t *testing.T) {
	utils.InitLogger()
	db, clock := setupTestDBForSessions()
	router := setupSessionRouter(db, clock)

	table := runFullSessionForClose(t, db, clock)

	payload, _ := json.Marshal(map[string]interface{}{"tip": 4.00})
	req, _ := http.NewRequest("POST", fmt.Sprintf("/tables/%d/close", table.ID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("GET", fmt.Sprintf("/tables/%d/history", table.ID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Table history", response["message"])
	records := response["data"].([]interface{})
	assert.Len(t, records, 1)
	record := records[0].(map[string]interface{})
	assert.Equal(t, 32.00, record["total_sales"])
	chits := record["chits"].([]interface{})
	assert.Len(t, chits, 1)
}
