package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-floor/database"
	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/router"
	"github.com/yeremiapane/restaurant-floor/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndFloorFlow menguji satu shift penuh:
// 0. Seed staff, katalog, dan meja, lalu login -> token
// 1. Seat party => meja occupied + order terbuka
// 2. Tambah item (makanan + minuman)
// 3. Fire ke dapur => chit pending, minuman langsung ke bar
// 4. Chef menandai item done => chit ready
// 5. Runner mengantar => chit run
// 6. Tutup meja dengan tip => riwayat tercatat, meja available
func TestEndToEndFloorFlow(t *testing.T) {
	db := setupTestDB()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC))
	r := router.SetupRouterWithClock(db, clock)

	token := loginTest(t, r)

	tableID, orderID := seatPartyTest(t, r, token)

	clock.Advance(10 * time.Minute)
	addItemTest(t, r, token, orderID, 1, 1, "medium rare") // Ribeye
	addItemTest(t, r, token, orderID, 2, 2, "")            // Lemonade

	chitID, chitItemID := fireOrderTest(t, r, token, orderID)

	clock.Advance(14 * time.Minute)
	markItemDoneTest(t, r, token, chitID, chitItemID)
	markChitRunTest(t, r, token, chitID)

	clock.Advance(36 * time.Minute)
	closeTableTest(t, r, token, tableID)
	checkHistoryTest(t, r, token, tableID)
}

// setupTestDB -> migrasi skema di SQLite in-memory + seed data
func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Dana",
		Email:    "dana@floor.test",
		Password: string(hashedPassword),
		Role:     "admin",
		Section:  "patio",
	})

	var entree, beverage models.MenuCategory
	db.Where("name = ?", "entree").First(&entree)
	db.Where("name = ?", models.CategoryBeverage).First(&beverage)
	db.Create(&models.Menu{CategoryID: entree.ID, Name: "Ribeye", Price: 32.00, Available: true})
	db.Create(&models.Menu{CategoryID: beverage.ID, Name: "Lemonade", Price: 3.50, Available: true})

	db.Create(&models.Table{TableNumber: "T1", Seats: 4, Status: models.TableAvailable})
	return db
}

func loginTest(t *testing.T, r *gin.Engine) string {
	body := map[string]string{
		"email":    "dana@floor.test",
		"password": "secret123",
	}
	bodyBytes, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("loginTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp.Status || resp.Data.Token == "" {
		t.Fatalf("loginTest: status=%v token=%q msg=%s", resp.Status, resp.Data.Token, resp.Message)
	}
	return resp.Data.Token
}

// seatPartyTest -> POST /floor/tables/1/seat => meja occupied + order aktif
func seatPartyTest(t *testing.T, r *gin.Engine, token string) (uint, uint) {
	bodyData := map[string]interface{}{
		"guest_count": 2,
		"server_id":   1,
	}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost, "/floor/tables/1/seat", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("seatPartyTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Table struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
			} `json:"table"`
			Order struct {
				ID     uint   `json:"id"`
				Status string `json:"status"`
			} `json:"order"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Table.Status != "occupied" {
		t.Fatalf("seatPartyTest: expected table occupied, got %s", resp.Data.Table.Status)
	}
	if resp.Data.Order.Status != "active" {
		t.Fatalf("seatPartyTest: expected order active, got %s", resp.Data.Order.Status)
	}
	return resp.Data.Table.ID, resp.Data.Order.ID
}

func addItemTest(t *testing.T, r *gin.Engine, token string, orderID uint, menuID uint, guest int, notes string) {
	bodyData := map[string]interface{}{
		"menu_id":      menuID,
		"guest_number": guest,
		"notes":        notes,
	}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost,
		"/floor/orders/"+intToString(orderID)+"/items", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("addItemTest: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
}

// fireOrderTest -> POST /floor/orders/:id/fire => chit pending berisi makanan saja
func fireOrderTest(t *testing.T, r *gin.Engine, token string, orderID uint) (uint, uint) {
	req := httptest.NewRequest(http.MethodPost,
		"/floor/orders/"+intToString(orderID)+"/fire", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("fireOrderTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			ItemsSent int `json:"items_sent"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.ItemsSent != 1 {
		t.Fatalf("fireOrderTest: expected 1 food item sent, got %d", resp.Data.ItemsSent)
	}

	// Ambil chit dari kitchen display
	reqGet := httptest.NewRequest(http.MethodGet, "/floor/kitchen/display", nil)
	reqGet.Header.Set("Authorization", "Bearer "+token)
	wGet := httptest.NewRecorder()
	r.ServeHTTP(wGet, reqGet)
	if wGet.Code != http.StatusOK {
		t.Fatalf("fireOrderTest display: code=%d, body=%s", wGet.Code, wGet.Body.String())
	}

	var display struct {
		Status bool `json:"status"`
		Data   []struct {
			ID     uint   `json:"id"`
			Status string `json:"status"`
			Items  []struct {
				ID   uint   `json:"id"`
				Name string `json:"name"`
			} `json:"items"`
		} `json:"data"`
	}
	json.Unmarshal(wGet.Body.Bytes(), &display)
	if len(display.Data) != 1 || len(display.Data[0].Items) != 1 {
		t.Fatalf("fireOrderTest display: expected 1 chit with 1 food item, body=%s", wGet.Body.String())
	}
	if display.Data[0].Items[0].Name != "Ribeye" {
		t.Fatalf("fireOrderTest display: beverage leaked onto chit: %s", display.Data[0].Items[0].Name)
	}
	return display.Data[0].ID, display.Data[0].Items[0].ID
}

func markItemDoneTest(t *testing.T, r *gin.Engine, token string, chitID, chitItemID uint) {
	req := httptest.NewRequest(http.MethodPost,
		"/floor/chits/"+intToString(chitID)+"/items/"+intToString(chitItemID)+"/done", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("markItemDoneTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.Status != "ready" {
		t.Fatalf("markItemDoneTest: want chit 'ready', got %s", resp.Data.Status)
	}
}

func markChitRunTest(t *testing.T, r *gin.Engine, token string, chitID uint) {
	req := httptest.NewRequest(http.MethodPost,
		"/floor/chits/"+intToString(chitID)+"/run", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("markChitRunTest: code=%d, body=%s", w.Code, w.Body.String())
	}
}

// closeTableTest -> POST /floor/tables/:id/close => riwayat + meja available
func closeTableTest(t *testing.T, r *gin.Engine, token string, tableID uint) {
	bodyData := map[string]interface{}{"tip": 7.00}
	bodyBytes, _ := json.Marshal(bodyData)

	req := httptest.NewRequest(http.MethodPost,
		"/floor/tables/"+intToString(tableID)+"/close", bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("closeTableTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			TotalSales      float64 `json:"total_sales"`
			Tip             float64 `json:"tip"`
			TimeToOrder     float64 `json:"time_to_order"`
			AvgOrderRunTime float64 `json:"avg_order_run_time"`
			TotalPartyTime  float64 `json:"total_party_time"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data.TotalSales != 35.50 {
		t.Fatalf("closeTableTest: want sales 35.50, got %.2f", resp.Data.TotalSales)
	}
	if resp.Data.TimeToOrder != 10.0 {
		t.Fatalf("closeTableTest: want time_to_order 10, got %.2f", resp.Data.TimeToOrder)
	}
	if resp.Data.AvgOrderRunTime != 14.0 {
		t.Fatalf("closeTableTest: want avg_order_run_time 14, got %.2f", resp.Data.AvgOrderRunTime)
	}
	if resp.Data.TotalPartyTime != 60.0 {
		t.Fatalf("closeTableTest: want total_party_time 60, got %.2f", resp.Data.TotalPartyTime)
	}

	// Meja kembali available setelah bill-out
	reqGet := httptest.NewRequest(http.MethodGet, "/floor/tables/"+intToString(tableID), nil)
	reqGet.Header.Set("Authorization", "Bearer "+token)
	wGet := httptest.NewRecorder()
	r.ServeHTTP(wGet, reqGet)

	var tableResp struct {
		Status bool `json:"status"`
		Data   struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	json.Unmarshal(wGet.Body.Bytes(), &tableResp)
	if tableResp.Data.Status != "available" {
		t.Fatalf("closeTableTest: want table available, got %s", tableResp.Data.Status)
	}
}

func checkHistoryTest(t *testing.T, r *gin.Engine, token string, tableID uint) {
	req := httptest.NewRequest(http.MethodGet,
		"/floor/tables/"+intToString(tableID)+"/history", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("checkHistoryTest: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   []struct {
			TotalSales float64 `json:"total_sales"`
			Chits      []struct {
				Run bool `json:"run"`
			} `json:"chits"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Data) != 1 {
		t.Fatalf("checkHistoryTest: want 1 record, got %d", len(resp.Data))
	}
	if len(resp.Data[0].Chits) != 1 || !resp.Data[0].Chits[0].Run {
		t.Fatalf("checkHistoryTest: chit snapshot missing or not run: %s", w.Body.String())
	}
}

// Helper intToString
func intToString(num uint) string {
	return strconv.FormatUint(uint64(num), 10)
}
