package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

func TestSeatPartyOccupiesTableWithOrder(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()

	table, order := seatParty(t, db, clock, 4)

	// Invariant: occupied <=> currentOrderId menunjuk order aktif
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.NotNil(t, table.CurrentOrderID)
	assert.Equal(t, order.ID, *table.CurrentOrderID)
	assert.Equal(t, models.OrderActive, order.Status)
	assert.Equal(t, 4, table.GuestCount)
	assert.NotNil(t, table.SeatedAt)
	assert.True(t, table.SeatedAt.Equal(clock.Now()))
}

func TestSeatTableRejectsDoubleSeat(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)

	table, _ := seatParty(t, db, clock, 2)

	server := serverByEmail(t, db, "dana@floor.test")
	_, err := registry.SeatTable(table.ID, 2, server.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestSeatTableRejectsBadInput(t *testing.T) {
	db := setupFloorDB(t)
	registry := NewTableRegistry(db, testClock())

	table := tableByNumber(t, db, "T1")
	server := serverByEmail(t, db, "dana@floor.test")

	_, err := registry.SeatTable(table.ID, 0, server.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = registry.SeatTable(9999, 2, server.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = registry.SeatTable(table.ID, 2, 9999)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestReleaseTableFailsWhileOrderActive(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)

	table, _ := seatParty(t, db, clock, 2)

	_, err := registry.ReleaseTable(table.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

func TestReleaseTableResetsState(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)

	table, order := seatParty(t, db, clock, 2)

	// Selesaikan order dulu supaya release diizinkan
	db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderCompleted)

	released, err := registry.ReleaseTable(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableAvailable, released.Status)
	assert.Nil(t, released.ServerID)
	assert.Nil(t, released.SeatedAt)
	assert.Nil(t, released.CurrentOrderID)
	assert.Equal(t, 0, released.GuestCount)
}

func TestPartyBlockRejectsSeating(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)

	table := tableByNumber(t, db, "T1")
	server := serverByEmail(t, db, "dana@floor.test")

	from := clock.Now().Add(-10 * time.Minute)
	to := clock.Now().Add(time.Hour)
	applied, err := registry.ApplyPartyBlock([]uint{table.ID}, from, to, nil, "birthday party")
	assert.NoError(t, err)
	assert.Equal(t, 1, applied)

	blocked := tableByNumber(t, db, "T1")
	assert.Equal(t, models.TableReserved, blocked.Status)

	_, err = registry.SeatTable(table.ID, 2, server.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidState)

	// Setelah jendela lewat, seat diizinkan meski status masih reserved
	clock.Advance(2 * time.Hour)
	seated, err := registry.SeatTable(table.ID, 2, server.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.TableOccupied, seated.Status)
}

func TestPartyBlockSkipsOccupiedTables(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)

	t2 := models.Table{TableNumber: "T2", Seats: 2, Status: models.TableAvailable}
	assert.NoError(t, db.Create(&t2).Error)

	occupied, _ := seatParty(t, db, clock, 2)

	applied, err := registry.ApplyPartyBlock(
		[]uint{occupied.ID, t2.ID},
		clock.Now(), clock.Now().Add(time.Hour), nil, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, applied)

	stillOccupied := tableByNumber(t, db, "T1")
	assert.Equal(t, models.TableOccupied, stillOccupied.Status)
	blocked := tableByNumber(t, db, "T2")
	assert.Equal(t, models.TableReserved, blocked.Status)
}

func TestPartyBlockValidatesWindow(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)
	table := tableByNumber(t, db, "T1")

	_, err := registry.ApplyPartyBlock([]uint{table.ID}, clock.Now().Add(time.Hour), clock.Now(), nil, "")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = registry.ApplyPartyBlock(nil, clock.Now(), clock.Now().Add(time.Hour), nil, "")
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = registry.ApplyPartyBlock([]uint{table.ID, 9999}, clock.Now(), clock.Now().Add(time.Hour), nil, "")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestBlockMonitorReleasesExpiredBlocks(t *testing.T) {
	db := setupFloorDB(t)
	clock := testClock()
	registry := NewTableRegistry(db, clock)
	monitor := NewBlockMonitor(db, clock)

	table := tableByNumber(t, db, "T1")
	_, err := registry.ApplyPartyBlock([]uint{table.ID}, clock.Now(), clock.Now().Add(time.Hour), nil, "")
	assert.NoError(t, err)

	// Masih dalam jendela: sweep tidak boleh melepaskan
	monitor.Sweep()
	assert.Equal(t, models.TableReserved, tableByNumber(t, db, "T1").Status)

	clock.Advance(2 * time.Hour)
	monitor.Sweep()
	assert.Equal(t, models.TableAvailable, tableByNumber(t, db, "T1").Status)
}
