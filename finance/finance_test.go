package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

func TestSubtotal(t *testing.T) {
	items := []models.OrderItem{
		{Name: "Steak Frites", Price: 28.50},
		{Name: "House Salad", Price: 9.00},
		{Name: "Iced Tea", Price: 3.25},
	}
	assert.InDelta(t, 40.75, Subtotal(items), 0.001)

	// Tanpa item, subtotal nol
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestTax(t *testing.T) {
	tax, err := Tax(100.0, 0.0825)
	assert.NoError(t, err)
	assert.InDelta(t, 8.25, tax, 0.001)

	_, err = Tax(100.0, -0.1)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}

func TestTipOut(t *testing.T) {
	split, err := TipOut(100.0, DefaultKitchenPct, DefaultHostPct)
	assert.NoError(t, err)
	assert.InDelta(t, 15.0, split.KitchenShare, 0.001)
	assert.InDelta(t, 10.0, split.HostShare, 0.001)
	assert.InDelta(t, 75.0, split.TakeHome, 0.001)

	// Bagian selalu utuh kembali ke total
	total := split.KitchenShare + split.HostShare + split.TakeHome
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestTipOutRejectsBadInput(t *testing.T) {
	_, err := TipOut(-5.0, DefaultKitchenPct, DefaultHostPct)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = TipOut(50.0, 0.8, 0.4)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)

	_, err = TipOut(50.0, -0.1, 0.1)
	assert.ErrorIs(t, err, utils.ErrInvalidArgument)
}

func TestMinutesBetween(t *testing.T) {
	from := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	to := from.Add(95 * time.Minute)
	assert.InDelta(t, 95.0, MinutesBetween(from, to), 0.001)
}
