// Package finance berisi kalkulasi finansial dan durasi murni tanpa state,
// supaya bisa dipakai ulang oleh reporting tanpa menurunkan ulang aturan bisnis.
package finance

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-floor/models"
	"github.com/yeremiapane/restaurant-floor/utils"
)

// Persentase tip-out default
const (
	DefaultKitchenPct = 0.15
	DefaultHostPct    = 0.10
)

// TipOutSplit -> pembagian tip server ke dapur dan host
type TipOutSplit struct {
	KitchenShare float64 `json:"kitchen_share"`
	HostShare    float64 `json:"host_share"`
	TakeHome     float64 `json:"take_home"`
}

// Subtotal -> jumlah harga seluruh item
func Subtotal(items []models.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}

// Tax menghitung pajak atas subtotal
func Tax(subtotal, rate float64) (float64, error) {
	if rate < 0 {
		return 0, fmt.Errorf("%w: tax rate %.4f is negative", utils.ErrInvalidArgument, rate)
	}
	return subtotal * rate, nil
}

// TipOut membagi tip yang diperoleh server ke kitchen dan host.
func TipOut(tipsEarned, kitchenPct, hostPct float64) (TipOutSplit, error) {
	if tipsEarned < 0 {
		return TipOutSplit{}, fmt.Errorf("%w: tips %.2f is negative", utils.ErrInvalidArgument, tipsEarned)
	}
	if kitchenPct < 0 || hostPct < 0 || kitchenPct+hostPct > 1 {
		return TipOutSplit{}, fmt.Errorf("%w: tip-out percentages %.2f/%.2f", utils.ErrInvalidArgument, kitchenPct, hostPct)
	}

	kitchen := tipsEarned * kitchenPct
	host := tipsEarned * hostPct
	return TipOutSplit{
		KitchenShare: kitchen,
		HostShare:    host,
		TakeHome:     tipsEarned - kitchen - host,
	}, nil
}

// MinutesBetween -> durasi dalam menit, dipakai untuk metrik timing sesi
func MinutesBetween(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}
