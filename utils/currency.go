package utils

import (
	"fmt"
	"strings"
)

// FormatCurrency memformat angka ke format dolar dengan pemisah ribuan,
// dipakai untuk tampilan riwayat penjualan meja.
func FormatCurrency(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	negative := false
	if strings.HasPrefix(integerPart, "-") {
		negative = true
		integerPart = integerPart[1:]
	}

	// Tambahkan pemisah ribuan
	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	out := "$" + strings.Join(result, ",") + "." + decimalPart
	if negative {
		out = "-" + out
	}
	return out
}
