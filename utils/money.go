package utils

import (
	"math"
	"strconv"
)

// FormatAmount renders a currency amount with exactly two decimal places,
// truncating any extra precision rather than rounding.
func FormatAmount(amount float64) string {
	truncated := math.Trunc(amount*100+1e-9) / 100
	return strconv.FormatFloat(truncated, 'f', 2, 64)
}

// MinorUnits converts a formatted amount string ("450.00") to integer minor
// units (45000) for gateway calls. Returns 0 for unparseable input.
func MinorUnits(amount string) int64 {
	v, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return 0
	}
	return int64(math.Floor(v * 100))
}
