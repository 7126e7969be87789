package utils

import (
	"fmt"
	"strconv"
)

// FormatMoney keeps consistent decimal formatting for currency fields.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatKm renders a distance without trailing zeros, e.g. "42" or "9.5".
func FormatKm(km float64) string {
	return strconv.FormatFloat(km, 'f', -1, 64) + "km"
}
