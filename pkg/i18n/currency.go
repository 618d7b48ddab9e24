package i18n

import "fmt"

// currencySymbols maps ISO 4217 currency codes to their display symbol.
var currencySymbols = map[string]struct {
	symbol string
	prefix bool // true = "R120.00", false = "120.00 BWP"
}{
	"ZAR": {"R", true},
	"NAD": {"N$", true},
	"BWP": {"P", true},
	"USD": {"$", true},
	"EUR": {"€", true},
	"GBP": {"£", true},
	"LSL": {"L", false},
	"SZL": {"E", false},
}

// FormatAmount returns a human-readable amount string with the currency symbol.
// Examples:
//
//	FormatAmount(120, "ZAR")   → "R120.00"
//	FormatAmount(15.5, "USD")  → "$15.50"
//	FormatAmount(150.0, "XYZ") → "150.00 XYZ"
func FormatAmount(amount float64, currencyCode string) string {
	info, ok := currencySymbols[currencyCode]
	if !ok {
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}
	if info.prefix {
		return fmt.Sprintf("%s%.2f", info.symbol, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, info.symbol)
}
