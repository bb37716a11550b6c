package aggregation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a stored variable value to a decimal.
// JSON numbers unmarshal to float64 in Go, that's the common path; NewFromFloat
// converts it to an exact decimal representation. Strings are parsed as decimals.
func ToDecimal(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case float32:
		return decimal.NewFromFloat(float64(val)), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case int64:
		return decimal.NewFromInt(val), true
	case int32:
		return decimal.NewFromInt(int64(val)), true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		return d, err == nil
	}
	return decimal.Zero, false
}

// DurationMillis expresses a duration as a decimal number of milliseconds.
func DurationMillis(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(d.Milliseconds())
}
