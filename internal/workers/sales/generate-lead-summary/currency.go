package generateleadsummary

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.English)

// FormatUSD renders an amount as "$" plus the whole-dollar value with
// thousands separators, rounding half to even. Values that are not numbers
// come back as their plain string form. Absent amounts render as "$0".
func FormatUSD(amount interface{}) string {
	switch v := amount.(type) {
	case nil:
		return "$0"
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return formatInt(i)
		}
		if f, err := v.Float64(); err == nil {
			return formatFloat(f)
		}
		return v.String()
	}

	rv := reflect.ValueOf(amount)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return formatInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return formatInt(int64(u))
		}
		return formatFloat(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float())
	default:
		return fmt.Sprint(amount)
	}
}

func formatInt(i int64) string {
	return "$" + usdPrinter.Sprintf("%d", i)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Sprint(f)
	}
	r := math.RoundToEven(f)
	if r >= math.MinInt64 && r < math.MaxInt64 {
		return formatInt(int64(r))
	}
	return "$" + usdPrinter.Sprintf("%.0f", r)
}
