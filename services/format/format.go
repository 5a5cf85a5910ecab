// Package format holds the display formatters shared by every storefront page.
// All functions are total: bad input yields a sentinel string, never a panic.
package format

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	InvalidPrice = "Invalid price"
	InvalidDate  = "Invalid date"
	Expired      = "Expired"
)

const (
	mebibyte = 1 << 20
	gibibyte = 1 << 30
)

// Currency renders amount with two decimals and thousands separators.
// amount may be any Go number, a decimal.Decimal or a numeric string.
func Currency(amount interface{}) string {
	d, ok := ToDecimal(amount)
	if !ok {
		return InvalidPrice
	}
	f, _ := d.Round(2).Float64()
	return message.NewPrinter(language.English).Sprint(number.Decimal(f, number.Scale(2)))
}

// ToDecimal converts the loosely typed amounts found in backend payloads.
func ToDecimal(amount interface{}) (decimal.Decimal, bool) {
	switch v := amount.(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false
		}
		return *v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return ToDecimal(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		return ToDecimal(string(v))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// ByteVolume renders sizes under 1 GiB as whole megabytes and the rest as
// gigabytes with one decimal.
func ByteVolume(bytes int64) string {
	if bytes < gibibyte {
		return decimal.NewFromInt(bytes).Div(decimal.NewFromInt(mebibyte)).StringFixed(0) + " MB"
	}
	return decimal.NewFromInt(bytes).Div(decimal.NewFromInt(gibibyte)).StringFixed(1) + " GB"
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func DurationDays(n int) string {
	return plural(int64(n), "Day", "Days")
}

func CountryCount(n int) string {
	return plural(int64(n), "Country", "Countries")
}

// Truncate cuts text to limit runes and appends "...".
func Truncate(text string, limit int) string {
	if text == "" || limit < 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + "..."
}

// Countdown renders a remaining duration as "1d 2h 3m 4s", dropping leading
// zero units. Non-positive durations are Expired.
func Countdown(d time.Duration) string {
	if d <= 0 {
		return Expired
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60
	seconds := total % 60

	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd ", days)
	}
	if hours > 0 || days > 0 {
		fmt.Fprintf(&b, "%dh ", hours)
	}
	if minutes > 0 || hours > 0 || days > 0 {
		fmt.Fprintf(&b, "%dm ", minutes)
	}
	fmt.Fprintf(&b, "%ds", seconds)
	return b.String()
}

// ESIMStatusBadge maps provisioning states to badge classes.
func ESIMStatusBadge(status string) string {
	switch status {
	case "CREATE":
		return "bg-label-primary"
	case "PAYING", "SUSPENDED":
		return "bg-label-warning"
	case "PAID":
		return "bg-label-info"
	case "GOT_RESOURCE", "IN_USE":
		return "bg-label-success"
	case "USED_UP", "CANCEL", "REVOKE":
		return "bg-label-danger"
	case "UNUSED_EXPIRED", "USED_EXPIRED":
		return "bg-label-dark"
	default:
		return "bg-label-secondary"
	}
}
