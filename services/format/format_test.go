package format

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{1234.5, "1,234.50"},
		{"1234.5", "1,234.50"},
		{" 10 ", "10.00"},
		{0, "0.00"},
		{int64(1000000), "1,000,000.00"},
		{decimal.RequireFromString("2.345"), "2.35"},
		{"abc", InvalidPrice},
		{"", InvalidPrice},
		{nil, InvalidPrice},
		{math.NaN(), InvalidPrice},
		{[]int{1}, InvalidPrice},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Currency(tt.in), "Currency(%v)", tt.in)
	}
}

func TestByteVolumeBoundary(t *testing.T) {
	assert.True(t, strings.HasSuffix(ByteVolume(1<<30-1), "MB"))
	assert.True(t, strings.HasSuffix(ByteVolume(1<<30), "GB"))

	assert.Equal(t, "500 MB", ByteVolume(500*1<<20))
	assert.Equal(t, "1.0 GB", ByteVolume(1<<30))
	assert.Equal(t, "2.5 GB", ByteVolume(5*1<<29))
	assert.Equal(t, "0 MB", ByteVolume(0))
}

func TestPluralLabels(t *testing.T) {
	assert.Equal(t, "1 Day", DurationDays(1))
	assert.Equal(t, "7 Days", DurationDays(7))
	assert.Equal(t, "1 Country", CountryCount(1))
	assert.Equal(t, "2 Countries", CountryCount(2))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("", 10))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "CPFB0SOEYR...", Truncate("CPFB0SOEYRQ1Q8", 10))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}

func TestCountdown(t *testing.T) {
	assert.Equal(t, Expired, Countdown(0))
	assert.Equal(t, Expired, Countdown(-time.Second))
	assert.Equal(t, "45s", Countdown(45*time.Second))
	assert.Equal(t, "2m 5s", Countdown(2*time.Minute+5*time.Second))
	assert.Equal(t, "1h 0m 0s", Countdown(time.Hour))
	assert.Equal(t, "1d 2h 3m 4s", Countdown(26*time.Hour+3*time.Minute+4*time.Second))
}

func TestESIMStatusBadge(t *testing.T) {
	assert.Equal(t, "bg-label-success", ESIMStatusBadge("IN_USE"))
	assert.Equal(t, "bg-label-dark", ESIMStatusBadge("USED_EXPIRED"))
	assert.Equal(t, "bg-label-secondary", ESIMStatusBadge("SOMETHING_NEW"))
}
