package format

import (
	"fmt"
	"strings"
	"time"
)

var monthAbbrev = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sept", "Oct", "Nov", "Dec"}

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp shapes the backend emits. Values without an
// offset are taken as UTC.
func ParseTime(iso string) (time.Time, error) {
	iso = strings.TrimSpace(iso)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", iso)
}

func DaySuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Ordinal renders t as "23rd Sept, 2024".
func Ordinal(t time.Time) string {
	return fmt.Sprintf("%d%s %s, %d", t.Day(), DaySuffix(t.Day()), monthAbbrev[t.Month()-1], t.Year())
}

// Clock12 renders t as "23 Dec. 10:05 PM".
func Clock12(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d %s. %d:%02d %s", t.Day(), monthAbbrev[t.Month()-1], hour, t.Minute(), ampm)
}

func OrdinalDate(iso string) string {
	return OrdinalDateIn(iso, nil)
}

func OrdinalDateIn(iso string, loc *time.Location) string {
	t, err := ParseTime(iso)
	if err != nil {
		return InvalidDate
	}
	if loc != nil {
		t = t.In(loc)
	}
	return Ordinal(t)
}

func DateTime(iso string) string {
	return DateTimeIn(iso, nil)
}

func DateTimeIn(iso string, loc *time.Location) string {
	t, err := ParseTime(iso)
	if err != nil {
		return InvalidDate
	}
	if loc != nil {
		t = t.In(loc)
	}
	return Clock12(t)
}

type RemainingDuration struct {
	IsExpired    bool      `json:"is_expired"`
	DurationLeft string    `json:"duration_left"`
	ExpiresAt    time.Time `json:"expires_at"`
	Days         int       `json:"days"`
	Hours        int       `json:"hours"`
}

// Remaining computes what is left of a plan of durationDays created at createdAt.
func Remaining(createdAt time.Time, durationDays int, now time.Time) RemainingDuration {
	expiresAt := createdAt.Add(time.Duration(durationDays) * 24 * time.Hour)
	r := RemainingDuration{
		IsExpired: now.After(expiresAt),
		ExpiresAt: expiresAt,
	}
	if r.IsExpired {
		r.DurationLeft = Expired
		return r
	}

	left := expiresAt.Sub(now)
	r.Days = int(left / (24 * time.Hour))
	r.Hours = int(left % (24 * time.Hour) / time.Hour)

	r.DurationLeft = plural(int64(r.Days), "Day", "Days")
	if r.Hours > 0 {
		r.DurationLeft += " " + plural(int64(r.Hours), "Hour", "Hours")
	}
	return r
}

// DaysLeft renders the whole days remaining until expiry, never negative.
func DaysLeft(expiry, now time.Time) string {
	left := expiry.Sub(now)
	if left < 0 {
		left = 0
	}
	return DurationDays(int(left / (24 * time.Hour)))
}
