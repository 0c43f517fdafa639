package assistant

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTimezone is the timezone all relative expressions resolve in
// unless configured otherwise.
const DefaultTimezone = "Asia/Taipei"

// defaultHour is the clock hour used when an expression names a day but
// no time (明天, 後天, bare dates).
const defaultHour = 9

// timezoneCache caches parsed timezone locations.
var timezoneCache = struct {
	locations map[string]*time.Location
	mu        sync.RWMutex
}{
	locations: make(map[string]*time.Location),
}

// Location loads a timezone by name with caching. Unknown names fall
// back to the system location.
func Location(timezone string) *time.Location {
	if timezone == "" {
		timezone = DefaultTimezone
	}

	timezoneCache.mu.RLock()
	loc, ok := timezoneCache.locations[timezone]
	timezoneCache.mu.RUnlock()
	if ok {
		return loc
	}

	timezoneCache.mu.Lock()
	defer timezoneCache.mu.Unlock()
	if loc, ok := timezoneCache.locations[timezone]; ok {
		return loc
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Warn("failed to load timezone, using system location", "timezone", timezone, "error", err)
		loc = time.Local
	}
	timezoneCache.locations[timezone] = loc
	return loc
}

// Pre-compiled patterns for time expression forms.
var (
	absDateTimeRegex  = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}\s+\d{1,2}:\d{2}$`)
	absDateRegex      = regexp.MustCompile(`^\d{4}[-/]\d{2}[-/]\d{2}$`)
	hoursOffsetRegex  = regexp.MustCompile(`(\d+)\s*小時後?`)
	minuteOffsetRegex = regexp.MustCompile(`(\d+)\s*分鐘後?`)
	clockRegex        = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	bareClockRegex    = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// ResolveTime converts a natural-language or structured time expression
// into an absolute instant relative to now. Forms are tried in a fixed
// precedence order; the first match wins. Returns false when no form
// matches or a captured number fails to parse (never panics on bad
// input).
//
// Same-day clock times that have already passed roll over to the next
// day: an explicit time never resolves to a past instant.
func ResolveTime(text string, now time.Time) (time.Time, bool) {
	loc := now.Location()
	expr := strings.TrimSpace(text)
	lower := strings.ToLower(expr)

	// 1. Full date-time: 2024-12-15 10:00 or 2024/12/15 10:00.
	if absDateTimeRegex.MatchString(expr) {
		normalized := strings.ReplaceAll(expr, "/", "-")
		if t, err := time.ParseInLocation("2006-01-02 15:04", normalized, loc); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	// 2. Date only: 2024-12-15, defaults to 09:00 that day.
	if absDateRegex.MatchString(expr) {
		normalized := strings.ReplaceAll(expr, "/", "-")
		if t, err := time.ParseInLocation("2006-01-02", normalized, loc); err == nil {
			return t.Add(defaultHour * time.Hour), true
		}
		return time.Time{}, false
	}

	// 3. Relative hours: N小時後.
	if m := hoursOffsetRegex.FindStringSubmatch(expr); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return now.Add(time.Duration(hours) * time.Hour), true
	}

	// 4. Relative minutes: N分鐘後.
	if m := minuteOffsetRegex.FindStringSubmatch(expr); m != nil {
		minutes, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return now.Add(time.Duration(minutes) * time.Minute), true
	}

	// 5. Tomorrow keyword alone, at 09:00.
	if lower == "明天" || lower == "tomorrow" {
		return dayAt(now, 1, defaultHour, 0), true
	}

	// 6. Day after tomorrow keyword alone, at 09:00.
	if lower == "後天" || lower == "day after tomorrow" {
		return dayAt(now, 2, defaultHour, 0), true
	}

	// 7. 今天 HH:mm: today at that time, rolling to tomorrow when past.
	if strings.HasPrefix(lower, "今天") {
		if hour, minute, ok := extractClock(expr); ok {
			return rollover(now, hour, minute), true
		}
	}

	// 8. 明天 HH:mm: tomorrow at that time, no rollover needed.
	if strings.HasPrefix(lower, "明天") {
		if hour, minute, ok := extractClock(expr); ok {
			return dayAt(now, 1, hour, minute), true
		}
	}

	// 9. Bare HH:mm, same rollover policy as 今天 HH:mm.
	if bareClockRegex.MatchString(expr) {
		if hour, minute, ok := extractClock(expr); ok {
			return rollover(now, hour, minute), true
		}
	}

	return time.Time{}, false
}

// extractClock pulls the first HH:mm out of an expression.
func extractClock(expr string) (hour, minute int, ok bool) {
	m := clockRegex.FindStringSubmatch(expr)
	if m == nil {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

// dayAt returns now's date plus days, at the given wall-clock time.
func dayAt(now time.Time, days, hour, minute int) time.Time {
	loc := now.Location()
	return time.Date(now.Year(), now.Month(), now.Day()+days, hour, minute, 0, 0, loc)
}

// rollover resolves hour:minute to today when still in the future,
// otherwise to tomorrow.
func rollover(now time.Time, hour, minute int) time.Time {
	t := dayAt(now, 0, hour, minute)
	if t.After(now) {
		return t
	}
	return t.AddDate(0, 0, 1)
}

// formatTime renders an instant for user-facing messages.
func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}
