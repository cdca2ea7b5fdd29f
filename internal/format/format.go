package format

import (
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	InvalidDate     = "Invalid Date"
	DefaultTimeZone = "Europe/Dublin"

	// en-IE long month, numeric day/year, 24h hour:minute.
	irishLayout = "2 January 2006 at 15:04"
)

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Add returns the sum of its operands. Omitted operands count as zero.
func Add[T Number](operands ...T) T {
	var sum T
	for _, v := range operands {
		sum += v
	}
	return sum
}

type DateFormatter struct {
	loc *time.Location
}

func NewDateFormatter(loc *time.Location) *DateFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &DateFormatter{loc: loc}
}

// NewDateFormatterFor resolves an IANA zone name, falling back to UTC when the
// name is empty or unknown.
func NewDateFormatterFor(zone string) *DateFormatter {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return NewDateFormatter(time.UTC)
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return NewDateFormatter(time.UTC)
	}
	return NewDateFormatter(loc)
}

func (f *DateFormatter) Location() *time.Location {
	return f.loc
}

// Format renders a date string the way an Irish English locale does, e.g.
// "14 February 2020 at 10:30". Unparseable input yields InvalidDate.
func (f *DateFormatter) Format(raw string) string {
	t, ok := f.parse(raw)
	if !ok {
		return InvalidDate
	}
	return t.In(f.loc).Format(irishLayout)
}

// Layouts carrying their own offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// Layouts without an offset are read as local time in the formatter's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func (f *DateFormatter) parse(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, f.loc); err == nil {
			return t, true
		}
	}

	// Date-only forms are UTC midnight.
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var defaultFormatter = NewDateFormatterFor(DefaultTimeZone)

// FormatDate formats raw with the Europe/Dublin formatter.
func FormatDate(raw string) string {
	return defaultFormatter.Format(raw)
}
