package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayLayout is the canonical day key.
	DayLayout = "2006-01-02"
	// TimestampLayout is how activity timestamps are displayed and stored.
	TimestampLayout = "2006-01-02 15:04:05"
)

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339Nano,
	DayLayout,
}

// ParseTimestamp interprets a driver value as a time. Strings without a zone
// are read as wall-clock times.
func ParseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrMalformedResult)
		}
		return *t, nil
	case []byte:
		return parseTimestampString(string(t))
	case string:
		return parseTimestampString(t)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported time value %T", ErrMalformedResult, v)
	}
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable time %q", ErrMalformedResult, s)
}

// NormalizeDayKey converts a grouping key returned by DATE(...) into the
// canonical YYYY-MM-DD form.
func NormalizeDayKey(v any) (string, error) {
	t, err := ParseTimestamp(v)
	if err != nil {
		return "", err
	}
	return t.Format(DayLayout), nil
}

// FormatTimestamp renders a driver timestamp as YYYY-MM-DD HH:MM:SS in the
// value's own location.
func FormatTimestamp(v any) (string, error) {
	t, err := ParseTimestamp(v)
	if err != nil {
		return "", err
	}
	return t.Format(TimestampLayout), nil
}
