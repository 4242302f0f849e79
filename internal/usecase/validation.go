package usecase

import (
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/fournil/internal/domain/errors"
)

const dateOnlyLayout = "2006-01-02"

// ParseQuantity reads a form quantity. Blank means zero.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domainErrors.ErrInvalidQuantity
	}
	return n, nil
}

// ParseDate accepts RFC 3339 timestamps or plain dates interpreted in loc.
// dateOnly reports whether the value carried no time part.
func ParseDate(raw string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, false, nil
	}
	if t, err := time.ParseInLocation(dateOnlyLayout, raw, loc); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, domainErrors.ErrInvalidDate
}

// ParseInvoiceDate returns the settlement instant for raw. A plain date
// covers the whole day.
func ParseInvoiceDate(raw string, loc *time.Location) (time.Time, error) {
	t, dateOnly, err := ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if dateOnly {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}
