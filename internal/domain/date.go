package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date layout. It sorts lexically in
// chronological order, which the entry ordering relies on.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date. Full RFC 3339 timestamps are accepted
// and truncated to their UTC date.
func ParseDate(s string) (time.Time, error) {
	s = digitReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return TruncateDate(t), nil
}

// TruncateDate drops the time of day, keeping the UTC calendar date.
func TruncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DateRange is an inclusive [Start, End] range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses both bounds and checks their order.
func NewDateRange(start, end string) (*DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return nil, err
	}

	e, err := ParseDate(end)
	if err != nil {
		return nil, err
	}

	r := &DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks that the range is not inverted.
func (r DateRange) Validate() error {
	if r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether date falls inside the range, bounds included.
func (r DateRange) Contains(date time.Time) bool {
	d := TruncateDate(date)
	return !d.Before(TruncateDate(r.Start)) && !d.After(TruncateDate(r.End))
}

// Bucketing selects the calendar period used by PeriodRollup.
type Bucketing string

const (
	BucketDaily   Bucketing = "daily"
	BucketWeekly  Bucketing = "weekly"
	BucketMonthly Bucketing = "monthly"
	BucketYearly  Bucketing = "yearly"
)

// ParseBucketing validates a bucketing name.
func ParseBucketing(s string) (Bucketing, error) {
	b := Bucketing(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BucketDaily, BucketWeekly, BucketMonthly, BucketYearly:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidBucketing, s)
	}
}

// Key returns the ISO bucket key of date. Keys produced by the same
// bucketing sort chronologically as plain strings.
func (b Bucketing) Key(date time.Time) string {
	d := date.UTC()
	switch b {
	case BucketWeekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case BucketMonthly:
		return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
	case BucketYearly:
		return fmt.Sprintf("%04d", d.Year())
	default:
		return d.Format(DateLayout)
	}
}
