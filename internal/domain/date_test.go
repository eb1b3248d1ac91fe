package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2024-01-01", want: "2024-01-01"},
		{input: "2024-02-29", want: "2024-02-29"},
		{input: "2024-03-05T22:15:00Z", want: "2024-03-05"},
		{input: "2024-03-05T01:00:00+04:30", want: "2024-03-04"},
		{input: "۲۰۲۴-۰۱-۰۱", want: "2024-01-01"},
		{input: "2023-02-29", wantErr: true},
		{input: "01/02/2024", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if FormatDate(got) != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, FormatDate(got))
			}
		})
	}
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inside := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC),
	}
	for _, d := range inside {
		if !r.Contains(d) {
			t.Errorf("expected %s inside range", d)
		}
	}

	if r.Contains(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("expected 2024-02-01 outside range")
	}

	if _, err := NewDateRange("2024-02-01", "2024-01-01"); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}

func TestParseBucketing(t *testing.T) {
	b, err := ParseBucketing("Monthly")
	if err != nil || b != BucketMonthly {
		t.Fatalf("expected monthly, got %q (%v)", b, err)
	}

	if _, err := ParseBucketing("hourly"); !errors.Is(err, ErrInvalidBucketing) {
		t.Fatalf("expected ErrInvalidBucketing, got %v", err)
	}
}

func TestBucketing_KeysSortChronologically(t *testing.T) {
	earlier := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	later := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)

	for _, b := range []Bucketing{BucketDaily, BucketWeekly, BucketMonthly, BucketYearly} {
		if b.Key(earlier) > b.Key(later) {
			t.Errorf("%s: %s sorts after %s", b, b.Key(earlier), b.Key(later))
		}
	}
}
