package datetime

import (
	"testing"
	"time"

	"eventhub/core/constants"
)

func TestValidateAndFormatDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"iso passthrough", "2025-01-10", "2025-01-10", false},
		{"iso with time", "2025-01-10 14:00", "2025-01-10", false},
		{"rfc3339", "2025-01-10T10:00:00Z", "2025-01-10", false},
		{"us slash", "01/10/2025", "2025-01-10", false},
		{"long form", "January 10, 2025", "2025-01-10", false},
		{"whitespace trimmed", "  2025-03-05  ", "2025-03-05", false},
		{"empty", "", "", true},
		{"garbage", "not a date", "", true},
		{"bad month", "2025-13-01", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAndFormatDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndFormatDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ValidateAndFormatDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateAndFormatDateIdentityOnISO(t *testing.T) {
	for _, d := range []string{"2024-02-29", "2025-12-31", "2000-01-01"} {
		got, err := ValidateAndFormatDate(d)
		if err != nil {
			t.Fatalf("ValidateAndFormatDate(%q) unexpected error: %v", d, err)
		}
		if got != d {
			t.Errorf("ValidateAndFormatDate(%q) = %q, want identity", d, got)
		}
	}
}

func TestNormalizeTimeFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"12h pm", "2:30 PM", "14:30", false},
		{"12h am", "9:15 AM", "09:15", false},
		{"midnight", "12:00 AM", "00:00", false},
		{"noon", "12:00 PM", "12:00", false},
		{"lowercase meridiem", "2:30 pm", "14:30", false},
		{"no space", "2:30PM", "14:30", false},
		{"24h passthrough", "14:30", "14:30", false},
		{"24h single digit hour", "9:30", "09:30", false},
		{"24h midnight", "00:00", "00:00", false},
		{"hour out of range", "25:00", "", true},
		{"minute out of range", "14:61", "", true},
		{"meridiem hour out of range", "13:00 PM", "", true},
		{"empty", "", "", true},
		{"garbage", "half past two", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTimeFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeTimeFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeTimeFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimeFormatIdempotent(t *testing.T) {
	inputs := []string{"2:30 PM", "12:00 AM", "9:05 am", "23:59", "0:45"}
	for _, in := range inputs {
		first, err := NormalizeTimeFormat(in)
		if err != nil {
			t.Fatalf("NormalizeTimeFormat(%q) unexpected error: %v", in, err)
		}
		second, err := NormalizeTimeFormat(first)
		if err != nil {
			t.Fatalf("NormalizeTimeFormat(%q) second pass error: %v", first, err)
		}
		if first != second {
			t.Errorf("NormalizeTimeFormat not idempotent: %q -> %q -> %q", in, first, second)
		}
	}
}

func TestValidateTimeFormat(t *testing.T) {
	valid := []string{"14:30", "9:30", "2:30 PM", "12:00 AM", "00:00", "23:59"}
	for _, in := range valid {
		if !ValidateTimeFormat(in) {
			t.Errorf("ValidateTimeFormat(%q) = false, want true", in)
		}
	}
	invalid := []string{"25:00", "14:61", "2:30 XM", "", "noon"}
	for _, in := range invalid {
		if ValidateTimeFormat(in) {
			t.Errorf("ValidateTimeFormat(%q) = true, want false", in)
		}
	}
}

func TestComputeStatus(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		date  string
		clock string
		now   time.Time
		want  string
	}{
		{"later today", "2025-01-10", "14:00", now, constants.EventStatusUpcoming},
		{"earlier today", "2025-01-10", "14:00", time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC), constants.EventStatusCompleted},
		{"yesterday", "2025-01-09", "23:59", now, constants.EventStatusCompleted},
		{"tomorrow", "2025-01-11", "00:00", now, constants.EventStatusUpcoming},
		{"exact instant is not completed", "2025-01-10", "10:00", now, constants.EventStatusUpcoming},
		{"one minute ahead", "2025-01-10", "10:01", now, constants.EventStatusUpcoming},
		{"missing clock defaults to midnight", "2025-01-10", "", now, constants.EventStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStatus(tt.date, tt.clock, tt.now); got != tt.want {
				t.Errorf("ComputeStatus(%q, %q) = %q, want %q", tt.date, tt.clock, got, tt.want)
			}
		})
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	if !IsPastDate("2025-01-09", now) {
		t.Error("IsPastDate(yesterday) = false, want true")
	}
	if IsPastDate("2025-01-10", now) {
		t.Error("IsPastDate(today) = true, want false")
	}
	if IsPastDate("2025-01-11", now) {
		t.Error("IsPastDate(tomorrow) = true, want false")
	}
}
