package timeslot

import (
	"testing"
	"time"
)

func TestHourToDisplay(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{5, "5 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{23, "11 PM"},
	}

	for _, tt := range tests {
		if got := HourToDisplay(tt.hour); got != tt.want {
			t.Errorf("HourToDisplay(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestDisplayToHourIsInverse(t *testing.T) {
	for h := 0; h <= 23; h++ {
		if got := DisplayToHour(HourToDisplay(h)); got != h {
			t.Errorf("DisplayToHour(HourToDisplay(%d)) = %d", h, got)
		}
	}
}

func TestDisplayToHourInvalid(t *testing.T) {
	for _, in := range []string{"", "7", "7 am", "7:00 AM", "AM"} {
		if got := DisplayToHour(in); got != 0 {
			t.Errorf("DisplayToHour(%q) = %d, want 0", in, got)
		}
	}
}

func TestSlotKeys(t *testing.T) {
	keys := SlotKeys()
	if len(keys) != 38 {
		t.Fatalf("expected 38 slot keys, got %d", len(keys))
	}
	if keys[0] != "5 AM:00" || keys[1] != "5 AM:30" {
		t.Errorf("unexpected first keys: %v", keys[:2])
	}
	if keys[len(keys)-1] != "11 PM:30" {
		t.Errorf("unexpected last key: %s", keys[len(keys)-1])
	}

	seen := make(map[string]bool)
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate slot key %q", k)
		}
		seen[k] = true
	}
}

func TestDefaultHours(t *testing.T) {
	hours := DefaultHours()
	if hours[0] != "7 AM" || hours[len(hours)-1] != "11 PM" {
		t.Errorf("unexpected default hours: %v", hours)
	}
	if len(hours) != 17 {
		t.Errorf("expected 17 default hours, got %d", len(hours))
	}
}

func TestSlotKeyDisplayConversion(t *testing.T) {
	tests := []struct {
		key     string
		display string
	}{
		{"7 AM:00", "7:00 AM"},
		{"9 AM:30", "9:30 AM"},
		{"12 PM:00", "12:00 PM"},
		{"11 PM:30", "11:30 PM"},
	}

	for _, tt := range tests {
		if got := SlotKeyToDisplay(tt.key); got != tt.display {
			t.Errorf("SlotKeyToDisplay(%q) = %q, want %q", tt.key, got, tt.display)
		}
		if got := DisplayToSlotKey(tt.display); got != tt.key {
			t.Errorf("DisplayToSlotKey(%q) = %q, want %q", tt.display, got, tt.key)
		}
	}

	if got := SlotKeyToDisplay("garbage"); got != "garbage" {
		t.Errorf("SlotKeyToDisplay should return unmatched input unchanged, got %q", got)
	}
}

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		slot    string
		hour    int
		minutes int
	}{
		{"9:00 AM", 9, 0},
		{"2:30 PM", 14, 30},
		{"12:00 AM", 0, 0},
		{"12:30 PM", 12, 30},
		{"11:30 PM", 23, 30},
		{"bogus", 0, 0},
	}

	for _, tt := range tests {
		if got := ParseHour(tt.slot); got != tt.hour {
			t.Errorf("ParseHour(%q) = %d, want %d", tt.slot, got, tt.hour)
		}
		if got := ParseMinutes(tt.slot); got != tt.minutes {
			t.Errorf("ParseMinutes(%q) = %d, want %d", tt.slot, got, tt.minutes)
		}
	}
}

func TestTimeSlotOptions(t *testing.T) {
	options := TimeSlotOptions(DefaultHours())
	if len(options) != 34 {
		t.Fatalf("expected 34 options, got %d", len(options))
	}
	if options[0] != "7:00 AM" || options[1] != "7:30 AM" {
		t.Errorf("unexpected first options: %v", options[:2])
	}
	for _, o := range options {
		if !IsDisplay(o) {
			t.Errorf("option %q is not in display format", o)
		}
	}
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2026, 1, 31, 10, 0, 0, 0, time.Local), "2026-01-31"},
		{time.Date(2026, 5, 5, 0, 0, 0, 0, time.Local), "2026-05-05"},
		{time.Date(2026, 12, 25, 23, 59, 0, 0, time.Local), "2026-12-25"},
	}

	for _, tt := range tests {
		if got := DateKey(tt.date); got != tt.want {
			t.Errorf("DateKey(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
