package cli

import (
	"errors"
	"testing"

	"github.com/julianstephens/dayplanner/internal/models"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9:30 AM", "9 AM:30", false},
		{"9 AM:30", "9 AM:30", false},
		{"9:30am", "9 AM:30", false},
		{"12:00 PM", "12 PM:00", false},
		{"21:30", "9 PM:30", false},
		{"5:00", "5 AM:00", false},
		{"11:30 PM", "11 PM:30", false},
		{"4:30 AM", "", true},
		{"9:15 AM", "", true},
		{"13:00 PM", "", true},
		{"0:00", "", true},
		{"noon", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSlot(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSlot) {
				t.Errorf("ParseSlot(%q) expected ErrInvalidSlot, got %q, %v", tt.in, got, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSlot(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSlot(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	tests := []struct {
		ref     string
		want    int
		wantErr error
	}{
		{"1", 0, nil},
		{"3", 2, nil},
		{"4", -1, ErrNoMatch},
		{"0", -1, ErrNoMatch},
		{"abc", 0, nil},
		{"xyz789", 2, nil},
		{"ab", -1, ErrAmbiguous},
		{"q", -1, ErrNoMatch},
		{"", -1, ErrNoMatch},
	}

	for _, tt := range tests {
		got, err := resolve(tt.ref, ids, "thing")
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("resolve(%q) = %d, %v, want %d", tt.ref, got, err, tt.want)
		}
	}
}

func TestResolvePriorityAndSubtask(t *testing.T) {
	day := models.PlannerDay{TopPriorities: []models.TopPriority{
		{ID: "p-one", Name: "One"},
		{ID: "p-two", Name: "Two", Subtasks: []models.SubTask{{ID: "s-a", Name: "A"}, {ID: "s-b", Name: "B"}}},
	}}

	p, err := ResolvePriority(day, "p-t")
	if err != nil || p.Name != "Two" {
		t.Fatalf("ResolvePriority by prefix = %+v, %v", p, err)
	}
	s, err := ResolveSubtask(p, "2")
	if err != nil || s.Name != "B" {
		t.Errorf("ResolveSubtask by index = %+v, %v", s, err)
	}
	if _, err := ResolveSubtask(day.TopPriorities[0], "1"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch for a priority without subtasks, got %v", err)
	}
}

func TestResolveItem(t *testing.T) {
	day := models.PlannerDay{HourlySlots: map[string][]models.HourlyItem{
		"9 AM:00": {{ID: "i-1", Text: "Email"}},
	}}
	it, err := ResolveItem(day, "9 AM:00", "1")
	if err != nil || it.Text != "Email" {
		t.Errorf("ResolveItem = %+v, %v", it, err)
	}
	if _, err := ResolveItem(day, "9 AM:30", "1"); !errors.Is(err, ErrNoMatch) {
		t.Errorf("expected ErrNoMatch for an empty slot, got %v", err)
	}
}

func TestMarks(t *testing.T) {
	if StatusMark(models.StatusError) != "[!]" || StatusMark("bogus") != "[ ]" {
		t.Error("unexpected status marks")
	}
	if CheckMark(true) != "[x]" || CheckMark(false) != "[ ]" {
		t.Error("unexpected check marks")
	}
	if ShortID("0123456789") != "01234567" || ShortID("abc") != "abc" {
		t.Error("unexpected ShortID")
	}
}
