package errors

import (
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("reminder not found"), "Error: reminder not found"},
	}
	for _, tt := range tests {
		if got := Format(tt.err); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	if got := Formatf("invalid hour %d", 4); got != "Error: invalid hour 4" {
		t.Errorf("Formatf = %q", got)
	}
}
