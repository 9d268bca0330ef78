package utils

import "testing"

func TestShouldRepeat(t *testing.T) {
	tests := []struct {
		d    int
		want bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{29, false},
		{30, true},
		{31, false},
		{33, true},
	}
	for _, tt := range tests {
		if got := ShouldRepeat(tt.d); got != tt.want {
			t.Errorf("ShouldRepeat(%d) = %v, want %v", tt.d, got, tt.want)
		}
	}
}
