package validator

import "testing"

func TestIsTicker(t *testing.T) {
	tests := []struct {
		symbol string
		want   bool
	}{
		{"AAPL", true},
		{"A", true},
		{"BRK.B", true},
		{"BF-B", true},
		{"MSFT1", true},
		{"", false},
		{"aapl", false},
		{"1AAPL", false},
		{".AAPL", false},
		{"TOOLONGSYMBOL", false},
		{"AA PL", false},
	}

	for _, tt := range tests {
		if got := IsTicker(tt.symbol); got != tt.want {
			t.Errorf("IsTicker(%q) = %v, want %v", tt.symbol, got, tt.want)
		}
	}
}
