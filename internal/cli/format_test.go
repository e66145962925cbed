package cli

import "testing"

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		currency string
		amount   float64
		want     string
	}{
		{"USD", 0, "$0.00"},
		{"USD", 12345.5, "$12,345.50"},
		{"USD", -300, "-$300.00"},
		{"EUR", 99.999, "€100.00"},
		{"GBP", 1500, "£1,500.00"},
		{"SEK", 10, "SEK 10.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatMoney(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(7.25); got != "7.25h" {
		t.Errorf("got %q", got)
	}
	if got := FormatHours(0); got != "0.00h" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(42.34); got != "42.3%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(0); got != "0.0%" {
		t.Errorf("got %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.n); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
