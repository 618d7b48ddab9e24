package security

import (
	"testing"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"simple string", "hello world", "hello world"},
		{"whitespace trim", "  hello world  ", "hello world"},
		{"null bytes removed", "hello\x00world", "helloworld"},
		{"preserves newlines", "hello\nworld", "hello\nworld"},
		{"preserves tabs", "hello\tworld", "hello\tworld"},
		{"removes control chars", "hello\x01\x02\x03world", "helloworld"},
		{"unicode preserved", "Sea Point – Kaapstad", "Sea Point – Kaapstad"},
		{"emoji preserved", "lift 🚗", "lift 🚗"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.expected {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  Cape   Town,\n WC ", "Cape Town, WC"},
		{"Thabo\x00 M.", "Thabo M."},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeLine(tt.input); got != tt.expected {
			t.Errorf("SanitizeLine(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"local number", "082 123 4567", "082 123 4567"},
		{"international", "+27 82 123 4567", "+27 82 123 4567"},
		{"letters dropped", "082abc1234567", "0821234567"},
		{"inner plus dropped", "08+21234567", "0821234567"},
		{"dashes kept", "082-123-4567", "082-123-4567"},
		{"surrounding space", "  0821234567 ", "0821234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.expected {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	if got := DigitsOnly("+27 (82) 123-4567"); got != "27821234567" {
		t.Errorf("DigitsOnly = %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hello"},
		{"héllo", 2, "hé"},
		{"anything", 0, ""},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
