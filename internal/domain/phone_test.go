package domain_test

import (
	"testing"

	"github.com/rafidainsoft/mahrajan/internal/domain"
)

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national form untouched", "07901234567", "07901234567"},
		{"plus international", "+9647901234567", "07901234567"},
		{"bare international", "9647901234567", "07901234567"},
		{"spaces and dashes", "0790 123-4567", "07901234567"},
		{"parentheses", "(0790) 1234567", "07901234567"},
		{"missing leading zero", "7901234567", "07901234567"},
		{"too long truncated", "079012345678999", "07901234567"},
		{"letters stripped", "0790abc1234567", "07901234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SanitizePhone(tt.input)
			if got != tt.want {
				t.Fatalf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Sanitizing twice must not change the result.
			if again := domain.SanitizePhone(got); again != got {
				t.Fatalf("SanitizePhone not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"07901234567", "+9647901234567", "9647701234567", "0770 123 4567"}
	for _, p := range valid {
		if !domain.ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"", "0790123", "06901234567", "12345678901", "+15551234567"}
	for _, p := range invalid {
		if domain.ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}
