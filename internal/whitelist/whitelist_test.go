package whitelist

import (
	"testing"

	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	checker := NewChecker([]string{"Example.com", " trusted.net "}, zap.NewNop())

	tests := []struct {
		name string
		from string
		want bool
	}{
		{"bare address", "alice@example.com", true},
		{"case insensitive domain", "alice@EXAMPLE.COM", true},
		{"display name form", "Alice Smith <alice@example.com>", true},
		{"second domain", "bob@trusted.net", true},
		{"unknown domain", "carol@elsewhere.org", false},
		{"no at sign", "not-an-address", false},
		{"empty", "", false},
		{"domain as substring does not match", "alice@notexample.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsTrusted(tt.from); got != tt.want {
				t.Errorf("IsTrusted(%q) = %t, want %t", tt.from, got, tt.want)
			}
		})
	}
}

func TestIsTrustedEmptyList(t *testing.T) {
	checker := NewChecker(nil, nil)
	if checker.IsTrusted("alice@example.com") {
		t.Error("empty checker must trust nobody")
	}
}
