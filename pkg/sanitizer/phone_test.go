package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"korean mobile national", "010-1234-5678", "+821012345678"},
		{"korean mobile e164", "+82 10 1234 5678", "+821012345678"},
		{"us number", "+1 212 555 0123", "+12125550123"},
		{"empty", "", ""},
		{"garbage", "not-a-phone", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
