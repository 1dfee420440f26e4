package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "Study Room 1", "Study Room 1"},
		{"leading and trailing", "  Kim Minsu  ", "Kim Minsu"},
		{"internal runs", "Kim\t\tMinsu", "Kim Minsu"},
		{"newlines", "Kim\nMinsu", "Kim Minsu"},
		{"empty", "", ""},
		{"only whitespace", "   \t ", ""},
		{"hangul kept intact", "  스터디룸  3 ", "스터디룸 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeStudentID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "2023123456", "2023123456"},
		{"surrounding spaces", " 2023123456 ", "2023123456"},
		{"internal space removed", "20231 23456", "2023123456"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStudentID(tt.input); got != tt.want {
				t.Errorf("NormalizeStudentID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
