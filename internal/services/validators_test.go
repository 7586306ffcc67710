package services

import (
	"testing"

	"pgregory.net/rapid"
)

func TestValidFullName(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"Aziza Karimova", true},
		{"Али", true},
		{"ab", false},
		{"  a  ", false},
		{"   ", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidFullName(tc.input); got != tc.want {
			t.Errorf("ValidFullName(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestValidMemberID(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"0123456", true},
		{"  0123456  ", true},
		{"123456", false},
		{"12345678", false},
		{"12a4567", false},
		{"1234 56", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidMemberID(tc.input); got != tc.want {
			t.Errorf("ValidMemberID(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestValidMemberID_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 9999999).Draw(t, "n")
		digits := rapid.IntRange(1, 9).Draw(t, "digits")

		s := ""
		for i, v := 0, n; i < digits; i++ {
			s = string(rune('0'+v%10)) + s
			v /= 10
		}

		if got := ValidMemberID(s); got != (digits == 7) {
			t.Fatalf("ValidMemberID(%q) = %v for %d digits", s, got, digits)
		}
	})
}

func TestValidFreeText(t *testing.T) {
	if ValidFreeText("   ", 1) {
		t.Error("Blank text passed validation")
	}
	if !ValidFreeText("good note", 5) {
		t.Error("Valid note failed validation")
	}
	if ValidFreeText("ok", 5) {
		t.Error("Too-short note passed validation")
	}
}
