package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"teacher@school.edu",
		"exam.office+term1@results.example.org",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"spaces in@address.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Fatalf("ValidatePassword(short) = %v, %q; want rejection with a message", ok, msg)
	}
	if ok, msg := ValidatePassword("longenough"); !ok || msg != "" {
		t.Fatalf("ValidatePassword(longenough) = %v, %q; want acceptance", ok, msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  padded\x00 reason  "); got != "padded reason" {
		t.Fatalf("SanitizeInput = %q, want %q", got, "padded reason")
	}
}
