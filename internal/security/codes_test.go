package security

import (
	"strings"
	"testing"
)

func TestGenerateVerificationCode(t *testing.T) {
	code := GenerateVerificationCode()
	if len(code) != VerificationCodeLength {
		t.Fatalf("expected %d chars, got %d", VerificationCodeLength, len(code))
	}
	if GenerateVerificationCode() == code {
		t.Fatal("two codes should not collide")
	}
}

func TestGenerateSecurityCode(t *testing.T) {
	code := GenerateSecurityCode()
	if len(code) != SecurityCodeLength {
		t.Fatalf("expected %d chars, got %d", SecurityCodeLength, len(code))
	}
	if code != strings.ToUpper(code) {
		t.Fatalf("expected uppercase code, got %q", code)
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"PetTrader", "abc", "user_name", "A1B2C3"}
	for _, u := range valid {
		if !IsValidUsername(u) {
			t.Errorf("expected %q valid", u)
		}
	}

	invalid := []string{"", "ab", "no spaces!", "_leading", "trailing_", "waytoolongusername12345", "bad-char"}
	for _, u := range invalid {
		if IsValidUsername(u) {
			t.Errorf("expected %q invalid", u)
		}
	}
}
