package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword("wrong", hash); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{"admin", "coach", "parent"} {
		if !IsValidRole(role) {
			t.Fatalf("expected %q to be valid", role)
		}
	}
	for _, role := range []string{"owner", "ADMIN", ""} {
		if IsValidRole(role) {
			t.Fatalf("expected %q to be invalid", role)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello\x00 world  "); got != "hello world" {
		t.Fatalf("unexpected sanitized value: %q", got)
	}
}
