package security

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, errHash := HashPassword("s3cret-pass")
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Fatalf("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong-pass") {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestAdminTokenRoundTrip(t *testing.T) {
	signed, errSign := SignAdminToken("unit-secret", 42, "kai", time.Hour)
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}

	claims, errParse := ParseAdminToken("unit-secret", signed)
	if errParse != nil {
		t.Fatalf("parse token: %v", errParse)
	}
	if claims.AdminID != 42 {
		t.Fatalf("expected admin_id=42, got %d", claims.AdminID)
	}
	if claims.Username != "kai" {
		t.Fatalf("expected username=kai, got %q", claims.Username)
	}
}

func TestAdminTokenWrongSecret(t *testing.T) {
	signed, errSign := SignAdminToken("secret-a", 1, "kai", time.Hour)
	if errSign != nil {
		t.Fatalf("sign token: %v", errSign)
	}
	if _, errParse := ParseAdminToken("secret-b", signed); errParse == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestAdminTokenMissingSecret(t *testing.T) {
	if _, errSign := SignAdminToken("  ", 1, "kai", time.Hour); errSign == nil {
		t.Fatalf("expected error for empty secret")
	}
	if _, errParse := ParseAdminToken("", "token"); errParse == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestValidateTOTPEmptyInputs(t *testing.T) {
	if ValidateTOTP("", "123456") {
		t.Fatalf("expected empty secret to fail")
	}
	if ValidateTOTP("JBSWY3DPEHPK3PXP", "") {
		t.Fatalf("expected empty code to fail")
	}
}
