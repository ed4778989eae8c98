package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateSaleReference(t *testing.T) {
	ref, err := GenerateSaleReference()
	if err != nil {
		t.Fatalf("GenerateSaleReference() error: %v", err)
	}

	pattern := regexp.MustCompile(`^SALE-\d{8}-[0-9a-f]{8}$`)
	if !pattern.MatchString(ref) {
		t.Errorf("reference %q does not match SALE-YYYYMMDD-hex8", ref)
	}

	today := time.Now().Format("20060102")
	if ref[5:13] != today {
		t.Errorf("reference date = %s, want %s", ref[5:13], today)
	}

	// Two references generated back to back must differ.
	other, err := GenerateSaleReference()
	if err != nil {
		t.Fatalf("GenerateSaleReference() error: %v", err)
	}
	if ref == other {
		t.Errorf("two references are identical: %s", ref)
	}
}

func TestNormalizeCUG(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "ABC123"},
		{"  cug001  ", "CUG001"},
		{"ALREADY", "ALREADY"},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCUG(tt.in); got != tt.want {
			t.Errorf("NormalizeCUG(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"alert_id":1,"kind":"backorder"}`)
	secret := "webhook-secret"

	sig := GenerateSignature(payload, secret)
	if sig == "" {
		t.Fatal("empty signature")
	}

	if !VerifySignature(payload, sig, secret) {
		t.Error("valid signature rejected")
	}
	if VerifySignature(payload, sig, "wrong-secret") {
		t.Error("signature accepted with wrong secret")
	}
	if VerifySignature([]byte("tampered"), sig, secret) {
		t.Error("signature accepted for tampered payload")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(7, 3, "caissier@example.ml")
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT() error: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.SiteID != 3 {
		t.Errorf("SiteID = %d, want 3", claims.SiteID)
	}
	if claims.Email != "caissier@example.ml" {
		t.Errorf("Email = %s, want caissier@example.ml", claims.Email)
	}
}

func TestJWTRejectsTamperedToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT(1, 1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}

	if _, err := ValidateJWT(token + "x"); err == nil {
		t.Error("tampered token accepted")
	}

	SetJWTSecret("another-secret")
	if _, err := ValidateJWT(token); err == nil {
		t.Error("token accepted after secret rotation")
	}
}
