package security

import (
	"encoding/base32"
	"strings"
	"testing"
	"time"
)

// Base32 of the RFC 6238 reference secret "12345678901234567890".
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestVerifyKnownVectors(t *testing.T) {
	t.Parallel()

	m := NewTOTPManager("AuthPlug")

	// Time 59s falls in step 1; 287082 is the RFC 4226 value for counter 1.
	at := time.Unix(59, 0)
	if !m.Verify(rfcSecret, "287082", at) {
		t.Fatalf("expected current-step code to verify")
	}
	// One step of skew in each direction: counters 0 and 2 also pass.
	if !m.Verify(rfcSecret, "755224", at) {
		t.Fatalf("expected previous-step code within skew to verify")
	}
	if !m.Verify(rfcSecret, "359152", at) {
		t.Fatalf("expected next-step code within skew to verify")
	}
	// Counter 3 is outside the skew window.
	if m.Verify(rfcSecret, "969429", at) {
		t.Fatalf("expected out-of-window code to fail")
	}
}

func TestVerifyRejectsMalformedCodes(t *testing.T) {
	t.Parallel()

	m := NewTOTPManager("AuthPlug")
	at := time.Unix(59, 0)

	if m.Verify(rfcSecret, "28708", at) {
		t.Fatalf("expected short code to fail")
	}
	if m.Verify(rfcSecret, "2870822", at) {
		t.Fatalf("expected long code to fail")
	}
	if m.Verify(rfcSecret, "28708a", at) {
		t.Fatalf("expected non-numeric code to fail")
	}
	if m.Verify("not-base32!!", "287082", at) {
		t.Fatalf("expected invalid secret to fail")
	}
	if m.Verify("", "287082", at) {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestVerifyAcceptsWhitespaceAndLowercaseSecret(t *testing.T) {
	t.Parallel()

	m := NewTOTPManager("AuthPlug")
	at := time.Unix(59, 0)

	if !m.Verify(strings.ToLower(rfcSecret), " 287082 ", at) {
		t.Fatalf("expected trimmed code with lowercase secret to verify")
	}
}

func TestGenerateSecretShape(t *testing.T) {
	t.Parallel()

	m := NewTOTPManager("AuthPlug")
	secret, err := m.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret failed: %v", err)
	}

	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(secret)
	if err != nil {
		t.Fatalf("secret is not unpadded base32: %v", err)
	}
	if len(raw) != totpSecretBytes {
		t.Fatalf("expected %d raw bytes, got %d", totpSecretBytes, len(raw))
	}
	if strings.Contains(secret, "=") {
		t.Fatalf("expected no padding in secret")
	}
}

func TestEnrollmentURI(t *testing.T) {
	t.Parallel()

	m := NewTOTPManager("AuthPlug")
	uri := m.EnrollmentURI("user@example.com", rfcSecret)

	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("expected otpauth totp uri, got %s", uri)
	}
	for _, part := range []string{"secret=" + rfcSecret, "issuer=AuthPlug", "period=30", "digits=6", "algorithm=SHA1"} {
		if !strings.Contains(uri, part) {
			t.Fatalf("expected %q in uri %s", part, uri)
		}
	}
}
