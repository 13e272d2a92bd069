package auth

import (
	"testing"
)

func TestGenerateNumericCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		if err != nil {
			t.Fatalf("GenerateNumericCode() error = %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code length = %d, want 6", len(code))
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
		seen[code] = true
	}
	// 50 draws from a million values colliding down to a handful would
	// indicate a broken generator.
	if len(seen) < 40 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestGenerateSecureToken(t *testing.T) {
	t1, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken() error = %v", err)
	}
	t2, err := GenerateSecureToken(32)
	if err != nil {
		t.Fatalf("GenerateSecureToken() error = %v", err)
	}
	if t1 == t2 {
		t.Error("two generated tokens are identical")
	}
	if len(t1) == 0 {
		t.Error("empty token")
	}
}

func TestHashToken(t *testing.T) {
	h := HashToken("some-token")
	if len(h) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h))
	}
	if h != HashToken("some-token") {
		t.Error("hash is not deterministic")
	}
	if h == HashToken("other-token") {
		t.Error("different tokens produced the same hash")
	}
}
