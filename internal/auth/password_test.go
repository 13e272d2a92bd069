package auth

import (
	"testing"
)

func TestCredentialManager_HashAndVerify(t *testing.T) {
	m := NewCredentialManager(4) // minimal cost for test speed

	hash, err := m.Hash("Correct1Password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "Correct1Password" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !m.Verify("Correct1Password", hash) {
		t.Error("Verify() = false for correct password")
	}
	if m.Verify("WrongPassword1", hash) {
		t.Error("Verify() = true for wrong password")
	}
	if m.Verify("Correct1Password", "not-a-hash") {
		t.Error("Verify() = true for malformed hash")
	}
}

func TestCredentialManager_HashesAreSalted(t *testing.T) {
	m := NewCredentialManager(4)

	h1, err := m.Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := m.Hash("SamePassword1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt missing")
	}
}

func TestCredentialManager_AssessStrength(t *testing.T) {
	m := NewCredentialManager(4)

	tests := []struct {
		name           string
		password       string
		wantOK         bool
		wantViolations []string
	}{
		{
			name:     "meets all requirements",
			password: "Passw0rd!",
			wantOK:   true,
		},
		{
			name:           "strong but no special char is advisory only",
			password:       "Passw0rdabc",
			wantOK:         true,
			wantViolations: []string{AdvisoryMissingSpecial},
		},
		{
			name:     "too short",
			password: "Pa1!",
			wantOK:   false,
			wantViolations: []string{
				ViolationTooShort,
			},
		},
		{
			name:     "all rules violated at once",
			password: "!!!",
			wantOK:   false,
			wantViolations: []string{
				ViolationTooShort,
				ViolationMissingLowercase,
				ViolationMissingUppercase,
				ViolationMissingDigit,
			},
		},
		{
			name:     "missing digit",
			password: "Password!",
			wantOK:   false,
			wantViolations: []string{
				ViolationMissingDigit,
			},
		},
		{
			name:     "missing uppercase",
			password: "password1!",
			wantOK:   false,
			wantViolations: []string{
				ViolationMissingUppercase,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, violations := m.AssessStrength(tt.password)
			if ok != tt.wantOK {
				t.Errorf("AssessStrength() ok = %v, want %v (violations: %v)", ok, tt.wantOK, violations)
			}
			for _, want := range tt.wantViolations {
				if !containsString(violations, want) {
					t.Errorf("violations %v missing %q", violations, want)
				}
			}
		})
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
