package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Password strength violations, returned in full so the caller can render a
// complete error. The special-character rule is advisory only.
const (
	ViolationTooShort         = "password must be at least 8 characters"
	ViolationMissingLowercase = "password must contain a lowercase letter"
	ViolationMissingUppercase = "password must contain an uppercase letter"
	ViolationMissingDigit     = "password must contain a digit"
	AdvisoryMissingSpecial    = "consider adding a special character for stronger security"
)

// CredentialManager hashes and verifies passwords and evaluates the password
// strength policy. All methods are pure functions over their input.
type CredentialManager struct {
	cost int
}

// NewCredentialManager creates a credential manager with the given bcrypt
// cost. Zero selects the bcrypt default.
func NewCredentialManager(cost int) *CredentialManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &CredentialManager{cost: cost}
}

// Hash returns a one-way adaptive hash of the password.
func (m *CredentialManager) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether the password matches the hash. bcrypt comparison is
// constant-time over the derived key.
func (m *CredentialManager) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AssessStrength evaluates the password policy and returns every violated
// rule, not just the first. The advisory special-character hint is appended
// to the violations for display but never fails the check.
func (m *CredentialManager) AssessStrength(password string) (bool, []string) {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, ViolationTooShort)
	}
	if !containsClass(password, unicode.IsLower) {
		violations = append(violations, ViolationMissingLowercase)
	}
	if !containsClass(password, unicode.IsUpper) {
		violations = append(violations, ViolationMissingUppercase)
	}
	if !containsClass(password, unicode.IsDigit) {
		violations = append(violations, ViolationMissingDigit)
	}

	ok := len(violations) == 0

	if !containsSpecial(password) {
		violations = append(violations, AdvisoryMissingSpecial)
	}

	return ok, violations
}

func containsClass(s string, class func(rune) bool) bool {
	for _, r := range s {
		if class(r) {
			return true
		}
	}
	return false
}

func containsSpecial(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			return true
		}
	}
	return false
}
