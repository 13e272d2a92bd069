package auth

import (
	"regexp"
	"strings"

	"github.com/smartrecipe/auth-service/internal/domain"
)

// LoginType names the identifier shape a client authenticates with.
type LoginType string

const (
	LoginTypeUsername LoginType = "username"
	LoginTypeEmail    LoginType = "email"
	LoginTypePhone    LoginType = "phone"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Mainland mobile numbers: 11 digits starting 1[3-9].
	cnMobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	// North American numbering plan: 10 digits, area code and exchange
	// starting 2-9.
	usPhonePattern = regexp.MustCompile(`^[2-9]\d{2}[2-9]\d{6}$`)

	e164Pattern = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// DetectLoginType classifies an identifier by shape: an '@' makes it an
// email, a leading '+' or all-digits makes it a phone, anything else is a
// username.
func DetectLoginType(identifier string) LoginType {
	if strings.Contains(identifier, "@") {
		return LoginTypeEmail
	}
	if strings.HasPrefix(identifier, "+") || isAllDigits(identifier) {
		return LoginTypePhone
	}
	return LoginTypeUsername
}

// ValidateEmail checks basic email shape. Deliverability is proven by the
// verification code flow, not here.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// NormalizePhone converts a regional phone number to E.164 form. Numbers
// already carrying a '+' prefix are accepted as-is if well-formed. Bare
// national numbers are interpreted under the given region: china expects an
// 11-digit mainland mobile number (+86), us a 10-digit NANP number (+1).
func NormalizePhone(phone string, region domain.Region) (string, error) {
	phone = stripPhoneSeparators(phone)
	if phone == "" {
		return "", domain.ErrInvalidPhone
	}

	if strings.HasPrefix(phone, "+") {
		if !e164Pattern.MatchString(phone) {
			return "", domain.ErrInvalidPhone
		}
		return phone, nil
	}

	switch region {
	case domain.RegionChina:
		// Tolerate a typed-out country code without the plus.
		if strings.HasPrefix(phone, "86") && len(phone) == 13 {
			phone = phone[2:]
		}
		if !cnMobilePattern.MatchString(phone) {
			return "", domain.ErrInvalidPhone
		}
		return "+86" + phone, nil
	case domain.RegionUS:
		if strings.HasPrefix(phone, "1") && len(phone) == 11 {
			phone = phone[1:]
		}
		if !usPhonePattern.MatchString(phone) {
			return "", domain.ErrInvalidPhone
		}
		return "+1" + phone, nil
	default:
		return "", domain.ErrInvalidRegion
	}
}

// NormalizeIdentifier canonicalizes an identifier for storage and lookup:
// emails are lowercased, phones normalized to E.164, usernames passed
// through.
func NormalizeIdentifier(identifier string, region domain.Region) (string, LoginType, error) {
	identifier = strings.TrimSpace(identifier)
	switch kind := DetectLoginType(identifier); kind {
	case LoginTypeEmail:
		if err := ValidateEmail(identifier); err != nil {
			return "", kind, err
		}
		return strings.ToLower(identifier), kind, nil
	case LoginTypePhone:
		normalized, err := NormalizePhone(identifier, region)
		if err != nil {
			return "", kind, err
		}
		return normalized, kind, nil
	default:
		return identifier, LoginTypeUsername, nil
	}
}

// NormalizeAs canonicalizes an identifier under a declared login type,
// bypassing shape detection. A client that declares login_type "username" can
// authenticate with an all-digit username that detection would read as a
// phone number.
func NormalizeAs(identifier string, kind LoginType, region domain.Region) (string, error) {
	identifier = strings.TrimSpace(identifier)
	switch kind {
	case LoginTypeEmail:
		if err := ValidateEmail(identifier); err != nil {
			return "", err
		}
		return strings.ToLower(identifier), nil
	case LoginTypePhone:
		return NormalizePhone(identifier, region)
	case LoginTypeUsername:
		return identifier, nil
	default:
		return "", domain.ErrInvalidLoginType
	}
}

func stripPhoneSeparators(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, drop
		default:
			return ""
		}
	}
	return b.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
