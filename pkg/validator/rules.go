package validator

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// Required checks that value is not empty after trimming whitespace.
func Required(field, value, message string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: message},
	}
}

// ValidEmail checks that value parses as an address usable on the web:
// RFC 5322 shape plus a dotted, non-degenerate domain.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			parts := strings.Split(addr.Address, "@")
			if len(parts) != 2 || parts[0] == "" {
				return false
			}
			domain := parts[1]
			return strings.Contains(domain, ".") &&
				!strings.HasPrefix(domain, ".") &&
				!strings.HasSuffix(domain, ".")
		},
		Error: ValidationError{Field: field, Message: "Enter a valid email address."},
	}
}

// PasswordStrengthConfig controls StrongPassword requirements.
type PasswordStrengthConfig struct {
	MinLength      int
	MaxLength      int
	MinCharClasses int // out of: lower, upper, digit, special
}

// DefaultPasswordStrength requires only 2 character classes; demanding all
// four hurts usability more than it helps security.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{MinLength: 8, MaxLength: 128, MinCharClasses: 2}
}

// StrongPassword checks length and character-class diversity.
func StrongPassword(field, value string, cfg PasswordStrengthConfig) Rule {
	return Rule{
		Check: func() bool {
			if len(value) < cfg.MinLength || (cfg.MaxLength > 0 && len(value) > cfg.MaxLength) {
				return false
			}
			var lower, upper, digit, special bool
			for _, r := range value {
				switch {
				case unicode.IsLower(r):
					lower = true
				case unicode.IsUpper(r):
					upper = true
				case unicode.IsDigit(r):
					digit = true
				default:
					special = true
				}
			}
			classes := 0
			for _, ok := range []bool{lower, upper, digit, special} {
				if ok {
					classes++
				}
			}
			return classes >= cfg.MinCharClasses
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("Password must be at least %d characters and mix character types.", cfg.MinLength),
		},
	}
}

// Frequently compromised passwords rejected outright regardless of shape.
var commonPasswords = map[string]bool{
	"password":    true,
	"password1":   true,
	"password123": true,
	"123456":      true,
	"12345678":    true,
	"123456789":   true,
	"qwerty":      true,
	"qwerty123":   true,
	"abc123":      true,
	"letmein":     true,
	"welcome":     true,
	"iloveyou":    true,
	"admin":       true,
	"admin123":    true,
	"root":        true,
	"guest":       true,
	"secret":      true,
	"trustno1":    true,
	"sunshine":    true,
	"princess":    true,
	"dragon":      true,
	"monkey":      true,
	"football":    true,
}

// NotCommonPassword rejects passwords from the common-password list,
// case-insensitively.
func NotCommonPassword(field, value string) Rule {
	return Rule{
		Check: func() bool { return !commonPasswords[strings.ToLower(value)] },
		Error: ValidationError{Field: field, Message: "Password is too common."},
	}
}
