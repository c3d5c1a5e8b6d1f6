package validation

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// HasSpecialChar reports whether the string contains at least one
// non-alphanumeric character.
func HasSpecialChar(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return true
		}
	}
	return false
}

// ValidPassword reports whether the password meets the registration
// rules.
func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLength && HasSpecialChar(password)
}
