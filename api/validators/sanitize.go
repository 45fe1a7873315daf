package validators

import "strings"

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SessionToken trims input and reports whether it is a usable session token:
// non-empty, at most maxLen bytes, and made of letters, digits, '-' or '_'.
func SessionToken(input string, maxLen int) (string, bool) {
	token := strings.TrimSpace(input)
	if token == "" || (maxLen > 0 && len(token) > maxLen) {
		return "", false
	}
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", false
		}
	}
	return token, true
}
