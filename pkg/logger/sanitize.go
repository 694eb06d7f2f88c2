package logger

import (
	"strings"
	"unicode/utf8"
)

// MaskUsername keeps the first and last rune of a username and masks the
// rest (e.g. "tester_brute" -> "t**********e"). Short names are fully masked.
func MaskUsername(username string) string {
	n := utf8.RuneCountInString(username)
	if n <= 2 {
		return strings.Repeat("*", n)
	}

	runes := []rune(username)
	return string(runes[0]) + strings.Repeat("*", n-2) + string(runes[n-1])
}

var sensitiveParams = []string{
	"password",
	"token",
	"secret",
	"api_key",
	"apikey",
	"username",
	"auth",
}

// SanitizeQueryString reports whether rawQuery mentions a sensitive
// parameter, in which case the whole query string should be redacted
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}
