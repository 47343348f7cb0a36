package logging

import (
	"fmt"
	"log/slog"
	"strings"
)

// secretKeyPatterns are substrings of attribute keys whose values are masked.
// Keys are matched case-insensitively.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"CREDENTIAL",
	"API_KEY",
	"PRIVATE",
}

// tokenPrefixes mark values that are masked regardless of key.
var tokenPrefixes = []string{
	"ghp_",
	"gho_",
	"sk-",
	"AKIA",
	"xoxb-",
	"xoxp-",
}

// shouldMask reports whether values under key are sensitive.
func shouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

func hasTokenPrefix(value string) bool {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// maskValue keeps the last four characters of values longer than four.
func maskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// redact returns the masked form of value and whether it was masked.
func redact(key string, value any) (string, bool) {
	if shouldMask(key) {
		return maskValue(fmt.Sprint(value)), true
	}
	if s, ok := value.(string); ok && hasTokenPrefix(s) {
		return maskValue(s), true
	}
	return "", false
}

// redactAttr is a slog.HandlerOptions.ReplaceAttr that applies redact.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		return a
	}
	if masked, ok := redact(a.Key, a.Value.Resolve().Any()); ok {
		return slog.String(a.Key, masked)
	}
	return a
}
