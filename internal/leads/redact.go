package leads

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?[0-9]{3}\)?[-.\s]?[0-9]{3}[-.\s]?[0-9]{4}`)
)

const previewLen = 80

// contactHash identifies a caller in logs without recording the number.
// Formatting is ignored so "(416) 200-0905" and "4162000905" match.
func contactHash(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	sum := sha256.Sum256([]byte(digits))
	return fmt.Sprintf("%x", sum[:8])
}

// scrubPII replaces emails with [EMAIL] and phone numbers with [PHONE].
func scrubPII(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL]")
	return phonePattern.ReplaceAllString(text, "[PHONE]")
}

// preview is a scrubbed, truncated form of free text for log lines.
func preview(text string) string {
	text = scrubPII(strings.TrimSpace(text))
	if r := []rune(text); len(r) > previewLen {
		return string(r[:previewLen]) + "..."
	}
	return text
}
