// Package textutils provides merchant-name normalization and extraction
// utilities shared by the categorization, duplicate and subscription engines.
package textutils

import (
	"regexp"
	"strings"
)

var (
	// Processor artifacts appended to card descriptions: store numbers,
	// reference ids, phone numbers.
	trailingIDPattern = regexp.MustCompile(`[#*]?\d[\d\-]*$`)
	phonePattern      = regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	legalSuffix       = regexp.MustCompile(`(?i)\b(INC|LLC|CORP|CO|LTD|GMBH|SA|AG)\.?$`)
	nonWordPattern    = regexp.MustCompile(`[^\w\s.]`)
	spacesPattern     = regexp.MustCompile(`\s+`)

	// Known payment-processor prefixes that precede the real merchant name.
	processorPrefixes = []string{
		"SQ *", "SQ*", "TST*", "TST *", "PAYPAL *", "PAYPAL*", "PP*",
		"SP *", "SP*", "GOOGLE *", "APPLE.COM/BILL ",
	}

	// Two-letter region codes occasionally appended after a city name.
	locationPattern = regexp.MustCompile(`\s+([A-Z][A-Za-z.\s]{2,20})\s+([A-Z]{2})$`)
)

// NormalizeMerchant strips payment-processor noise from a raw statement
// description and returns a canonical merchant name for comparison. This
// must run before any fuzzy matching: trailing digits appended by
// processors otherwise drag similarity scores below match thresholds.
func NormalizeMerchant(description string) string {
	name := strings.TrimSpace(description)

	for _, prefix := range processorPrefixes {
		upper := strings.ToUpper(name)
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	name = phonePattern.ReplaceAllString(name, "")
	name = trailingIDPattern.ReplaceAllString(name, "")
	name = legalSuffix.ReplaceAllString(name, "")
	name = nonWordPattern.ReplaceAllString(name, " ")
	name = spacesPattern.ReplaceAllString(name, " ")

	return strings.ToUpper(strings.TrimSpace(name))
}

// ExtractLocation attempts to pull a "City XX" location suffix out of a
// statement description. Returns an empty string when nothing plausible is found.
func ExtractLocation(description string) string {
	cleaned := phonePattern.ReplaceAllString(description, "")
	cleaned = trailingIDPattern.ReplaceAllString(strings.TrimSpace(cleaned), "")
	matches := locationPattern.FindStringSubmatch(strings.TrimSpace(cleaned))
	if len(matches) == 3 {
		return strings.TrimSpace(matches[1]) + " " + matches[2]
	}
	return ""
}

// Tokenize splits text into lowercase whitespace-separated tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
