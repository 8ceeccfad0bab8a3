package domain

import (
	"sort"
	"strings"
)

// SupportedLanguages maps each accepted output-language code to its
// English name, which the prompt builder uses for the language directive.
var SupportedLanguages = map[string]string{
	"en": "English",
	"ko": "Korean",
	"es": "Spanish",
	"id": "Indonesian",
	"ja": "Japanese",
	"zh": "Chinese",
	"th": "Thai",
	"vi": "Vietnamese",
	"tl": "Tagalog",
}

// DefaultLanguage is used when a request doesn't specify one.
const DefaultLanguage = "en"

// NormalizeLanguage lowercases and trims a language code. It does not
// check membership; use ValidateLanguage for that.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// ValidateLanguage checks that code (case-insensitive) is a supported
// output language and returns the normalized code.
func ValidateLanguage(code string) (string, error) {
	norm := NormalizeLanguage(code)
	if _, ok := SupportedLanguages[norm]; !ok {
		return "", NewValidationError("output_language", code, ErrUnsupportedLanguage)
	}
	return norm, nil
}

// LanguageCodes returns the supported codes in sorted order, for error
// messages and docs.
func LanguageCodes() []string {
	codes := make([]string, 0, len(SupportedLanguages))
	for c := range SupportedLanguages {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
