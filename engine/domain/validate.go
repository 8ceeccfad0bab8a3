package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxInputLength bounds the analyzable text, in runes. Trade posts are
// short; anything longer is almost certainly a paste mistake.
const MaxInputLength = 10000

// ValidateInput checks the analysis request before any network call.
// The length bound applies to the trimmed text.
func ValidateInput(text, outputLanguage string) error {
	if _, err := ValidateLanguage(outputLanguage); err != nil {
		return fmt.Errorf("%w (allowed: %s)", err, strings.Join(LanguageCodes(), ", "))
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NewValidationError("input_text", "", ErrEmptyInput)
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxInputLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrInputTooLong, n, MaxInputLength)
	}
	return nil
}

// ValidateAnalysis checks the invariants a model response must satisfy
// beyond what schema-strict decoding already guarantees.
func ValidateAnalysis(a TradeSafetyAnalysis) error {
	if a.SafeScore < 0 || a.SafeScore > 100 {
		return NewValidationError("safe_score", fmt.Sprintf("%d", a.SafeScore), ErrInvalidScore)
	}
	for _, group := range [][]RiskSignal{a.RiskSignals, a.Cautions, a.SafeIndicators} {
		for _, s := range group {
			if !ValidRiskCategories[s.Category] {
				return NewValidationError("category", string(s.Category), ErrModelResponse)
			}
			if !ValidRiskSeverities[s.Severity] {
				return NewValidationError("severity", string(s.Severity), ErrModelResponse)
			}
		}
	}
	return nil
}
