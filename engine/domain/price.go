package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is an optional exact decimal amount. The generative model sometimes
// emits "N/A" (or an empty string) instead of omitting the price, so
// unmarshalling coerces those sentinels to an unset value. Any other
// non-numeric string is a validation failure naming the field.
type Price struct {
	Value decimal.Decimal
	Valid bool
}

// NewPrice builds a set price from a decimal string such as "15.99".
// It panics on malformed input; intended for literals in tests and seeds.
func NewPrice(s string) Price {
	return Price{Value: decimal.RequireFromString(s), Valid: true}
}

// Equal reports whether two prices are both unset, or both set with the
// same numeric value.
func (p Price) Equal(o Price) bool {
	if p.Valid != o.Valid {
		return false
	}
	if !p.Valid {
		return true
	}
	return p.Value.Equal(o.Value)
}

// MarshalJSON renders an unset price as null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts a JSON number, a numeric string, null, or the
// "n/a"/"" sentinels (case-insensitive, trimmed).
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Price{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return NewValidationError("offered_price", string(data), ErrInvalidPrice)
		}
		s = strings.TrimSpace(s)
		if s == "" || strings.EqualFold(s, "n/a") {
			*p = Price{}
			return nil
		}
		dec, err := decimal.NewFromString(s)
		if err != nil {
			return NewValidationError("offered_price", s, ErrInvalidPrice)
		}
		*p = Price{Value: dec, Valid: true}
		return nil
	}

	dec, err := decimal.NewFromString(string(data))
	if err != nil {
		return NewValidationError("offered_price", string(data), ErrInvalidPrice)
	}
	*p = Price{Value: dec, Valid: true}
	return nil
}
