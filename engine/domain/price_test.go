package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func unmarshalPrice(t *testing.T, raw string) (Price, error) {
	t.Helper()
	var p Price
	err := json.Unmarshal([]byte(raw), &p)
	return p, err
}

func TestPrice_SentinelsCoerceToUnset(t *testing.T) {
	for _, raw := range []string{`"N/A"`, `"n/a"`, `" N/A "`, `""`, `null`} {
		p, err := unmarshalPrice(t, raw)
		if err != nil {
			t.Errorf("unmarshal %s: %v", raw, err)
			continue
		}
		if p.Valid {
			t.Errorf("expected %s to coerce to unset, got %v", raw, p.Value)
		}
	}
}

func TestPrice_NumericForms(t *testing.T) {
	cases := []struct {
		raw  string
		want Price
	}{
		{`"15.99"`, NewPrice("15.99")},
		{`20`, NewPrice("20")},
		{`12.5`, NewPrice("12.5")},
		{`5000`, NewPrice("5000")},
	}
	for _, c := range cases {
		p, err := unmarshalPrice(t, c.raw)
		if err != nil {
			t.Errorf("unmarshal %s: %v", c.raw, err)
			continue
		}
		if !p.Equal(c.want) {
			t.Errorf("unmarshal %s = %v, want %v", c.raw, p.Value, c.want.Value)
		}
	}
}

func TestPrice_InvalidStringNamesField(t *testing.T) {
	_, err := unmarshalPrice(t, `"invalid"`)
	if !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if !strings.Contains(err.Error(), "offered_price") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestPrice_MarshalUnsetAsNull(t *testing.T) {
	b, err := json.Marshal(Price{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "null" {
		t.Errorf("marshal unset = %s, want null", b)
	}
}

func TestPrice_RoundTripInsidePriceAnalysis(t *testing.T) {
	raw := `{
		"market_price_range": "15,000-25,000 KRW",
		"offered_price": "N/A",
		"currency": "KRW",
		"price_assessment": "no price stated",
		"warnings": []
	}`
	var pa PriceAnalysis
	if err := json.Unmarshal([]byte(raw), &pa); err != nil {
		t.Fatal(err)
	}
	if pa.OfferedPrice.Valid {
		t.Errorf("expected unset offered_price, got %v", pa.OfferedPrice.Value)
	}
	if pa.Currency != "KRW" {
		t.Errorf("currency = %q", pa.Currency)
	}
}
