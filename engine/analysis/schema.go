package analysis

import "google.golang.org/genai"

// responseSchema constrains model output to the TradeSafetyAnalysis
// shape. Field names must stay in lockstep with the json tags on
// domain.TradeSafetyAnalysis.
func responseSchema() *genai.Schema {
	riskSignal := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category": {
				Type: genai.TypeString,
				Enum: []string{"content", "price", "seller", "payment"},
			},
			"severity": {
				Type: genai.TypeString,
				Enum: []string{"low", "medium", "high"},
			},
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"what_to_do":  {Type: genai.TypeString},
		},
		Required: []string{"category", "severity", "title", "description", "what_to_do"},
	}

	priceAnalysis := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"market_price_range": {Type: genai.TypeString},
			"offered_price": {
				Type:     genai.TypeString,
				Nullable: genai.Ptr(true),
			},
			"currency":         {Type: genai.TypeString},
			"price_assessment": {Type: genai.TypeString},
			"warnings": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"market_price_range", "currency", "price_assessment", "warnings"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"translation":        {Type: genai.TypeString},
			"nuance_explanation": {Type: genai.TypeString},
			"risk_signals": {
				Type:  genai.TypeArray,
				Items: riskSignal,
			},
			"cautions": {
				Type:  genai.TypeArray,
				Items: riskSignal,
			},
			"safe_indicators": {
				Type:  genai.TypeArray,
				Items: riskSignal,
			},
			"price_analysis": priceAnalysis,
			"safety_checklist": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"safe_score": {
				Type:    genai.TypeInteger,
				Minimum: genai.Ptr(0.0),
				Maximum: genai.Ptr(100.0),
			},
			"recommendation":    {Type: genai.TypeString},
			"emotional_support": {Type: genai.TypeString},
		},
		Required: []string{
			"translation", "nuance_explanation", "risk_signals", "cautions",
			"safe_indicators", "price_analysis", "safety_checklist",
			"safe_score", "recommendation", "emotional_support",
		},
	}
}
