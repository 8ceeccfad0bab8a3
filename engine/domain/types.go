// Package domain defines the trade-safety result model, its enumerations,
// and validation for the analysis pipeline. It acts as the validation gate
// at pipeline entry points.
package domain

import "time"

// RiskCategory classifies what a signal is about.
type RiskCategory string

const (
	CategoryContent RiskCategory = "content"
	CategoryPrice   RiskCategory = "price"
	CategorySeller  RiskCategory = "seller"
	CategoryPayment RiskCategory = "payment"
)

// ValidRiskCategories is the set of recognised signal categories.
var ValidRiskCategories = map[RiskCategory]bool{
	CategoryContent: true, CategoryPrice: true,
	CategorySeller: true, CategoryPayment: true,
}

// RiskSeverity grades how serious a signal is.
type RiskSeverity string

const (
	SeverityLow    RiskSeverity = "low"
	SeverityMedium RiskSeverity = "medium"
	SeverityHigh   RiskSeverity = "high"
)

// ValidRiskSeverities is the set of recognised severities.
var ValidRiskSeverities = map[RiskSeverity]bool{
	SeverityLow: true, SeverityMedium: true, SeverityHigh: true,
}

// RiskSignal is one detected signal: something risky, something to watch,
// or something reassuring, depending on which list it sits in.
type RiskSignal struct {
	Category    RiskCategory `json:"category"`
	Severity    RiskSeverity `json:"severity"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	WhatToDo    string       `json:"what_to_do"`
}

// PriceAnalysis is the price-fairness portion of an analysis.
type PriceAnalysis struct {
	MarketPriceRange string   `json:"market_price_range"`
	OfferedPrice     Price    `json:"offered_price"`
	Currency         string   `json:"currency,omitempty"`
	PriceAssessment  string   `json:"price_assessment"`
	Warnings         []string `json:"warnings"`
}

// TradeSafetyAnalysis is the structured result of one analysis request.
// It is built once per request; the only permitted change afterwards is
// WithSafeScore, which returns a copy with the score replaced.
type TradeSafetyAnalysis struct {
	Translation       string         `json:"translation,omitempty"`
	NuanceExplanation string         `json:"nuance_explanation,omitempty"`
	RiskSignals       []RiskSignal   `json:"risk_signals"`
	Cautions          []RiskSignal   `json:"cautions"`
	SafeIndicators    []RiskSignal   `json:"safe_indicators"`
	PriceAnalysis     *PriceAnalysis `json:"price_analysis,omitempty"`
	SafetyChecklist   []string       `json:"safety_checklist"`
	SafeScore         int            `json:"safe_score"`
	Recommendation    string         `json:"recommendation"`
	EmotionalSupport  string         `json:"emotional_support"`
}

// WithSafeScore returns a copy of the analysis with the safe score
// replaced. Used for the ensemble adjustment step.
func (a TradeSafetyAnalysis) WithSafeScore(score int) TradeSafetyAnalysis {
	a.SafeScore = score
	return a
}

// Verdict buckets a safe score for quick display.
type Verdict string

const (
	VerdictDanger  Verdict = "danger"
	VerdictCaution Verdict = "caution"
	VerdictSafe    Verdict = "safe"
)

// VerdictFor maps a safe score to its display bucket.
func VerdictFor(safeScore int) Verdict {
	switch {
	case safeScore < 40:
		return VerdictDanger
	case safeScore < 70:
		return VerdictCaution
	default:
		return VerdictSafe
	}
}

// QuickSummary is a teaser derived from a full analysis.
type QuickSummary struct {
	Verdict    Verdict  `json:"verdict"`
	SafeScore  int      `json:"safe_score"`
	TopSignals []string `json:"top_signals"`
}

// Summarize builds a QuickSummary from an analysis. Up to three titles are
// taken from risk signals first, then cautions.
func Summarize(a TradeSafetyAnalysis) QuickSummary {
	var titles []string
	for _, s := range a.RiskSignals {
		titles = append(titles, s.Title)
	}
	for _, s := range a.Cautions {
		titles = append(titles, s.Title)
	}
	if len(titles) > 3 {
		titles = titles[:3]
	}
	return QuickSummary{
		Verdict:    VerdictFor(a.SafeScore),
		SafeScore:  a.SafeScore,
		TopSignals: titles,
	}
}

// Platform identifies a supported social platform.
type Platform string

const (
	PlatformTwitter Platform = "twitter"
	PlatformReddit  Platform = "reddit"
)

// PostPreview is the metadata snapshot shown before a full analysis.
type PostPreview struct {
	Platform    Platform   `json:"platform"`
	Author      string     `json:"author"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Text        string     `json:"text"`
	TextPreview string     `json:"text_preview"`
	Images      []string   `json:"images"`
}
