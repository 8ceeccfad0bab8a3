package analysis

import (
	"fmt"
	"strings"

	"github.com/merchguard/merchguard/engine/domain"
)

const systemPrompt = `You are a trade-safety expert for K-pop merchandise transactions
(photocards, albums, lightsticks, concert goods). You analyze listings and
chat excerpts from fan-to-fan marketplaces and flag signs of fraud.

You know the common scam patterns in this community: demands for upfront
payment through untraceable channels, prices far below market for rare items,
refusal to use escrow or safe-payment services, pressure to decide quickly,
freshly created accounts, and reused or stolen proof photos.

You also understand the community's slang across languages, including Korean
terms such as 양도 (transfer/sale), 포카 (photocard), 교환 (trade), 반값
(half price), and 직거래 (in-person deal).

Assess the text exactly as a cautious, experienced collector would. Be
specific in every finding: quote or paraphrase the part of the text that
triggered it, and give concrete next steps a buyer can take.`

// buildPrompt assembles the user prompt for a single analysis request.
// languageCode must already be validated.
func buildPrompt(text, languageCode string) string {
	language := domain.SupportedLanguages[languageCode]

	var b strings.Builder
	b.WriteString("Analyze the following marketplace text for trade safety.\n\n")
	b.WriteString("TEXT TO ANALYZE:\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	b.WriteString("Produce a complete analysis:\n")
	b.WriteString("- translation: the full text translated into the output language (if it is already in that language, restate it plainly).\n")
	b.WriteString("- nuance_explanation: slang, abbreviations, and community conventions a newcomer would miss.\n")
	b.WriteString("- risk_signals: concrete signs of fraud, each with category, severity, and what the buyer should do.\n")
	b.WriteString("- cautions: weaker concerns worth noting, in the same shape as risk signals.\n")
	b.WriteString("- safe_indicators: signals that legitimately build trust, in the same shape as risk signals.\n")
	b.WriteString("- price_analysis: market price range for the item, the offered price exactly as stated (null if none is stated), currency, and an assessment.\n")
	b.WriteString("- safety_checklist: steps the buyer should complete before paying.\n")
	b.WriteString("- safe_score: 0 (certain scam) to 100 (clearly safe).\n")
	b.WriteString("- recommendation: your overall advice in one or two sentences.\n")
	b.WriteString("- emotional_support: a brief empathetic note; buyers worried about scams are often anxious.\n\n")
	fmt.Fprintf(&b, "Write every free-text field in %s. Do not use any other language in those fields.\n", language)
	return b.String()
}
