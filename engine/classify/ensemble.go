package classify

// DecideSafeScore combines the classifier's scam probability with the
// generative model's safe score.
//
// When the classifier is confident — probability at or beyond either
// threshold, boundaries inclusive — its score is used alone. In the
// uncertain middle band the two scores are averaged. Both the
// scam-to-safe conversion and the average truncate rather than round.
func DecideSafeScore(mlScamProb float64, llmSafeScore int, thresholdHigh, thresholdLow float64) int {
	mlSafeScore := 100 - int(mlScamProb*100)

	// Confident scam call.
	if mlScamProb >= thresholdHigh {
		return mlSafeScore
	}

	// Confident legit call.
	if mlScamProb <= thresholdLow {
		return mlSafeScore
	}

	return (llmSafeScore + mlSafeScore) / 2
}
