package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more word characters, mirroring the
// tokenizer the vectorizer was fitted with.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer turns text into an L2-normalized TF-IDF feature vector using
// the vocabulary and IDF weights exported at training time.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Lowercase  bool           `json:"lowercase"`
}

// LoadVectorizer reads a fitted vectorizer from a JSON artifact.
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var v Vectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("classify: decode vectorizer: %w", err)
	}
	if len(v.Vocabulary) == 0 {
		return nil, fmt.Errorf("classify: vectorizer has empty vocabulary")
	}
	if len(v.IDF) < len(v.Vocabulary) {
		return nil, fmt.Errorf("classify: idf length %d < vocabulary size %d", len(v.IDF), len(v.Vocabulary))
	}
	// Every vocabulary index must address an IDF weight, or Transform
	// would index past the feature vector at request time.
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return nil, fmt.Errorf("classify: term %q index %d outside idf range [0, %d)", term, idx, len(v.IDF))
		}
	}
	return &v, nil
}

// Dim returns the feature dimension.
func (v *Vectorizer) Dim() int { return len(v.IDF) }

// Transform computes the TF-IDF vector for text. Unknown terms are
// ignored; an empty or all-unknown input yields the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	if v.Lowercase {
		text = strings.ToLower(text)
	}

	counts := make(map[int]float64)
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if idx, ok := v.Vocabulary[tok]; ok {
			counts[idx]++
		}
	}

	vec := make([]float64, v.Dim())
	var sumSq float64
	for idx, tf := range counts {
		w := tf * v.IDF[idx]
		vec[idx] = w
		sumSq += w * w
	}
	if sumSq > 0 {
		norm := math.Sqrt(sumSq)
		for idx := range counts {
			vec[idx] /= norm
		}
	}
	return vec
}
