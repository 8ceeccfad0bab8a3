package classify

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/merchguard/merchguard/engine/domain"
)

// writeArtifacts provisions a minimal but structurally valid model
// directory: four vocabulary terms and a 2-unit hidden layer.
func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	vec := Vectorizer{
		Vocabulary: map[string]int{"scam": 0, "fraud": 1, "safe": 2, "deposit": 3},
		IDF:        []float64{1.2, 1.5, 1.1, 2.0},
		Lowercase:  true,
	}
	writeJSON(t, filepath.Join(dir, VectorizerFile), vec)

	mlp := MLP{
		InDim:  4,
		Hidden: 2,
		W1: [][]float64{
			{0.8, 0.6, -0.4, 0.9},
			{-0.2, 0.3, -0.7, 0.5},
		},
		B1: []float64{0.1, -0.1},
		W2: []float64{1.4, -0.9},
		B2: -0.2,
	}
	writeJSON(t, filepath.Join(dir, WeightsFile), mlp)

	return dir
}

func writeJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestClassifier_PredictInRange(t *testing.T) {
	c := New(writeArtifacts(t), nil)

	texts := []string{
		"scam fraud deposit now",
		"safe genuine seller",
		"completely unrelated words",
		"", // empty input must not crash: zero feature vector
		"   ",
	}
	for _, text := range texts {
		p, err := c.PredictScamProbability(text)
		if err != nil {
			t.Fatalf("predict %q: %v", text, err)
		}
		if p < 0.0 || p > 1.0 {
			t.Errorf("probability for %q = %f, out of [0,1]", text, p)
		}
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := New(writeArtifacts(t), nil)
	first, err := c.PredictScamProbability("scam fraud deposit")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.PredictScamProbability("scam fraud deposit")
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("run %d: %v != %v", i, again, first)
		}
	}
}

func TestClassifier_LoadIdempotentByIdentity(t *testing.T) {
	c := New(writeArtifacts(t), nil)

	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	firstMLP, firstVec := c.mlp, c.vec

	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if c.mlp != firstMLP {
		t.Error("second Load replaced the cached model instance")
	}
	if c.vec != firstVec {
		t.Error("second Load replaced the cached vectorizer instance")
	}
}

func TestClassifier_VectorizerMissing(t *testing.T) {
	dir := writeArtifacts(t)
	if err := os.Remove(filepath.Join(dir, VectorizerFile)); err != nil {
		t.Fatal(err)
	}

	err := New(dir, nil).Load()
	if !errors.Is(err, domain.ErrVectorizerMissing) {
		t.Fatalf("expected ErrVectorizerMissing, got %v", err)
	}
	if errors.Is(err, domain.ErrModelWeightsMissing) {
		t.Error("the two missing-artifact kinds must stay distinct")
	}
}

func TestClassifier_WeightsMissing(t *testing.T) {
	dir := writeArtifacts(t)
	if err := os.Remove(filepath.Join(dir, WeightsFile)); err != nil {
		t.Fatal(err)
	}

	err := New(dir, nil).Load()
	if !errors.Is(err, domain.ErrModelWeightsMissing) {
		t.Fatalf("expected ErrModelWeightsMissing, got %v", err)
	}
}

func TestClassifier_FailedLoadRetries(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, nil)
	if err := c.Load(); err == nil {
		t.Fatal("expected load failure for empty dir")
	}

	// Provision the artifacts and retry: the classifier must recover.
	full := writeArtifacts(t)
	for _, name := range []string{VectorizerFile, WeightsFile} {
		data, err := os.ReadFile(filepath.Join(full, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.Load(); err != nil {
		t.Fatalf("retry after provisioning failed: %v", err)
	}
}

func TestClassifier_DimensionMismatch(t *testing.T) {
	dir := writeArtifacts(t)
	// Rewrite the weights with a wrong input dimension.
	mlp := MLP{
		InDim:  7,
		Hidden: 1,
		W1:     [][]float64{{0, 0, 0, 0, 0, 0, 0}},
		B1:     []float64{0},
		W2:     []float64{1},
	}
	writeJSON(t, filepath.Join(dir, WeightsFile), mlp)

	if err := New(dir, nil).Load(); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestLoadVectorizer_RejectsIndexBeyondIDF(t *testing.T) {
	dir := t.TempDir()
	vec := Vectorizer{
		Vocabulary: map[string]int{"scam": 5},
		IDF:        []float64{1.0, 1.0},
	}
	writeJSON(t, filepath.Join(dir, VectorizerFile), vec)

	// A vocabulary index past the IDF weights must fail the load, not
	// panic later inside Transform.
	if _, err := LoadVectorizer(filepath.Join(dir, VectorizerFile)); err == nil {
		t.Fatal("expected load error for out-of-range vocabulary index")
	}
}

func TestLoadVectorizer_RejectsNegativeIndex(t *testing.T) {
	dir := t.TempDir()
	vec := Vectorizer{
		Vocabulary: map[string]int{"scam": -1, "fraud": 0},
		IDF:        []float64{1.0, 1.0},
	}
	writeJSON(t, filepath.Join(dir, VectorizerFile), vec)

	if _, err := LoadVectorizer(filepath.Join(dir, VectorizerFile)); err == nil {
		t.Fatal("expected load error for negative vocabulary index")
	}
}

func TestVectorizer_UnknownTermsIgnored(t *testing.T) {
	v := Vectorizer{
		Vocabulary: map[string]int{"scam": 0},
		IDF:        []float64{2.0},
		Lowercase:  true,
	}
	vec := v.Transform("SCAM nonsense zzz")
	if vec[0] == 0 {
		t.Error("known term should contribute weight")
	}
	// L2 normalization: a single active feature ends up at 1.
	if vec[0] != 1.0 {
		t.Errorf("normalized single feature = %f, want 1.0", vec[0])
	}
}

func TestVectorizer_ShortTokensSkipped(t *testing.T) {
	v := Vectorizer{
		Vocabulary: map[string]int{"a": 0, "ok": 1},
		IDF:        []float64{1.0, 1.0},
	}
	vec := v.Transform("a a a")
	if vec[0] != 0 {
		t.Error("single-character tokens should not match")
	}
}
