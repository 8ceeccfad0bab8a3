// Package analysis orchestrates a full trade-safety check: input
// validation, content resolution, the generative analysis, and the
// ensemble blend with the statistical classifier.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/merchguard/merchguard/engine/classify"
	"github.com/merchguard/merchguard/engine/domain"
	"google.golang.org/genai"
)

// ModelClient produces schema-constrained JSON from a prompt.
type ModelClient interface {
	Generate(ctx context.Context, system, prompt string, schema *genai.Schema) (json.RawMessage, error)
}

// ContentResolver turns raw input into analyzable text, fetching post
// content when the input is a supported URL.
type ContentResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// Service runs trade-safety analyses.
type Service struct {
	model      ModelClient
	resolver   ContentResolver
	classifier *classify.Classifier
	opts       Options
	logger     *slog.Logger
}

// New creates an analysis Service. classifier may be nil, in which case
// the generative model's score is used unblended.
func New(model ModelClient, resolver ContentResolver, classifier *classify.Classifier, opts Options, logger *slog.Logger) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		model:      model,
		resolver:   resolver,
		classifier: classifier,
		opts:       opts,
		logger:     logger,
	}, nil
}

// Analyze checks inputText for trade-safety risks and returns the full
// analysis, with every free-text field written in outputLanguage.
func (s *Service) Analyze(ctx context.Context, inputText, outputLanguage string) (domain.TradeSafetyAnalysis, error) {
	if err := domain.ValidateInput(inputText, outputLanguage); err != nil {
		return domain.TradeSafetyAnalysis{}, err
	}
	lang := domain.NormalizeLanguage(outputLanguage)

	text, err := s.resolver.Resolve(ctx, inputText)
	if err != nil {
		return domain.TradeSafetyAnalysis{}, err
	}

	raw, err := s.model.Generate(ctx, systemPrompt, buildPrompt(text, lang), responseSchema())
	if err != nil {
		return domain.TradeSafetyAnalysis{}, err
	}

	var a domain.TradeSafetyAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return domain.TradeSafetyAnalysis{}, fmt.Errorf("%w: %w", domain.ErrModelResponse, err)
	}
	if err := domain.ValidateAnalysis(a); err != nil {
		return domain.TradeSafetyAnalysis{}, err
	}

	return s.blendScore(text, a)
}

// blendScore combines the generative score with the statistical
// classifier when one is configured. A classifier that cannot load or
// predict fails the analysis: missing artifacts are a deployment fault
// the operator must fix, not something to silently score around.
func (s *Service) blendScore(text string, a domain.TradeSafetyAnalysis) (domain.TradeSafetyAnalysis, error) {
	if s.classifier == nil {
		return a, nil
	}

	prob, err := s.classifier.PredictScamProbability(text)
	if err != nil {
		return domain.TradeSafetyAnalysis{}, err
	}

	final := classify.DecideSafeScore(prob, a.SafeScore, s.opts.ThresholdHigh, s.opts.ThresholdLow)
	s.logger.Info("safe score decided",
		"scam_probability", prob,
		"generative_score", a.SafeScore,
		"final_score", final)
	return a.WithSafeScore(final), nil
}
