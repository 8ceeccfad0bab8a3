// Package main implements a one-shot trade-safety check from the
// command line: pass text or a post URL, get the analysis as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/merchguard/merchguard/engine/analysis"
	"github.com/merchguard/merchguard/engine/classify"
	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/engine/fetch"
	"github.com/merchguard/merchguard/engine/resolve"
	"github.com/merchguard/merchguard/pkg/gemini"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	lang := flag.String("lang", domain.DefaultLanguage, "output language code")
	timeout := flag.Duration("timeout", 60*time.Second, "overall timeout")
	summaryOnly := flag.Bool("summary", false, "print only the verdict summary")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: check [-lang code] [-summary] <text or post URL>")
		os.Exit(2)
	}
	input := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, input, *lang, *summaryOnly, logger); err != nil {
		fmt.Fprintln(os.Stderr, "check failed:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input, lang string, summaryOnly bool, logger *slog.Logger) error {
	// Same keys the API server reads, so both binaries score identically
	// from one .env.
	opts := analysis.DefaultOptions()
	opts.Model = envOr("GEMINI_MODEL", opts.Model)
	opts.Temperature = float32(envFloat("GEMINI_TEMPERATURE", float64(opts.Temperature)))
	opts.ThresholdHigh = envFloat("CLASSIFIER_THRESHOLD_HIGH", opts.ThresholdHigh)
	opts.ThresholdLow = envFloat("CLASSIFIER_THRESHOLD_LOW", opts.ThresholdLow)

	model, err := gemini.New(ctx, os.Getenv("GEMINI_API_KEY"), opts.Model, opts.Temperature, logger)
	if err != nil {
		return err
	}

	resolver := resolve.New(logger,
		fetch.NewTwitterClient(os.Getenv("TWITTER_BEARER_TOKEN")),
		fetch.NewRedditClient())

	var classifier *classify.Classifier
	if dir := os.Getenv("MODEL_DIR"); dir != "" {
		classifier = classify.New(dir, logger)
	}

	svc, err := analysis.New(model, resolver, classifier, opts, logger)
	if err != nil {
		return err
	}

	result, err := svc.Analyze(ctx, input, lang)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if summaryOnly {
		return enc.Encode(domain.Summarize(result))
	}
	return enc.Encode(result)
}
