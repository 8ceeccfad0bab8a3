// Package resolve turns arbitrary analysis input into plain text. Raw
// text passes through unchanged; a supported social-media URL is handed
// to its platform adapter and replaced by the post's text. The model
// never sees a URL, only resolved content.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/engine/fetch"
)

// Resolver dispatches URLs to platform adapters in a fixed priority
// order; the first adapter whose Match succeeds wins.
type Resolver struct {
	sources []fetch.TextSource
	logger  *slog.Logger
}

// New creates a Resolver. Source order is dispatch priority.
func New(logger *slog.Logger, sources ...fetch.TextSource) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{sources: sources, logger: logger}
}

// IsURL reports whether input is a fetchable URL: the trimmed string must
// parse with an http or https scheme and carry a host. Text that merely
// contains "http" somewhere, or a scheme with no host ("https://"), is
// not a URL.
func IsURL(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return false
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// Resolve returns the text to analyze. The input is assumed to have
// passed domain.ValidateInput already.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if !IsURL(trimmed) {
		return trimmed, nil
	}

	for _, src := range r.sources {
		if !src.Match(trimmed) {
			continue
		}
		r.logger.Info("resolving URL content", "platform", src.Platform())
		text, err := src.FetchText(ctx, trimmed)
		if err != nil {
			return "", err // adapters already fold failures into domain.ErrContentRetrieval
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: only %s are supported", domain.ErrUnsupportedURL, supportedList(r.sources))
}

// supportedList names the configured platforms for error messages.
func supportedList(sources []fetch.TextSource) string {
	if len(sources) == 0 {
		return "no platforms"
	}
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s.Platform())
	}
	return strings.Join(names, " and ") + " URLs"
}
