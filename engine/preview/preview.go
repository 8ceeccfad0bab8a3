// Package preview extracts post metadata from supported social-media
// URLs for display before a full analysis is run.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/engine/fetch"
)

// previewChars is the teaser length shown in list views.
const previewChars = 200

// cacheSize bounds the per-instance URL cache. Previews are immutable
// enough for the lifetime of a browsing session.
const cacheSize = 512

// TweetFetcher fetches Twitter post metadata.
type TweetFetcher interface {
	Match(rawURL string) bool
	FetchMetadata(ctx context.Context, rawURL string) (fetch.TweetMetadata, error)
}

// RedditFetcher fetches Reddit post metadata.
type RedditFetcher interface {
	Match(rawURL string) bool
	FetchMetadata(ctx context.Context, rawURL string) (fetch.RedditPostMetadata, error)
}

// Service builds PostPreview snapshots, caching them by URL.
type Service struct {
	twitter TweetFetcher
	reddit  RedditFetcher
	cache   *lru.Cache[string, domain.PostPreview]
	logger  *slog.Logger
}

// New creates a preview Service.
func New(twitter TweetFetcher, reddit RedditFetcher, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := lru.New[string, domain.PostPreview](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{twitter: twitter, reddit: reddit, cache: cache, logger: logger}, nil
}

// Preview extracts metadata for a supported post URL. Twitter is checked
// before Reddit, matching the resolver's dispatch order.
func (s *Service) Preview(ctx context.Context, rawURL string) (domain.PostPreview, error) {
	key := strings.TrimSpace(rawURL)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	var p domain.PostPreview
	switch {
	case s.twitter.Match(key):
		meta, err := s.twitter.FetchMetadata(ctx, key)
		if err != nil {
			return domain.PostPreview{}, err
		}
		p = domain.PostPreview{
			Platform:  domain.PlatformTwitter,
			Author:    meta.Author,
			CreatedAt: meta.CreatedAt,
			Text:      meta.Text,
			Images:    meta.Images,
		}

	case s.reddit.Match(key):
		meta, err := s.reddit.FetchMetadata(ctx, key)
		if err != nil {
			return domain.PostPreview{}, err
		}
		p = domain.PostPreview{
			Platform:  domain.PlatformReddit,
			Author:    meta.Author,
			CreatedAt: meta.CreatedAt,
			Text:      joinTitleAndBody(meta.Title, meta.Text),
			Images:    meta.Images,
		}

	default:
		return domain.PostPreview{}, fmt.Errorf("%w: only twitter and reddit URLs are supported", domain.ErrUnsupportedURL)
	}

	p.TextPreview = truncate(p.Text, previewChars)
	s.cache.Add(key, p)
	s.logger.Info("preview created", "platform", p.Platform, "author", p.Author, "images", len(p.Images))
	return p, nil
}

// joinTitleAndBody combines a Reddit title with its selftext.
func joinTitleAndBody(title, body string) string {
	if body == "" {
		return title
	}
	return title + "\n\n" + body
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
