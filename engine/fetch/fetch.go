// Package fetch implements the platform content adapters: thin clients
// for the Twitter API v2 and Reddit's public JSON API that turn a post
// URL into plain text or a metadata snapshot. Transport failures are
// folded into the single content-retrieval failure kind so callers never
// see platform-specific error types.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/merchguard/merchguard/engine/domain"
)

// fetchTimeout bounds every adapter HTTP call.
const fetchTimeout = 10 * time.Second

// TextSource is what the content resolver needs from a platform adapter.
type TextSource interface {
	Platform() domain.Platform
	// Match reports whether this adapter handles the URL.
	Match(rawURL string) bool
	// FetchText returns the post's plain text for analysis.
	FetchText(ctx context.Context, rawURL string) (string, error)
}

// TweetMetadata is the snapshot a Twitter/X post yields.
type TweetMetadata struct {
	Author    string
	CreatedAt *time.Time
	Text      string
	Images    []string
}

// RedditPostMetadata is the snapshot a Reddit post yields.
type RedditPostMetadata struct {
	Author    string
	CreatedAt *time.Time
	Title     string
	Subreddit string
	Text      string
	Images    []string
}

// hostMatches reports whether the URL's host is domain or a subdomain of it.
func hostMatches(rawURL, domainName string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domainName || strings.HasSuffix(host, "."+domainName)
}

// retrievalError folds any transport failure into the uniform
// content-retrieval kind, keeping timeout distinguishable in the chain.
func retrievalError(rawURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w: %s", domain.ErrContentRetrieval, domain.ErrFetchTimeout, rawURL)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrContentRetrieval, rawURL, err)
}
