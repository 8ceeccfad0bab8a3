package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/pkg/fn"
	"golang.org/x/time/rate"
)

// RedditClient fetches posts through Reddit's public JSON API: any post
// URL with .json appended returns the listing. No authentication needed.
type RedditClient struct {
	limiter    *rate.Limiter
	httpClient *http.Client
}

// NewRedditClient creates a Reddit adapter.
func NewRedditClient() *RedditClient {
	return &RedditClient{
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

// Platform identifies this adapter.
func (c *RedditClient) Platform() domain.Platform { return domain.PlatformReddit }

// Match reports whether the URL points at reddit.com.
func (c *RedditClient) Match(rawURL string) bool {
	return hostMatches(rawURL, "reddit.com")
}

// listingResponse mirrors the slice-of-listings shape Reddit returns.
type listingResponse struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				Title      string  `json:"title"`
				SelfText   string  `json:"selftext"`
				Author     string  `json:"author"`
				Subreddit  string  `json:"subreddit"`
				CreatedUTC float64 `json:"created_utc"`
				Preview    struct {
					Images []previewImage `json:"images"`
				} `json:"preview"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type previewImage struct {
	Source struct {
		URL string `json:"url"`
	} `json:"source"`
}

// FetchText returns the post's selftext.
func (c *RedditClient) FetchText(ctx context.Context, rawURL string) (string, error) {
	meta, err := c.FetchMetadata(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if meta.Text == "" {
		return "", fmt.Errorf("%w: post has no text content: %s", domain.ErrContentRetrieval, rawURL)
	}
	return meta.Text, nil
}

// FetchMetadata returns the post's preview snapshot.
func (c *RedditClient) FetchMetadata(ctx context.Context, rawURL string) (RedditPostMetadata, error) {
	jsonURL := JSONEndpoint(rawURL)

	result := fn.Retry(ctx, fn.RetryOpts{MaxAttempts: 2, InitialWait: time.Second, MaxWait: 5 * time.Second, Jitter: true},
		func(ctx context.Context) fn.Result[*listingResponse] {
			if err := c.limiter.Wait(ctx); err != nil {
				return fn.Err[*listingResponse](err)
			}
			return c.doGet(ctx, jsonURL)
		})

	listing, err := result.Unwrap()
	if err != nil {
		return RedditPostMetadata{}, retrievalError(rawURL, err)
	}

	meta, ok := extractPost(listing)
	if !ok {
		return RedditPostMetadata{}, fmt.Errorf("%w: post not found: %s", domain.ErrContentRetrieval, rawURL)
	}
	return meta, nil
}

func (c *RedditClient) doGet(ctx context.Context, jsonURL string) fn.Result[*listingResponse] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, jsonURL, nil)
	if err != nil {
		return fn.Err[*listingResponse](err)
	}
	req.Header.Set("User-Agent", "merchguard/1.0 (content preview)")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fn.Err[*listingResponse](err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return fn.Errf[*listingResponse]("reddit api status %d: %s", httpResp.StatusCode, body)
	}

	// Reddit returns [postListing, commentListing] for a post URL.
	var listings []listingResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&listings); err != nil {
		return fn.Errf[*listingResponse]("decode listing: %v", err)
	}
	if len(listings) == 0 {
		return fn.Errf[*listingResponse]("empty listing response")
	}
	return fn.Ok(&listings[0])
}

// extractPost pulls the first t3 (post) child out of a listing.
func extractPost(listing *listingResponse) (RedditPostMetadata, bool) {
	for _, child := range listing.Data.Children {
		if child.Kind != "" && child.Kind != "t3" {
			continue
		}
		d := child.Data
		meta := RedditPostMetadata{
			Author:    d.Author,
			Title:     d.Title,
			Subreddit: d.Subreddit,
			Text:      d.SelfText,
		}
		if d.CreatedUTC > 0 {
			ts := time.Unix(int64(d.CreatedUTC), 0).UTC()
			meta.CreatedAt = &ts
		}
		meta.Images = fn.FilterMap(d.Preview.Images, func(img previewImage) (string, bool) {
			return img.Source.URL, img.Source.URL != ""
		})
		return meta, true
	}
	return RedditPostMetadata{}, false
}

// JSONEndpoint converts a Reddit post URL to its JSON API endpoint.
// Already-converted URLs pass through unchanged.
func JSONEndpoint(rawURL string) string {
	clean := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if strings.HasSuffix(clean, ".json") {
		return clean
	}
	return clean + ".json"
}
