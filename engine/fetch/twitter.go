package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/merchguard/merchguard/engine/domain"
	"github.com/merchguard/merchguard/pkg/fn"
	"golang.org/x/time/rate"
)

const twitterAPIBase = "https://api.twitter.com/2/tweets/"

// statusIDPattern extracts the tweet ID from a status URL.
var statusIDPattern = regexp.MustCompile(`/status/(\d+)`)

// TwitterClient fetches tweets through the official API v2. Requires a
// bearer token.
type TwitterClient struct {
	bearerToken string
	apiBase     string
	limiter     *rate.Limiter
	httpClient  *http.Client
}

// NewTwitterClient creates a client with the given bearer token.
func NewTwitterClient(bearerToken string) *TwitterClient {
	return &TwitterClient{
		bearerToken: bearerToken,
		apiBase:     twitterAPIBase,
		limiter:     rate.NewLimiter(rate.Every(time.Second), 3),
		httpClient:  &http.Client{Timeout: fetchTimeout},
	}
}

// Platform identifies this adapter.
func (c *TwitterClient) Platform() domain.Platform { return domain.PlatformTwitter }

// Match reports whether the URL points at twitter.com or x.com.
func (c *TwitterClient) Match(rawURL string) bool {
	return hostMatches(rawURL, "twitter.com") || hostMatches(rawURL, "x.com")
}

// tweetResponse is the API v2 tweet lookup response.
type tweetResponse struct {
	Data struct {
		Text      string `json:"text"`
		AuthorID  string `json:"author_id"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
		Media []tweetMedia `json:"media"`
	} `json:"includes"`
	Errors []struct {
		Title string `json:"title"`
	} `json:"errors"`
}

type tweetMedia struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// FetchText returns the tweet's text content.
func (c *TwitterClient) FetchText(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.lookup(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return resp.Data.Text, nil
}

// FetchMetadata returns the tweet's preview snapshot.
func (c *TwitterClient) FetchMetadata(ctx context.Context, rawURL string) (TweetMetadata, error) {
	resp, err := c.lookup(ctx, rawURL)
	if err != nil {
		return TweetMetadata{}, err
	}

	meta := TweetMetadata{Text: resp.Data.Text}
	if len(resp.Includes.Users) > 0 {
		meta.Author = resp.Includes.Users[0].Username
	}
	if ts, err := time.Parse(time.RFC3339, resp.Data.CreatedAt); err == nil {
		meta.CreatedAt = &ts
	}
	meta.Images = fn.FilterMap(resp.Includes.Media, func(m tweetMedia) (string, bool) {
		return m.URL, m.Type == "photo" && m.URL != ""
	})
	return meta, nil
}

func (c *TwitterClient) lookup(ctx context.Context, rawURL string) (*tweetResponse, error) {
	tweetID, ok := ExtractTweetID(rawURL)
	if !ok {
		return nil, fmt.Errorf("%w: no tweet id in %s", domain.ErrContentRetrieval, rawURL)
	}

	params := url.Values{
		"tweet.fields": {"text,author_id,created_at"},
		"expansions":   {"author_id,attachments.media_keys"},
		"media.fields": {"type,url"},
	}
	endpoint := c.apiBase + tweetID + "?" + params.Encode()

	result := fn.Retry(ctx, fn.RetryOpts{MaxAttempts: 2, InitialWait: time.Second, MaxWait: 5 * time.Second, Jitter: true},
		func(ctx context.Context) fn.Result[*tweetResponse] {
			if err := c.limiter.Wait(ctx); err != nil {
				return fn.Err[*tweetResponse](err)
			}
			return c.doLookup(ctx, endpoint)
		})

	resp, err := result.Unwrap()
	if err != nil {
		return nil, retrievalError(rawURL, err)
	}
	if len(resp.Errors) > 0 || resp.Data.Text == "" {
		return nil, fmt.Errorf("%w: tweet %s not found or inaccessible", domain.ErrContentRetrieval, tweetID)
	}
	return resp, nil
}

func (c *TwitterClient) doLookup(ctx context.Context, endpoint string) fn.Result[*tweetResponse] {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fn.Err[*tweetResponse](err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("User-Agent", "merchguard/1.0")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fn.Err[*tweetResponse](err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
		return fn.Errf[*tweetResponse]("twitter api status %d: %s", httpResp.StatusCode, body)
	}

	var resp tweetResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return fn.Errf[*tweetResponse]("decode tweet: %v", err)
	}
	return fn.Ok(&resp)
}

// ExtractTweetID pulls the numeric status ID out of a tweet URL.
func ExtractTweetID(rawURL string) (string, bool) {
	m := statusIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}
