package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/merchguard/merchguard/engine/domain"
	"golang.org/x/time/rate"
)

func TestExtractTweetID(t *testing.T) {
	cases := []struct {
		url  string
		id   string
		ok   bool
	}{
		{"https://x.com/user/status/123456789", "123456789", true},
		{"https://twitter.com/user/status/987654321?s=20", "987654321", true},
		{"https://x.com/user", "", false},
		{"not a url", "", false},
	}
	for _, c := range cases {
		id, ok := ExtractTweetID(c.url)
		if id != c.id || ok != c.ok {
			t.Errorf("ExtractTweetID(%q) = (%q, %v), want (%q, %v)", c.url, id, ok, c.id, c.ok)
		}
	}
}

func TestTwitterClient_Match(t *testing.T) {
	c := NewTwitterClient("token")
	yes := []string{
		"https://x.com/user/status/1",
		"https://twitter.com/user/status/1",
		"https://mobile.twitter.com/user/status/1",
		"  https://www.x.com/a/status/2  ",
	}
	no := []string{
		"https://notx.com/user/status/1",
		"https://x.company.com/post",
		"https://reddit.com/r/kpop",
		"plain text mentioning x.com",
	}
	for _, u := range yes {
		if !c.Match(u) {
			t.Errorf("expected match for %q", u)
		}
	}
	for _, u := range no {
		if c.Match(u) {
			t.Errorf("unexpected match for %q", u)
		}
	}
}

func newTestTwitterClient(serverURL string) *TwitterClient {
	c := NewTwitterClient("test-token")
	c.apiBase = serverURL + "/2/tweets/"
	c.limiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestTwitterClient_FetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Write([]byte(`{
			"data": {"text": "급처분 포카 양도합니다", "author_id": "42", "created_at": "2026-01-15T09:30:00Z"},
			"includes": {"users": [{"username": "seller123"}], "media": [{"type": "photo", "url": "https://pbs.example/img.jpg"}]}
		}`))
	}))
	defer srv.Close()

	c := newTestTwitterClient(srv.URL)
	text, err := c.FetchText(context.Background(), "https://x.com/seller123/status/1001")
	if err != nil {
		t.Fatal(err)
	}
	if text != "급처분 포카 양도합니다" {
		t.Errorf("text = %q", text)
	}
}

func TestTwitterClient_FetchMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {"text": "selling photocard", "author_id": "42", "created_at": "2026-01-15T09:30:00Z"},
			"includes": {"users": [{"username": "seller123"}], "media": [
				{"type": "photo", "url": "https://pbs.example/a.jpg"},
				{"type": "video", "url": "https://pbs.example/b.mp4"}
			]}
		}`))
	}))
	defer srv.Close()

	c := newTestTwitterClient(srv.URL)
	meta, err := c.FetchMetadata(context.Background(), "https://x.com/seller123/status/1001")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Author != "seller123" {
		t.Errorf("author = %q", meta.Author)
	}
	if meta.CreatedAt == nil || meta.CreatedAt.Year() != 2026 {
		t.Errorf("created_at = %v", meta.CreatedAt)
	}
	if len(meta.Images) != 1 || meta.Images[0] != "https://pbs.example/a.jpg" {
		t.Errorf("images = %v (videos must be excluded)", meta.Images)
	}
}

func TestTwitterClient_HTTPErrorIsUniform(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestTwitterClient(srv.URL)
	_, err := c.FetchText(context.Background(), "https://x.com/u/status/1")
	if !errors.Is(err, domain.ErrContentRetrieval) {
		t.Fatalf("expected ErrContentRetrieval, got %v", err)
	}
}

func TestTwitterClient_NoTweetID(t *testing.T) {
	c := NewTwitterClient("token")
	_, err := c.FetchText(context.Background(), "https://x.com/just-a-profile")
	if !errors.Is(err, domain.ErrContentRetrieval) {
		t.Fatalf("expected ErrContentRetrieval, got %v", err)
	}
}

func TestTwitterClient_TimeoutKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestTwitterClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 20 * time.Millisecond}

	_, err := c.FetchText(context.Background(), "https://x.com/u/status/1")
	if !errors.Is(err, domain.ErrContentRetrieval) {
		t.Fatalf("expected ErrContentRetrieval, got %v", err)
	}
	if !errors.Is(err, domain.ErrFetchTimeout) {
		t.Errorf("timeout should stay distinguishable: %v", err)
	}
}
