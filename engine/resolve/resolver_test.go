package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/merchguard/merchguard/engine/domain"
)

func TestIsURL(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"https://x.com/a/status/1", true},
		{"http://a.com", true},
		{"https://www.bunjang.co.kr/products/12345", true},
		{"  https://go.bgzt.link/7f2qhi  ", true},
		{"https://cafe.naver.com/ArticleRead.nhn?clubid=123&articleid=456", true},
		{"https://", false},
		{"http로 시작하는 주소는 안전하지 않아요", false},
		{"", false},
		{"   ", false},
		{"ftp://a.com/f", false},
		{"급처분 ㅠㅠ 공구 실패해서 양도해요", false},
		{"양도합니다! 자세한 내용은 https://example.com 참고하세요", false},
		{"포카 양도합니다 20,000원", false},
	}
	for _, c := range cases {
		if got := IsURL(c.input); got != c.want {
			t.Errorf("IsURL(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

// fakeSource is a canned platform adapter.
type fakeSource struct {
	platform domain.Platform
	prefix   string
	text     string
	err      error
	calls    int
}

func (f *fakeSource) Platform() domain.Platform { return f.platform }
func (f *fakeSource) Match(rawURL string) bool  { return strings.Contains(rawURL, f.prefix) }
func (f *fakeSource) FetchText(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestResolve_PlainTextPassesThrough(t *testing.T) {
	src := &fakeSource{platform: domain.PlatformTwitter, prefix: "x.com"}
	r := New(nil, src)

	got, err := r.Resolve(context.Background(), "  급처분 포카 양도해요  ")
	if err != nil {
		t.Fatal(err)
	}
	if got != "급처분 포카 양도해요" {
		t.Errorf("got %q", got)
	}
	if src.calls != 0 {
		t.Error("no adapter should be called for plain text")
	}
}

func TestResolve_DispatchPriorityOrder(t *testing.T) {
	// Both sources match; the first configured one must win.
	first := &fakeSource{platform: domain.PlatformTwitter, prefix: "example.com", text: "from first"}
	second := &fakeSource{platform: domain.PlatformReddit, prefix: "example.com", text: "from second"}
	r := New(nil, first, second)

	got, err := r.Resolve(context.Background(), "https://example.com/post/1")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from first" {
		t.Errorf("got %q, want the first adapter's text", got)
	}
	if second.calls != 0 {
		t.Error("second adapter must not be called when the first matches")
	}
}

func TestResolve_SecondAdapterMatches(t *testing.T) {
	twitter := &fakeSource{platform: domain.PlatformTwitter, prefix: "x.com"}
	reddit := &fakeSource{platform: domain.PlatformReddit, prefix: "reddit.com", text: "selling photocards"}
	r := New(nil, twitter, reddit)

	got, err := r.Resolve(context.Background(), "https://www.reddit.com/r/kpopforsale/comments/a/b")
	if err != nil {
		t.Fatal(err)
	}
	if got != "selling photocards" {
		t.Errorf("got %q", got)
	}
}

func TestResolve_UnsupportedURL(t *testing.T) {
	twitter := &fakeSource{platform: domain.PlatformTwitter, prefix: "x.com"}
	reddit := &fakeSource{platform: domain.PlatformReddit, prefix: "reddit.com"}
	r := New(nil, twitter, reddit)

	_, err := r.Resolve(context.Background(), "https://instagram.com/p/x")
	if !errors.Is(err, domain.ErrUnsupportedURL) {
		t.Fatalf("expected ErrUnsupportedURL, got %v", err)
	}
	// The message names the supported platforms.
	for _, name := range []string{"twitter", "reddit"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should name %q: %v", name, err)
		}
	}
}

func TestResolve_AdapterFailurePropagatesUniformKind(t *testing.T) {
	src := &fakeSource{
		platform: domain.PlatformTwitter,
		prefix:   "x.com",
		err:      fmt.Errorf("%w: upstream 500", domain.ErrContentRetrieval),
	}
	r := New(nil, src)

	_, err := r.Resolve(context.Background(), "https://x.com/u/status/1")
	if !errors.Is(err, domain.ErrContentRetrieval) {
		t.Fatalf("expected ErrContentRetrieval, got %v", err)
	}
}
