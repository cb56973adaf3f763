package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
	"github.com/nguyentantai21042004/newsreel/internal/summarizer"
)

var fastRetry = WithRetryPolicy(retry.Policy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond})

const hotNewsJSON = `{
  "data": {
    "hotNews": [
      {"contId": "3001", "name": " 标题一 ", "pic": "https://img/cover1.jpg",
       "videos": {"url": "https://video/1.mp4", "coverUrlFirstFrame": "https://img/frame1.jpg"}},
      {"contId": "3002", "name": "标题二", "pic": "https://img/cover2.jpg"},
      {"contId": "", "name": "broken"}
    ]
  }
}`

func TestPengpaiListTop(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(hotNewsJSON))
	}))
	defer srv.Close()

	refs, err := NewPengpaiCrawler(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()), fastRetry).ListTop(context.Background())
	if err != nil {
		t.Fatalf("ListTop() error = %v", err)
	}
	want := []models.ContentReference{
		{
			Source: Pengpai,
			ID:     "3001",
			Title:  "标题一",
			URL:    "https://www.thepaper.cn/newsDetail_forward_3001",
			Images: []string{"https://img/cover1.jpg", "https://img/frame1.jpg"},
			Videos: []string{"https://video/1.mp4"},
		},
		{
			Source: Pengpai,
			ID:     "3002",
			Title:  "标题二",
			URL:    "https://www.thepaper.cn/newsDetail_forward_3002",
			Images: []string{"https://img/cover2.jpg"},
			Videos: []string{},
		},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("ListTop() = %#v\nwant %#v", refs, want)
	}
	if hits.Load() != 2 {
		t.Errorf("hits = %d, want 2", hits.Load())
	}
}

func TestPengpaiListTopMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := NewPengpaiCrawler(WithEndpoint(srv.URL), WithHTTPClient(srv.Client()), fastRetry).ListTop(context.Background())
	if !errors.Is(err, faults.ErrNetwork) {
		t.Fatalf("ListTop() error = %v, want ErrNetwork", err)
	}
}

type fakeSummarizer struct {
	got     string
	summary summarizer.Summary
	err     error
}

func (f *fakeSummarizer) Summarize(_ context.Context, article string) (summarizer.Summary, error) {
	f.got = article
	return f.summary, f.err
}

const articlePage = `<!DOCTYPE html>
<html><head><title>t</title><script>var x = 1;</script></head>
<body>
<!-- tracking -->
<div class="content"><p>正文第一段</p><img src="https://img/body1.jpg?w=100"></div>
<script>track()</script>
<style>.a{}</style>
</body></html>`

func TestArticleExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/newsDetail_forward_3001" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	sum := &fakeSummarizer{summary: summarizer.Summary{
		Sentences: []string{"第一句", "第二句"},
		Images:    []string{"https://img/body1.jpg"},
	}}
	ref := models.ContentReference{
		Title:  "标题一",
		URL:    srv.URL + "/newsDetail_forward_3001",
		Images: []string{"https://img/cover1.jpg"},
		Videos: []string{"https://video/1.mp4"},
	}

	material, err := NewArticleExtractor(sum, WithHTTPClient(srv.Client()), fastRetry).Extract(context.Background(), ref)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	want := models.Material{
		Title:   "标题一",
		Summary: []string{"第一句", "第二句"},
		Images:  []string{"https://img/cover1.jpg", "https://img/body1.jpg"},
		Videos:  []string{"https://video/1.mp4"},
	}
	if !reflect.DeepEqual(material, want) {
		t.Errorf("Extract() = %#v, want %#v", material, want)
	}

	if !strings.Contains(sum.got, "正文第一段") || !strings.Contains(sum.got, "body1.jpg") {
		t.Errorf("summarizer input lost body content: %q", sum.got)
	}
	for _, unwanted := range []string{"track()", "tracking", ".a{}", "<title>"} {
		if strings.Contains(sum.got, unwanted) {
			t.Errorf("summarizer input contains %q", unwanted)
		}
	}
}

func TestArticleExtractorFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			_, _ = w.Write([]byte("<html><body>  </body></html>"))
		case "/ok":
			_, _ = w.Write([]byte(articlePage))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	llmErr := errors.New("model overloaded")
	tests := []struct {
		name string
		path string
		sum  summarizer.Summarizer
		want error
	}{
		{"missing page", "/gone", &fakeSummarizer{}, faults.ErrNetwork},
		{"empty body", "/empty", &fakeSummarizer{}, faults.ErrEmptyInput},
		{"summarizer fails", "/ok", &fakeSummarizer{err: llmErr}, llmErr},
		{"no summarizer", "/ok", nil, faults.ErrNoProvider},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewArticleExtractor(tt.sum, WithHTTPClient(srv.Client()), fastRetry)
			_, err := ex.Extract(context.Background(), models.ContentReference{URL: srv.URL + tt.path})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Extract() error = %v, want %v", err, tt.want)
			}
		})
	}
}
