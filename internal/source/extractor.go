package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
	"github.com/nguyentantai21042004/newsreel/internal/summarizer"
)

const maxPageBytes = 8 << 20

// ArticleExtractor fetches an article page and asks a summarizer for the
// narration and the body pictures.
type ArticleExtractor struct {
	client
	summarizer summarizer.Summarizer
}

func NewArticleExtractor(s summarizer.Summarizer, opts ...Option) *ArticleExtractor {
	return &ArticleExtractor{client: newClient("", opts), summarizer: s}
}

// Extract returns the material of ref. Reference pictures come before the
// pictures found in the article body.
func (e *ArticleExtractor) Extract(ctx context.Context, ref models.ContentReference) (models.Material, error) {
	if e.summarizer == nil {
		return models.Material{}, faults.Detail(faults.ErrNoProvider, "no summarizer configured", nil)
	}

	page, err := e.fetchPage(ctx, ref.URL)
	if err != nil {
		return models.Material{}, err
	}

	body, err := bodyHTML(page)
	if err != nil {
		return models.Material{}, err
	}
	e.logger.Debug(ctx, "Article body: %d bytes", len(body))

	summary, err := e.summarizer.Summarize(ctx, body)
	if err != nil {
		return models.Material{}, fmt.Errorf("summarize %s: %w", ref.URL, err)
	}

	images := make([]string, 0, len(ref.Images)+len(summary.Images))
	images = append(images, ref.Images...)
	images = append(images, summary.Images...)

	return models.Material{
		Title:   ref.Title,
		Summary: summary.Sentences,
		Images:  images,
		Videos:  append([]string(nil), ref.Videos...),
	}, nil
}

func (e *ArticleExtractor) fetchPage(ctx context.Context, url string) ([]byte, error) {
	var page []byte
	err := retry.Do(ctx, e.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "bad article url "+url, err))
		}
		resp, err := e.http.Do(req)
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "fetch "+url, err)
		}
		if err := retry.CheckResponse(resp); err != nil {
			return faults.Detail(faults.ErrNetwork, "fetch "+url, err)
		}
		defer resp.Body.Close()

		page, err = io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "read "+url, err)
		}
		return nil
	})
	return page, err
}

// bodyHTML renders the inner HTML of <body> without scripts, styles and
// comments. Image tags are kept so the summarizer can pick pictures.
func bodyHTML(page []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return "", faults.Detail(faults.ErrEmptyInput, "parse article", err)
	}

	body := findBody(doc)
	if body == nil {
		return "", faults.Detail(faults.ErrEmptyInput, "article has no body", nil)
	}
	prune(body)

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", faults.Detail(faults.ErrIO, "render article body", err)
		}
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", faults.Detail(faults.ErrEmptyInput, "article body is empty", nil)
	}
	return out, nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode,
			c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Noscript):
			n.RemoveChild(c)
		default:
			prune(c)
		}
		c = next
	}
}
