package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

const (
	// Pengpai is the registry name of The Paper (thepaper.cn).
	Pengpai = "pengpai"

	pengpaiHotNewsURL = "https://cache.thepaper.cn/contentapi/wwwIndex/rightSidebar"
	pengpaiArticleURL = "https://www.thepaper.cn/newsDetail_forward_"
)

type pengpaiResponse struct {
	Data struct {
		HotNews []pengpaiHotNews `json:"hotNews"`
	} `json:"data"`
}

type pengpaiHotNews struct {
	ContID string        `json:"contId"`
	Name   string        `json:"name"`
	Pic    string        `json:"pic"`
	Videos *pengpaiVideo `json:"videos"`
}

type pengpaiVideo struct {
	URL                string `json:"url"`
	CoverURLFirstFrame string `json:"coverUrlFirstFrame"`
}

// PengpaiCrawler lists the hot-news sidebar of The Paper.
type PengpaiCrawler struct {
	client
}

func NewPengpaiCrawler(opts ...Option) *PengpaiCrawler {
	return &PengpaiCrawler{client: newClient(pengpaiHotNewsURL, opts)}
}

// ListTop returns the current hot news in sidebar order. Nothing is cached.
func (c *PengpaiCrawler) ListTop(ctx context.Context) ([]models.ContentReference, error) {
	var decoded pengpaiResponse
	err := retry.Do(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "build hot news request", err))
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "fetch hot news", err)
		}
		if err := retry.CheckResponse(resp); err != nil {
			return faults.Detail(faults.ErrNetwork, "fetch hot news", err)
		}
		defer resp.Body.Close()

		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "decode hot news", err))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pengpai: %w", err)
	}

	refs := make([]models.ContentReference, 0, len(decoded.Data.HotNews))
	for _, n := range decoded.Data.HotNews {
		if strings.TrimSpace(n.ContID) == "" {
			continue
		}
		refs = append(refs, n.reference())
	}
	c.logger.Debug(ctx, "Pengpai listed %d hot news", len(refs))
	return refs, nil
}

func (n pengpaiHotNews) reference() models.ContentReference {
	ref := models.ContentReference{
		Source: Pengpai,
		ID:     n.ContID,
		Title:  strings.TrimSpace(n.Name),
		URL:    pengpaiArticleURL + n.ContID,
		Images: []string{},
		Videos: []string{},
	}
	if n.Pic != "" {
		ref.Images = append(ref.Images, n.Pic)
	}
	if n.Videos != nil {
		if n.Videos.URL != "" {
			ref.Videos = append(ref.Videos, n.Videos.URL)
		}
		if n.Videos.CoverURLFirstFrame != "" {
			ref.Images = append(ref.Images, n.Videos.CoverURLFirstFrame)
		}
	}
	return ref
}
