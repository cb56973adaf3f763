package processor

import (
	"context"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/models"
)

// ListTopContent asks the named source's crawler for its current top
// content. Results are returned as-is; nothing is cached between calls.
func (p *implProcessor) ListTopContent(ctx context.Context, source string) []models.ContentReference {
	ctx = logger.WithSource(ctx, source)

	src, ok := p.sources[source]
	if !ok {
		p.logger.Warn(ctx, "Unknown source: %s", source)
		return []models.ContentReference{}
	}
	if src.Crawler == nil {
		p.logger.Warn(ctx, "Source %s has no crawler", source)
		return []models.ContentReference{}
	}

	refs, err := src.Crawler.ListTop(ctx)
	if err != nil {
		p.logger.Error(ctx, "Failed to list %s: %v", source, err)
		return []models.ContentReference{}
	}
	if refs == nil {
		return []models.ContentReference{}
	}
	for i := range refs {
		if refs[i].Source == "" {
			refs[i].Source = source
		}
	}
	return refs
}
