package visual

import "context"

// SequenceTool renders a concat list of pictures into a silent video.
type SequenceTool interface {
	ComposeImages(ctx context.Context, listPath, output string) error
}
