package subtitle

import (
	"context"
	"os"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

// Writer renders cues to an .srt file inside the run workspace.
type Writer struct {
	gap time.Duration
}

// NewWriter returns a Writer using CaptionGap between captions.
func NewWriter() *Writer {
	return &Writer{gap: CaptionGap}
}

// Write renders the cues and stores them in a newly allocated .srt file.
func (w *Writer) Write(ctx context.Context, files workspace.Allocator, cues []models.Cue) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cleaned := make([]models.Cue, len(cues))
	for i, c := range cues {
		cleaned[i] = models.Cue{Text: CleanText(c.Text), Duration: c.Duration}
	}

	path, err := files.NewFile("srt")
	if err != nil {
		return "", faults.Detail(faults.ErrIO, "allocate subtitle file", err)
	}
	if err := os.WriteFile(path, []byte(Render(cleaned, w.gap)), 0644); err != nil {
		_ = os.Remove(path)
		return "", faults.Detail(faults.ErrIO, "write subtitle file", err)
	}
	return path, nil
}
