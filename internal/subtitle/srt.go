package subtitle

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/newsreel/internal/models"
)

// CaptionGap separates the end of one caption from the start of the next.
const CaptionGap = 200 * time.Millisecond

// Render lays the cues out back to back, each starting gap after the previous
// one ended, and returns the SRT document. Output depends only on the input.
func Render(cues []models.Cue, gap time.Duration) string {
	var b strings.Builder
	b.Grow(len(cues) * 64)

	var cursor time.Duration
	for i, cue := range cues {
		start := cursor
		end := start + cue.Duration

		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(Timestamp(start))
		b.WriteString(" --> ")
		b.WriteString(Timestamp(end))
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteString("\n\n")

		cursor = end + gap
	}
	return b.String()
}

// Timestamp formats d as HH:MM:SS,mmm, truncating below the millisecond.
func Timestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMillis := int64(d / time.Millisecond)
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	seconds := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

// CleanText prepares caption text: NFC normalized, single line, trimmed.
func CleanText(text string) string {
	text = norm.NFC.String(text)
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	return strings.TrimSpace(text)
}
