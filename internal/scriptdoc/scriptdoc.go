// Package scriptdoc exports the narration of a production as a Word document
// that sits next to the video.
package scriptdoc

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/subtitle"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
)

// Write saves title and the timed captions to outputPath. Each caption starts
// with its on-screen time, using the same gap the subtitle track uses.
func Write(outputPath, title string, cues []models.Cue, gap time.Duration) error {
	if strings.TrimSpace(outputPath) == "" {
		return errors.New("scriptdoc: empty output path")
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addRun(doc.AddParagraph(""), strings.TrimSpace(title), true, titleSize)
	doc.AddParagraph("")

	var cursor time.Duration
	for _, cue := range cues {
		p := doc.AddParagraph("")
		addRun(p, subtitle.Timestamp(cursor)+"  ", true, fontSize)
		addRun(p, subtitle.CleanText(cue.Text), false, fontSize)
		cursor += cue.Duration + gap
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save %s: %w", outputPath, err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
