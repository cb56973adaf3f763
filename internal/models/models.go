package models

import "time"

// ContentReference points at one piece of source content as listed by a crawler.
type ContentReference struct {
	Source string   `json:"source"`
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	URL    string   `json:"url"`
	Images []string `json:"images"`
	Videos []string `json:"videos"`
}

// Material is what an extractor distilled out of a ContentReference.
// Summary sentences are the units spoken and captioned one by one.
type Material struct {
	Title   string
	Summary []string
	Images  []string
	Videos  []string
}

// Segment is one synthesized sentence on disk.
type Segment struct {
	Path     string
	Text     string
	Duration time.Duration
}

// Cue is a caption text with the duration it stays on screen.
type Cue struct {
	Text     string
	Duration time.Duration
}

// Dubbing is the continuous narration track of a run.
type Dubbing struct {
	Path string
	Cues []Cue
}

// Duration is the sum of the spoken cue durations. Silence rendered
// between segments is not counted.
func (d Dubbing) Duration() time.Duration {
	var total time.Duration
	for _, c := range d.Cues {
		total += c.Duration
	}
	return total
}

// Production is the result of one successful run. The caller owns Path.
type Production struct {
	RunID      string
	Title      string
	Path       string
	ScriptPath string
}
