package scriptdoc

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/models"
)

func documentXML(t *testing.T, path string) string {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open docx: %v", err)
	}
	defer r.Close()
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-script.docx")
	cues := []models.Cue{
		{Text: "第一句", Duration: time.Second},
		{Text: "第二句", Duration: 1500 * time.Millisecond},
	}

	if err := Write(path, "热点新闻", cues, 200*time.Millisecond); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	xml := documentXML(t, path)
	for _, want := range []string{"热点新闻", "00:00:00,000", "第一句", "00:00:01,200", "第二句"} {
		if !strings.Contains(xml, want) {
			t.Errorf("document is missing %q", want)
		}
	}
}

func TestWriteEmptyPath(t *testing.T) {
	if err := Write(" ", "t", nil, 0); err == nil {
		t.Fatal("expected error for empty path")
	}
}
