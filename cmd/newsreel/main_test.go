package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/newsreel/internal/history"
	"github.com/nguyentantai21042004/newsreel/internal/models"
)

func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()

	base := t.TempDir()
	dbPath := filepath.Join(base, "history.db")
	content := fmt.Sprintf(`paths:
  workspace: %s
  output: %s
  inbox: %s
  history_db: %s
stages:
  speech: false
logging:
  level: error
`, filepath.Join(base, "temp"), filepath.Join(base, "out"), filepath.Join(base, "inbox"), dbPath)

	path := filepath.Join(base, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, dbPath
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveReference(t *testing.T) {
	refs := []models.ContentReference{
		{Source: "pengpai", ID: "1", Title: "first", URL: "https://example.com/1"},
		{ID: "2", Title: "second", URL: "https://example.com/2"},
	}

	tests := []struct {
		name    string
		target  string
		refs    []models.ContentReference
		wantURL string
		wantErr string
	}{
		{name: "first index", target: "1", refs: refs, wantURL: "https://example.com/1"},
		{name: "second index", target: "2", refs: refs, wantURL: "https://example.com/2"},
		{name: "zero index", target: "0", refs: refs, wantErr: "out of range"},
		{name: "index past end", target: "3", refs: refs, wantErr: "out of range"},
		{name: "empty listing", target: "1", wantErr: "no content listed"},
		{name: "url", target: "https://example.com/article", wantURL: "https://example.com/article"},
		{name: "not a url", target: "example.com/article", wantErr: "invalid target"},
		{name: "unsupported scheme", target: "ftp://example.com/a", wantErr: "invalid target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := resolveReference("pengpai", tt.target, tt.refs)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", ref.URL, tt.wantURL)
			}
			if ref.Source != "pengpai" {
				t.Errorf("Source = %q, want pengpai", ref.Source)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"#", "Title"},
		[][]string{{"1", "hello"}, {"22"}},
		[]columnAlignment{alignRight, alignLeft},
	)
	// rounded style upper-cases headers
	for _, want := range []string{"#", "TITLE", "hello", "22"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("expected empty output without headers")
	}
}

func TestRenderPlain(t *testing.T) {
	refs := []models.ContentReference{
		{ID: "31", Title: "headline", Images: []string{"a", "b"}, Videos: []string{}},
	}
	got := renderPlain(referenceRows(refs))
	want := "1\t31\theadline\t2\t0\n"
	if got != want {
		t.Fatalf("renderPlain() = %q, want %q", got, want)
	}
}

func TestHistoryCommand(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	out, err := runCLI(t, "--config", configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No runs recorded") {
		t.Fatalf("unexpected output %q", out)
	}

	store, err := history.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	runs := []history.Run{
		{RunID: "a", Source: "pengpai", Title: "done", Status: history.StatusComposed, OutputPath: "/out/a-final.mp4", Elapsed: 3 * time.Second, FinishedAt: time.Now()},
		{RunID: "b", Source: "pengpai", Title: "broken", Status: history.StatusFailed, Error: "mux failed", Elapsed: time.Second, FinishedAt: time.Now()},
	}
	for _, run := range runs {
		if err := store.Record(context.Background(), run); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	store.Close()

	out, err = runCLI(t, "--config", configPath, "history", "--limit", "5")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	for _, want := range []string{"/out/a-final.mp4", "mux failed", "composed", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}
}

func TestMissingConfig(t *testing.T) {
	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "history")
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Fatalf("expected read config error, got %v", err)
	}
}

func TestProduceRejectsBadTarget(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, err := runCLI(t, "--config", configPath, "produce", "pengpai", "not-a-target")
	if err == nil || !strings.Contains(err.Error(), "invalid target") {
		t.Fatalf("expected invalid target error, got %v", err)
	}
}
