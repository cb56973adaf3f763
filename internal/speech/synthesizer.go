package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/nguyentantai21042004/newsreel/internal/faults"
	"github.com/nguyentantai21042004/newsreel/internal/models"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
	"github.com/nguyentantai21042004/newsreel/internal/timeline"
	"github.com/nguyentantai21042004/newsreel/internal/workspace"
)

const maxAudioBytes = 64 << 20

type ttsRequest struct {
	Model string   `json:"model"`
	Input ttsInput `json:"input"`
}

type ttsInput struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

type ttsResponse struct {
	Output struct {
		Audio struct {
			URL string `json:"url"`
		} `json:"audio"`
	} `json:"output"`
}

// Synthesize renders each non-blank text into its own WAV file in the
// workspace. Segments come back in input order. On failure every segment
// already written is removed.
func (s *Synthesizer) Synthesize(ctx context.Context, files workspace.Allocator, texts []string) (segments []models.Segment, err error) {
	if s.cfg.URL == "" || s.cfg.APIKey == "" {
		return nil, faults.Detail(faults.ErrNoProvider, "dashscope url or api key missing", nil)
	}

	lines := make([]string, 0, len(texts))
	var skipped []int
	for i, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			lines = append(lines, t)
			continue
		}
		skipped = append(skipped, i+1)
	}
	if len(skipped) > 0 {
		s.logger.Warn(ctx, "Skipping blank sentences at positions %v", skipped)
	}
	if len(lines) == 0 {
		return nil, faults.Detail(faults.ErrEmptyInput, "nothing to synthesize", nil)
	}

	defer func() {
		if err != nil {
			for _, seg := range segments {
				files.Remove(ctx, seg.Path)
			}
			segments = nil
		}
	}()

	for i, text := range lines {
		seg, err := s.synthesizeOne(ctx, files, text)
		if err != nil {
			return segments, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		s.logger.Debug(ctx, "Synthesized sentence %d/%d (%s)", i+1, len(lines), seg.Duration)
		segments = append(segments, seg)
	}

	s.logger.Info(ctx, "Synthesized %d segments", len(segments))
	return segments, nil
}

func (s *Synthesizer) synthesizeOne(ctx context.Context, files workspace.Allocator, text string) (models.Segment, error) {
	audioURL, err := s.requestAudioURL(ctx, text)
	if err != nil {
		return models.Segment{}, err
	}

	data, err := s.fetch(ctx, audioURL)
	if err != nil {
		return models.Segment{}, err
	}

	path, err := files.NewFile("wav")
	if err != nil {
		return models.Segment{}, faults.Detail(faults.ErrIO, "allocate segment", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		files.Remove(ctx, path)
		return models.Segment{}, faults.Detail(faults.ErrIO, "write segment", err)
	}

	d, err := timeline.Measure(path)
	if err != nil {
		files.Remove(ctx, path)
		return models.Segment{}, fmt.Errorf("measure segment: %w", err)
	}
	return models.Segment{Path: path, Text: text, Duration: d}, nil
}

func (s *Synthesizer) requestAudioURL(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(ttsRequest{
		Model: s.cfg.Model,
		Input: ttsInput{Text: text, Voice: s.cfg.Voice},
	})
	if err != nil {
		return "", faults.Detail(faults.ErrIO, "encode tts request", err)
	}

	var audioURL string
	err = retry.Do(ctx, s.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "build tts request", err))
		}
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "tts request", err)
		}
		if err := retry.CheckResponse(resp); err != nil {
			return faults.Detail(faults.ErrNetwork, "tts request", err)
		}
		defer resp.Body.Close()

		var decoded ttsResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "decode tts response", err))
		}
		if decoded.Output.Audio.URL == "" {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "tts response has no audio url", nil))
		}
		audioURL = decoded.Output.Audio.URL
		return nil
	})
	return audioURL, err
}

func (s *Synthesizer) fetch(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := retry.Do(ctx, s.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(faults.Detail(faults.ErrNetwork, "bad audio url", err))
		}
		resp, err := s.http.Do(req)
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "download audio", err)
		}
		if err := retry.CheckResponse(resp); err != nil {
			return faults.Detail(faults.ErrNetwork, "download audio", err)
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
		if err != nil {
			return faults.Detail(faults.ErrNetwork, "read audio", err)
		}
		return nil
	})
	return data, err
}
