package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
	"github.com/nguyentantai21042004/newsreel/internal/retry"
)

// generateFunc sends one prompt with one API key and returns the reply text.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implGemini struct {
	apiKeys  []string
	model    string
	policy   retry.Policy
	logger   logger.Logger
	generate generateFunc

	mu         sync.Mutex
	currentKey int
}

func newGemini(apiKeys []string, model string, policy retry.Policy, log logger.Logger) *implGemini {
	return &implGemini{
		apiKeys:  apiKeys,
		model:    model,
		policy:   policy,
		logger:   log,
		generate: generateContent,
	}
}

// Summarize sends the article to Gemini, rotating API keys on 429 / quota errors.
// Transient failures are retried with the same key.
func (s *implGemini) Summarize(ctx context.Context, article string) (Summary, error) {
	prompt := summaryPrompt + "\n\n新闻稿：\n---\n" + article + "\n---"

	var lastErr error
	for range len(s.apiKeys) {
		idx, key := s.key()

		var text string
		err := retry.Do(ctx, s.policy, func() error {
			var err error
			text, err = s.generate(ctx, key, s.model, prompt)
			if err != nil && !isTransient(err) {
				return retry.Permanent(err)
			}
			return err
		})
		if err != nil {
			if isQuotaError(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey(idx)
				lastErr = err
				continue
			}
			return Summary{}, fmt.Errorf("generate content: %w", err)
		}
		return decodeSummary(text)
	}

	return Summary{}, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implGemini) key() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentKey, s.apiKeys[s.currentKey]
}

// rotateKey advances past idx unless another run already did.
func (s *implGemini) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// isTransient reports whether the same key is worth another attempt.
func isTransient(err error) bool {
	if isQuotaError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusRequestTimeout || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func generateContent(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
