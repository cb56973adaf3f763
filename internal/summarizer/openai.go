package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/shared"

	"github.com/nguyentantai21042004/newsreel/internal/logger"
)

// implOpenAI talks to any OpenAI-compatible chat endpoint (DeepSeek by default).
type implOpenAI struct {
	client openai.Client
	model  string
	logger logger.Logger
}

func newOpenAI(client openai.Client, model string, log logger.Logger) *implOpenAI {
	return &implOpenAI{client: client, model: model, logger: log}
}

func (s *implOpenAI) Summarize(ctx context.Context, article string) (Summary, error) {
	s.logger.Debug(ctx, "Asking %s to summarize %d bytes", s.model, len(article))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(summaryPrompt),
			openai.UserMessage(article),
		},
		Model:       s.model,
		Temperature: openai.Float(0.7),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		return Summary{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Summary{}, errors.New("chat completion returned no choices")
	}
	return decodeSummary(resp.Choices[0].Message.Content)
}
