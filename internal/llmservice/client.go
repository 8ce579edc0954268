package llmservice

import (
	"context"
	"fmt"
	"strings"

	"pdf-retriever/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client binds one OpenAI-compatible endpoint to the two call shapes the
// pipeline needs: structure inference over raw PDF bytes and grounded
// answer generation.
type Client struct {
	cfg *config.LLMConfig
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

// InferStructure sends the structure prompt together with the raw document
// bytes and returns the model's text response.
func (c *Client) InferStructure(ctx context.Context, prompt string, pdfData []byte) (string, error) {
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.BinaryPart("application/pdf", pdfData),
			},
		},
	}
	res, err := GenerateContent(ctx, c.cfg, nil, messages, llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return res.Choices[0].Content, nil
}

// GenerateAnswer sends a text-only grounding prompt and returns the model's
// text response.
func (c *Client) GenerateAnswer(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}
	res, err := GenerateContent(ctx, c.cfg, nil, messages, llms.WithJSONMode())
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return res.Choices[0].Content, nil
}

// call llm
func GenerateContent(ctx context.Context, llmConfig *config.LLMConfig, tools []llms.Tool, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	log.Debug().Str("model", llmConfig.Model).Msg("Generating content")
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}

	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}

	return llm.GenerateContent(ctx, messages, opts...)
}
