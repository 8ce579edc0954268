package embedding

import (
	"context"
	"strings"
	"unicode/utf8"

	"pdf-retriever/internal/config"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder creates a new embedder against an OpenAI-compatible endpoint.
func NewEmbedder(cfg *config.LLMConfig) (embeddings.Embedder, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm) // Handle both return values
	if err != nil {
		return nil, err
	}
	return embedder, nil
}

// EmbedTexts embeds all texts in one batch call, truncating each to
// maxChars first so oversized content cannot fail the whole batch.
func EmbedTexts(ctx context.Context, embedder embeddings.Embedder, texts []string, maxChars int) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	truncated := make([]string, len(texts))
	for i, text := range texts {
		truncated[i] = firstChunk(text, maxChars)
	}
	return embedder.EmbedDocuments(ctx, truncated)
}

// EmbedQuery embeds a single query string with the same truncation guard.
func EmbedQuery(ctx context.Context, embedder embeddings.Embedder, content string, maxChars int) ([]float32, error) {
	content = firstChunk(content, maxChars)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	return embedder.EmbedQuery(ctx, content)
}

func firstChunk(content string, maxChars int) string {
	chunks := chunkContent(content, maxChars)
	if len(chunks) == 0 {
		return ""
	}
	return chunks[0]
}

func chunkContent(content string, maxChars int) []string {
	var chunks []string
	words := strings.Split(content, " ")
	var chunk strings.Builder
	for _, word := range words {
		// a word longer than maxChars (spaceless scripts, long tokens)
		// is hard-split on rune boundaries so no chunk comes out empty
		for len(word) > maxChars {
			if chunk.Len() > 0 {
				chunks = append(chunks, chunk.String())
				chunk.Reset()
			}
			cut := maxChars
			for cut > 0 && !utf8.RuneStart(word[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxChars
			}
			chunks = append(chunks, word[:cut])
			word = word[cut:]
		}
		if chunk.Len() > 0 && chunk.Len()+len(word)+1 > maxChars {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
		chunk.WriteString(word + " ")
	}
	if strings.TrimSpace(chunk.String()) != "" {
		chunks = append(chunks, chunk.String())
	}
	return chunks
}
