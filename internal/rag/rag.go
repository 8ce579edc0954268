package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-retriever/internal/config"
	"pdf-retriever/internal/embedding"
	"pdf-retriever/internal/models"
	"pdf-retriever/internal/parser"
)

// RetrievalError is a query-time failure: embedding or generation errors.
// It must not corrupt session history; callers append turns only on success.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// Searcher is the slice of the semantic store the engine reads from.
type Searcher interface {
	Search(ctx context.Context, name string, queryEmbedding []float32, k int) ([]chromem.Result, error)
}

// Generator produces the model's text response for a grounding prompt.
type Generator interface {
	GenerateAnswer(ctx context.Context, prompt string) (string, error)
}

// Engine retrieves the top-matching semantic records for a query and
// synthesizes a grounded answer with its supporting excerpt and reasoning.
type Engine struct {
	store    Searcher
	embedder embeddings.Embedder
	llm      Generator
	cfg      *config.RAGConfig
}

func NewEngine(store Searcher, embedder embeddings.Embedder, llm Generator, cfg *config.RAGConfig) *Engine {
	return &Engine{store: store, embedder: embedder, llm: llm, cfg: cfg}
}

// Answer runs one grounded query against the named partition. An empty
// partition name means the document produced no semantic records; the model
// is still invoked with an empty context and typically declines.
func (e *Engine) Answer(ctx context.Context, partition, query string) (*models.Answer, error) {
	contextBlock, err := e.retrieveContext(ctx, partition, query)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextBlock, query)
	raw, err := e.llm.GenerateAnswer(ctx, prompt)
	if err != nil {
		return nil, &RetrievalError{Err: fmt.Errorf("generation: %w", err)}
	}

	var answer models.Answer
	if err := parser.DecodeLoose(raw, &answer); err != nil {
		return nil, &RetrievalError{Err: fmt.Errorf("answer decoding: %w", err)}
	}
	return &answer, nil
}

// retrieveContext embeds the query, searches the partition, and joins the
// retrieved contents with blank lines in rank order.
func (e *Engine) retrieveContext(ctx context.Context, partition, query string) (string, error) {
	if partition == "" {
		log.Debug().Msg("No semantic partition, querying with empty context")
		return "", nil
	}

	queryEmbedding, err := embedding.EmbedQuery(ctx, e.embedder, query, e.cfg.MaxEmbedChars)
	if err != nil {
		return "", &RetrievalError{Err: fmt.Errorf("query embedding: %w", err)}
	}

	results, err := e.store.Search(ctx, partition, queryEmbedding, e.cfg.TopK)
	if err != nil {
		return "", &RetrievalError{Err: fmt.Errorf("similarity search: %w", err)}
	}

	parts := make([]string, 0, len(results))
	for _, res := range results {
		parts = append(parts, res.Content)
	}
	return strings.Join(parts, models.ContextSeparator), nil
}
