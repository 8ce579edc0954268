package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-retriever/internal/config"
)

type stubSearcher struct {
	results []chromem.Result
	err     error

	gotName string
	gotK    int
}

func (s *stubSearcher) Search(_ context.Context, name string, _ []float32, k int) ([]chromem.Result, error) {
	s.gotName = name
	s.gotK = k
	return s.results, s.err
}

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0, 0}
	}
	return vectors, s.err
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, s.err
}

type stubGenerator struct {
	response  string
	err       error
	gotPrompt string
}

func (s *stubGenerator) GenerateAnswer(_ context.Context, prompt string) (string, error) {
	s.gotPrompt = prompt
	return s.response, s.err
}

func testConfig() *config.RAGConfig {
	return &config.RAGConfig{TopK: 5, MaxEmbedChars: 4000}
}

func TestAnswer_GroundedResult(t *testing.T) {
	store := &stubSearcher{results: []chromem.Result{
		{Content: "first ranked text"},
		{Content: "second ranked text"},
	}}
	gen := &stubGenerator{
		response: `{"answer": "it is about testing", "context_used": "first ranked text", "reasoning": "the first record states it"}`,
	}
	engine := NewEngine(store, &stubEmbedder{}, gen, testConfig())

	answer, err := engine.Answer(context.Background(), "report.pdf", "what is this about?")
	require.NoError(t, err)

	assert.Equal(t, "it is about testing", answer.Answer)
	assert.Equal(t, "first ranked text", answer.Excerpt)
	assert.Equal(t, "the first record states it", answer.Reasoning)

	assert.Equal(t, "report.pdf", store.gotName)
	assert.Equal(t, 5, store.gotK)
	// context block preserves rank order, blank-line separated
	assert.Contains(t, gen.gotPrompt, "first ranked text\n\nsecond ranked text")
	assert.Contains(t, gen.gotPrompt, "what is this about?")
}

func TestAnswer_FencedModelResponse(t *testing.T) {
	gen := &stubGenerator{
		response: "```json\n" + `{"answer": "a", "context_used": "b", "reasoning": "c"}` + "\n```",
	}
	engine := NewEngine(&stubSearcher{}, &stubEmbedder{}, gen, testConfig())

	answer, err := engine.Answer(context.Background(), "report.pdf", "q")
	require.NoError(t, err)
	assert.Equal(t, "a", answer.Answer)
}

func TestAnswer_EmptyPartitionStillInvokesModel(t *testing.T) {
	gen := &stubGenerator{
		response: `{"answer": "I don't know based on the provided text.", "context_used": "", "reasoning": "no context supplied"}`,
	}
	store := &stubSearcher{}
	engine := NewEngine(store, &stubEmbedder{}, gen, testConfig())

	answer, err := engine.Answer(context.Background(), "", "anything?")
	require.NoError(t, err)

	assert.Empty(t, store.gotName, "empty handle must skip search")
	assert.NotEmpty(t, gen.gotPrompt, "model is still invoked with empty context")
	assert.Contains(t, answer.Answer, "I don't know")
}

func TestAnswer_GenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model overloaded")}
	engine := NewEngine(&stubSearcher{}, &stubEmbedder{}, gen, testConfig())

	_, err := engine.Answer(context.Background(), "report.pdf", "q")
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
}

func TestAnswer_EmbeddingFailure(t *testing.T) {
	engine := NewEngine(&stubSearcher{}, &stubEmbedder{err: errors.New("embed down")}, &stubGenerator{}, testConfig())

	_, err := engine.Answer(context.Background(), "report.pdf", "q")
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
}

func TestAnswer_UndecodableAnswer(t *testing.T) {
	gen := &stubGenerator{response: "plain prose, no JSON at all"}
	engine := NewEngine(&stubSearcher{}, &stubEmbedder{}, gen, testConfig())

	_, err := engine.Answer(context.Background(), "report.pdf", "q")
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
}

func TestAnswer_SearchErrorPropagates(t *testing.T) {
	store := &stubSearcher{err: errors.New("store corrupt")}
	engine := NewEngine(store, &stubEmbedder{}, &stubGenerator{}, testConfig())

	_, err := engine.Answer(context.Background(), "report.pdf", "q")
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
}

func TestAnswer_ContextJoinsAllRetrieved(t *testing.T) {
	// fewer records than TopK must not error, just a shorter context
	store := &stubSearcher{results: []chromem.Result{{Content: "only record"}}}
	gen := &stubGenerator{response: `{"answer": "x", "context_used": "only record", "reasoning": "y"}`}
	engine := NewEngine(store, &stubEmbedder{}, gen, testConfig())

	_, err := engine.Answer(context.Background(), "report.pdf", "q")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(gen.gotPrompt, "only record"))
}
