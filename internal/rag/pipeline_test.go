package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-retriever/internal/chromemdb"
	"pdf-retriever/internal/config"
	"pdf-retriever/internal/db"
	"pdf-retriever/internal/indexer"
	"pdf-retriever/internal/models"
)

type memTableStore struct {
	records []db.TableRecord
}

func (m *memTableStore) InsertTables(_ context.Context, records []db.TableRecord) error {
	m.records = append(m.records, records...)
	return nil
}

// Indexes a parsed two-page document into a real in-memory vector store and
// answers a question against it through the full retrieval path.
func TestIndexThenAnswer(t *testing.T) {
	ctx := context.Background()

	introText := strings.Repeat("Introduction to the subject. ", 3)
	parsed := &models.ParsedDocument{
		Sections: []models.Section{
			{Title: "Introduction", Content: introText, PageStart: 1, PageEnd: 2},
		},
		Tables: []models.Table{
			{Page: 2, Caption: "Figures", Cells: [][]string{{"year", "value"}, {"2024", "10"}}},
		},
	}

	vdb, err := chromemdb.NewManager(&config.VectorConfig{InMemory: true})
	require.NoError(t, err)

	embedder := &stubEmbedder{}
	tables := &memTableStore{}
	ix := indexer.New(vdb, tables, embedder, 4000)

	result, err := ix.Index(ctx, parsed, "intro guide.pdf", 1)
	require.NoError(t, err)
	assert.Equal(t, "intro_guide.pdf", result.Partition)
	assert.Equal(t, 1, result.Records)
	require.Len(t, tables.records, 1)
	assert.Equal(t, 2, tables.records[0].Page)

	gen := &stubGenerator{
		response: `{"answer": "It introduces the subject.", "context_used": "Introduction to the subject.", "reasoning": "the retrieved section says so"}`,
	}
	engine := NewEngine(vdb, embedder, gen, testConfig())

	answer, err := engine.Answer(ctx, result.Partition, "What is this document about?")
	require.NoError(t, err)

	assert.Contains(t, gen.gotPrompt, introText, "retrieved section must ground the prompt")
	assert.NotContains(t, answer.Answer, "I don't know")
	assert.Equal(t, "Introduction to the subject.", answer.Excerpt)
}
