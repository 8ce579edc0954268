package indexer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-retriever/internal/db"
	"pdf-retriever/internal/embedding"
	"pdf-retriever/internal/helper"
	"pdf-retriever/internal/models"
)

// IndexError is an indexing failure: embedding-service or store-write
// errors. A failed index leaves no partial partition state as authoritative.
type IndexError struct {
	Err error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index failed: %v", e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }

// VectorStore is the slice of the semantic store the indexer writes to.
type VectorStore interface {
	Upsert(ctx context.Context, name string, docs []chromem.Document) error
}

// TableStore persists extracted tables outside the semantic store.
type TableStore interface {
	InsertTables(ctx context.Context, records []db.TableRecord) error
}

// Result reports what one indexing run produced. An empty Partition means
// the document yielded no embeddable records; callers treat that as a
// valid, queryable-as-empty state.
type Result struct {
	Partition string
	Records   int
	Tables    int
}

// Indexer converts a parsed document into semantic records in a
// per-document partition plus table rows in the structured store.
type Indexer struct {
	vectors       VectorStore
	tables        TableStore
	embedder      embeddings.Embedder
	maxEmbedChars int
}

func New(vectors VectorStore, tables TableStore, embedder embeddings.Embedder, maxEmbedChars int) *Indexer {
	return &Indexer{
		vectors:       vectors,
		tables:        tables,
		embedder:      embedder,
		maxEmbedChars: maxEmbedChars,
	}
}

// Index writes one semantic record per non-empty section and per media item
// into the partition derived from docName, embedding all records in a
// single batch call, and persists every extracted table under the owner.
// Re-indexing the same document name writes into the same partition.
func (ix *Indexer) Index(ctx context.Context, parsed *models.ParsedDocument, docName string, ownerID int64) (*Result, error) {
	partition := PartitionName(docName)

	records := buildRecords(parsed, docName)
	result := &Result{}

	if len(records) > 0 {
		texts := make([]string, len(records))
		for i, rec := range records {
			texts[i] = rec.Content
		}
		vectors, err := embedding.EmbedTexts(ctx, ix.embedder, texts, ix.maxEmbedChars)
		if err != nil {
			return nil, &IndexError{Err: fmt.Errorf("embedding: %w", err)}
		}

		docs := make([]chromem.Document, len(records))
		for i, rec := range records {
			docs[i] = chromem.Document{
				ID:        rec.ID,
				Content:   rec.Content,
				Metadata:  recordMetadata(rec),
				Embedding: vectors[i],
			}
		}
		if err := ix.vectors.Upsert(ctx, partition, docs); err != nil {
			return nil, &IndexError{Err: fmt.Errorf("vector store: %w", err)}
		}
		result.Partition = partition
		result.Records = len(docs)
	} else {
		log.Info().Str("document", docName).Msg("No embeddable records, skipping semantic partition")
	}

	tableRecords, err := buildTableRecords(parsed, docName, ownerID)
	if err != nil {
		return nil, &IndexError{Err: err}
	}
	if err := ix.tables.InsertTables(ctx, tableRecords); err != nil {
		return nil, &IndexError{Err: fmt.Errorf("table store: %w", err)}
	}
	result.Tables = len(tableRecords)

	log.Info().
		Str("partition", result.Partition).
		Int("records", result.Records).
		Int("tables", result.Tables).
		Msg("Indexed document")
	return result, nil
}

// buildRecords yields one record per non-whitespace section and one per
// media item. Media descriptions are always indexed even when short.
func buildRecords(parsed *models.ParsedDocument, docName string) []models.SemanticRecord {
	var records []models.SemanticRecord
	for _, section := range parsed.Sections {
		if strings.TrimSpace(section.Content) == "" {
			continue
		}
		records = append(records, models.SemanticRecord{
			ID:      newRecordID(),
			Source:  docName,
			Type:    models.RecordTypeSection,
			Title:   section.Title,
			PageRef: fmt.Sprintf("%d-%d", section.PageStart, section.PageEnd),
			Content: section.Content,
		})
	}
	for _, item := range parsed.Media {
		records = append(records, models.SemanticRecord{
			ID:      newRecordID(),
			Source:  docName,
			Type:    models.RecordTypeMedia,
			PageRef: strconv.Itoa(item.Page),
			Content: item.Description,
		})
	}
	return records
}

func recordMetadata(rec models.SemanticRecord) map[string]string {
	meta := map[string]string{
		"source": rec.Source,
		"type":   rec.Type,
	}
	switch rec.Type {
	case models.RecordTypeSection:
		meta["title"] = rec.Title
		meta["page_range"] = rec.PageRef
	case models.RecordTypeMedia:
		meta["page"] = rec.PageRef
	}
	return meta
}

func buildTableRecords(parsed *models.ParsedDocument, docName string, ownerID int64) ([]db.TableRecord, error) {
	var records []db.TableRecord
	for _, table := range parsed.Tables {
		id, err := helper.GenerateUUID()
		if err != nil {
			return nil, err
		}
		records = append(records, db.TableRecord{
			ID:       id,
			FileName: docName,
			UserID:   ownerID,
			Page:     table.Page,
			Caption:  table.Caption,
			Cells:    table.Cells,
		})
	}
	return records, nil
}

func newRecordID() string {
	id, err := helper.GenerateUUID()
	if err != nil {
		// uuid.NewRandom only fails when the system entropy source does
		log.Warn().Err(err).Msg("Failed to generate record id")
	}
	return id
}
