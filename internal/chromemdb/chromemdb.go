package chromemdb

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"pdf-retriever/internal/config"
)

const compress = false

// Manager encapsulates the chromem-go database. Each document gets its own
// named partition (collection); the partition name is the only handle used
// to reopen a document's records later.
type Manager struct {
	db            *chromem.DB
	dbPath        string
	inMemory      bool
	encryptionKey string
}

// NewManager opens the vector store, persistent unless configured in-memory.
func NewManager(cfg *config.VectorConfig) (*Manager, error) {
	var db *chromem.DB
	var err error
	if cfg.InMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(cfg.Path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	return &Manager{
		db:            db,
		dbPath:        cfg.Path,
		inMemory:      cfg.InMemory,
		encryptionKey: cfg.EncryptionKey,
	}, nil
}

// Partition returns the named collection, creating it if needed.
func (m *Manager) Partition(name string) (*chromem.Collection, error) {
	c, err := m.db.GetOrCreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}
	return c, nil
}

// Upsert writes documents with precomputed embeddings into the named
// partition, creating it on first write.
func (m *Manager) Upsert(ctx context.Context, name string, docs []chromem.Document) error {
	c, err := m.Partition(name)
	if err != nil {
		return err
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns up to k records from the named partition ranked by the
// store's similarity metric. k is clamped to the partition size, and a
// missing or empty partition yields no results rather than an error.
func (m *Manager) Search(ctx context.Context, name string, queryEmbedding []float32, k int) ([]chromem.Result, error) {
	c := m.db.GetCollection(name, nil)
	if c == nil {
		return nil, nil
	}
	count := c.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := c.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}
	return results, nil
}

// delete partition
func (m *Manager) DeletePartition(name string) error {
	if err := m.db.DeleteCollection(name); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	return nil
}

// Export writes an encrypted snapshot of one partition next to the store.
func (m *Manager) Export(ctx context.Context, name string) error {
	if m.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	filePath := filepath.Join(m.dbPath, name+".chromem")
	log.Debug().Str("collection", name).Str("file", filePath).Msg("Exporting collection")
	if err := m.db.ExportToFile(filePath, compress, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Import restores a partition from an encrypted snapshot.
func (m *Manager) Import(ctx context.Context, name string) error {
	filePath := filepath.Join(m.dbPath, name+".chromem")
	if err := m.db.ImportFromFile(filePath, m.encryptionKey, name); err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}
	return nil
}
