package db

import (
	"context"

	"github.com/uptrace/bun"
)

// TableRecord is one extracted table, persisted independently of the
// semantic store. Tables are retrieved by exact document-name lookup, not
// semantic search, and are never embedded.
type TableRecord struct {
	bun.BaseModel `bun:"table:extracted_tables,alias:t"`
	ID            string     `bun:"id,pk"`
	FileName      string     `bun:"file_name,notnull"`
	UserID        int64      `bun:"user_id"`
	Page          int        `bun:"page"`
	Caption       string     `bun:"caption"`
	Cells         [][]string `bun:"cells,type:jsonb"`
}

func InsertTables(ctx context.Context, db *bun.DB, records []TableRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(&records).Exec(ctx)
	return err
}

// TablesForFile returns a document's extracted tables, optionally scoped to
// one owner (userID 0 skips the owner filter).
func TablesForFile(ctx context.Context, db *bun.DB, fileName string, userID int64) ([]TableRecord, error) {
	var records []TableRecord
	q := db.NewSelect().Model(&records).Where("file_name = ?", fileName)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	err := q.Scan(ctx)
	return records, err
}

func DeleteTablesForFile(ctx context.Context, db *bun.DB, fileName string, userID int64) error {
	q := db.NewDelete().Model((*TableRecord)(nil)).Where("file_name = ?", fileName)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	_, err := q.Exec(ctx)
	return err
}
