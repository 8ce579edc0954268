package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"pdf-retriever/internal/helper"
	"pdf-retriever/internal/models"
)

// ChatSession is a persisted conversation bound to one uploaded document.
// The parsed structure and optionally the original PDF bytes are snapshotted
// so a session can be restored without re-parsing.
type ChatSession struct {
	bun.BaseModel `bun:"table:chats,alias:c"`
	ID            string                 `bun:"id,pk"`
	UserID        int64                  `bun:"user_id,notnull"`
	Title         string                 `bun:"title"`
	FileName      string                 `bun:"file_name"`
	History       []models.ChatTurn      `bun:"history,type:jsonb"`
	ProcessedData *models.ParsedDocument `bun:"processed_data,type:jsonb"`
	PDFB64        string                 `bun:"pdf_b64"`
	Timestamp     time.Time              `bun:"timestamp,nullzero,notnull,default:current_timestamp"`
}

// SaveChat upserts a chat session, deriving its title from the history and
// refreshing the last-touched timestamp. Returns the session id, generating
// one for new sessions.
func SaveChat(ctx context.Context, db *bun.DB, chat *ChatSession) (string, error) {
	if chat.ID == "" {
		id, err := helper.GenerateUUID()
		if err != nil {
			return "", err
		}
		chat.ID = id
	}
	chat.Title = deriveTitle(chat.History)
	chat.Timestamp = time.Now().UTC()

	_, err := db.NewInsert().
		Model(chat).
		On("CONFLICT (id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("history = EXCLUDED.history").
		Set("processed_data = EXCLUDED.processed_data").
		Set("pdf_b64 = EXCLUDED.pdf_b64").
		Set("timestamp = EXCLUDED.timestamp").
		Exec(ctx)
	if err != nil {
		return chat.ID, fmt.Errorf("failed to save chat: %w", err)
	}
	return chat.ID, nil
}

// deriveTitle takes the first user turn, truncated for display.
func deriveTitle(history []models.ChatTurn) string {
	for _, turn := range history {
		if turn.Role != models.RoleUser {
			continue
		}
		runes := []rune(turn.Content)
		if len(runes) > models.ChatTitleMaxLen {
			return string(runes[:models.ChatTitleMaxLen]) + "..."
		}
		return turn.Content
	}
	return "New Chat"
}

// ListChats returns a user's chat metadata, most recent first.
func ListChats(ctx context.Context, db *bun.DB, userID int64) ([]ChatSession, error) {
	var chats []ChatSession
	err := db.NewSelect().
		Model(&chats).
		Column("id", "title", "file_name", "timestamp").
		Where("user_id = ?", userID).
		OrderExpr("timestamp DESC").
		Scan(ctx)
	return chats, err
}

func LoadChat(ctx context.Context, db *bun.DB, chatID string) (*ChatSession, error) {
	chat := new(ChatSession)
	err := db.NewSelect().Model(chat).Where("id = ?", chatID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func DeleteChat(ctx context.Context, db *bun.DB, chatID string) error {
	_, err := db.NewDelete().Model((*ChatSession)(nil)).Where("id = ?", chatID).Exec(ctx)
	return err
}

// AppendTurns loads a session, appends turns to its history, and saves it.
// The caller appends a user/assistant pair after each successful answer; a
// failed answer must leave history untouched, so the append happens last.
func AppendTurns(ctx context.Context, db *bun.DB, chatID string, turns ...models.ChatTurn) error {
	chat, err := LoadChat(ctx, db, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return fmt.Errorf("chat not found: %s", chatID)
	}
	chat.History = append(chat.History, turns...)
	_, err = SaveChat(ctx, db, chat)
	return err
}
