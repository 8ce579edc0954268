package main

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/uptrace/bun"

	"pdf-retriever/internal/auth"
	"pdf-retriever/internal/chromemdb"
	"pdf-retriever/internal/config"
	"pdf-retriever/internal/db"
	"pdf-retriever/internal/embedding"
	"pdf-retriever/internal/export"
	"pdf-retriever/internal/helper"
	"pdf-retriever/internal/indexer"
	"pdf-retriever/internal/llmservice"
	"pdf-retriever/internal/models"
	"pdf-retriever/internal/parser"
	"pdf-retriever/internal/rag"
	"pdf-retriever/internal/render"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	register := flag.Bool("register", false, "Register a new user (-user, -pass)")
	username := flag.String("user", "", "Username")
	password := flag.String("pass", "", "Password")
	filePath := flag.String("file", "", "Path to the PDF document to upload")
	query := flag.String("query", "", "Question to ask against a chat session (-chat)")
	chatID := flag.String("chat", "", "Chat session id")
	listChats := flag.Bool("chats", false, "List chat sessions (-user, -pass)")
	deleteID := flag.String("delete", "", "Delete a chat session and its stored data")
	tablesFor := flag.String("tables", "", "Document name to show extracted tables for")
	exportPath := flag.String("export", "", "Write tables to this XLSX path (with -tables)")
	outlineID := flag.String("outline", "", "Print the parsed outline of a chat's document")
	htmlOut := flag.Bool("html", false, "Render the outline as HTML (with -outline)")
	backupDoc := flag.String("backup", "", "Export a document's vector partition")
	restoreDoc := flag.String("restore", "", "Import a document's vector partition from backup")

	flag.Parse()

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing")
	}
	defer a.Close()

	switch {
	case *register:
		a.registerUser(ctx, *username, *password)
	case *filePath != "":
		a.uploadDocument(ctx, *filePath, *username, *password)
	case *query != "":
		a.askQuestion(ctx, *chatID, *query)
	case *listChats:
		a.showChats(ctx, *username, *password)
	case *deleteID != "":
		a.deleteChat(ctx, *deleteID)
	case *tablesFor != "" && *exportPath != "":
		a.exportTables(ctx, *tablesFor, *exportPath)
	case *tablesFor != "":
		a.showTables(ctx, *tablesFor)
	case *outlineID != "":
		a.showOutline(ctx, *outlineID, *htmlOut)
	case *backupDoc != "":
		a.backupPartition(ctx, *backupDoc)
	case *restoreDoc != "":
		a.restorePartition(ctx, *restoreDoc)
	default:
		flag.Usage()
	}
}

// app is the explicit session context passed to every operation: config,
// store handles, and service clients. No ambient state lives in the core.
type app struct {
	cfg      *config.Config
	sqldb    *sql.DB
	bdb      *bun.DB
	vdb      *chromemdb.Manager
	embedder embeddings.Embedder
	llm      *llmservice.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := helper.CreateFolder(cfg.Vector.Path); err != nil {
		return nil, fmt.Errorf("failed to create vector store folder: %w", err)
	}

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	bdb := db.NewDB(sqldb, cfg.Database.Debug)
	if err := db.InitDB(ctx, bdb); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	vdb, err := chromemdb.NewManager(&cfg.Vector)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &app{
		cfg:      cfg,
		sqldb:    sqldb,
		bdb:      bdb,
		vdb:      vdb,
		embedder: embedder,
		llm:      llmservice.NewClient(&cfg.InferenceLLM),
	}, nil
}

func (a *app) Close() {
	if a.bdb != nil {
		a.bdb.Close()
	}
}

func (a *app) registerUser(ctx context.Context, username, password string) {
	if username == "" || password == "" {
		log.Fatal().Msg("Please provide -user and -pass")
	}
	user, err := auth.Register(ctx, a.bdb, username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Error registering user")
	}
	log.Info().Str("username", user.Username).Int64("id", user.ID).Msg("Registered user")
}

func (a *app) mustUser(ctx context.Context, username, password string) *db.User {
	user, err := auth.Verify(ctx, a.bdb, username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Error verifying user")
	}
	if user == nil {
		log.Fatal().Msg("Incorrect username or password")
	}
	return user
}

// uploadDocument parses a PDF, indexes it, and opens a chat session holding
// the parsed snapshot and the original bytes for later restoration.
func (a *app) uploadDocument(ctx context.Context, filePath, username, password string) {
	user := a.mustUser(ctx, username, password)

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading document")
	}
	docName := filepath.Base(filePath)

	p := parser.New(a.llm)
	parsed, err := p.Parse(ctx, data)
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) && parseErr.Raw != "" {
			log.Error().Str("raw", parseErr.Raw).Msg("Unparsable structure response")
		}
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	log.Info().Bool("scanned", parsed.Scanned).Int("sections", len(parsed.Sections)).Msg("Parsed document")

	ix := indexer.New(a.vdb, tableStore{a.bdb}, a.embedder, a.cfg.RAG.MaxEmbedChars)
	result, err := ix.Index(ctx, parsed, docName, user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error indexing document")
	}

	chat := &db.ChatSession{
		UserID:        user.ID,
		FileName:      docName,
		ProcessedData: parsed,
		PDFB64:        base64.StdEncoding.EncodeToString(data),
	}
	chatID, err := db.SaveChat(ctx, a.bdb, chat)
	if err != nil {
		log.Fatal().Err(err).Msg("Error saving chat session")
	}

	log.Info().
		Str("chat", chatID).
		Str("partition", result.Partition).
		Int("records", result.Records).
		Int("tables", result.Tables).
		Msg("Document ready")
	fmt.Println(render.Outline(parsed))
}

// askQuestion runs one grounded query and appends the turn pair to the
// session history. A failed query leaves history unmodified.
func (a *app) askQuestion(ctx context.Context, chatID, query string) {
	if chatID == "" {
		log.Fatal().Msg("Please provide a chat id using the -chat flag")
	}
	chat, err := db.LoadChat(ctx, a.bdb, chatID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading chat")
	}
	if chat == nil {
		log.Fatal().Str("chat", chatID).Msg("Chat session not found")
	}

	engine := rag.NewEngine(a.vdb, a.embedder, a.llm, &a.cfg.RAG)
	answer, err := engine.Answer(ctx, indexer.PartitionName(chat.FileName), query)
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}

	err = db.AppendTurns(ctx, a.bdb, chatID,
		models.ChatTurn{Role: models.RoleUser, Content: query},
		models.ChatTurn{
			Role:      models.RoleAssistant,
			Content:   answer.Answer,
			Reasoning: answer.Reasoning,
			Context:   answer.Excerpt,
		},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error saving history")
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer.Excerpt)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer.Answer)

	log.Info().Msg("Reasoning: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer.Reasoning)
}

func (a *app) showChats(ctx context.Context, username, password string) {
	user := a.mustUser(ctx, username, password)
	chats, err := db.ListChats(ctx, a.bdb, user.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error listing chats")
	}
	for _, chat := range chats {
		fmt.Printf("%s  %s  %s  %s\n", chat.ID, chat.Timestamp.Format(time.RFC3339), chat.FileName, chat.Title)
	}
}

// deleteChat removes the session, its extracted tables, and its semantic
// partition.
func (a *app) deleteChat(ctx context.Context, chatID string) {
	chat, err := db.LoadChat(ctx, a.bdb, chatID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading chat")
	}
	if chat == nil {
		log.Fatal().Str("chat", chatID).Msg("Chat session not found")
	}

	if err := db.DeleteChat(ctx, a.bdb, chatID); err != nil {
		log.Fatal().Err(err).Msg("Error deleting chat")
	}
	if err := db.DeleteTablesForFile(ctx, a.bdb, chat.FileName, chat.UserID); err != nil {
		log.Fatal().Err(err).Msg("Error deleting tables")
	}
	if err := a.vdb.DeletePartition(indexer.PartitionName(chat.FileName)); err != nil {
		log.Warn().Err(err).Msg("Could not delete vector partition")
	}
	log.Info().Str("chat", chatID).Msg("Deleted chat session")
}

func (a *app) showTables(ctx context.Context, docName string) {
	records, err := db.TablesForFile(ctx, a.bdb, docName, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading tables")
	}
	helper.PrettyPrint(records)
}

func (a *app) exportTables(ctx context.Context, docName, outPath string) {
	records, err := db.TablesForFile(ctx, a.bdb, docName, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading tables")
	}
	if err := export.Tables(records, outPath); err != nil {
		log.Fatal().Err(err).Msg("Error exporting tables")
	}
	log.Info().Str("file", outPath).Int("tables", len(records)).Msg("Exported tables")
}

func (a *app) showOutline(ctx context.Context, chatID string, asHTML bool) {
	chat, err := db.LoadChat(ctx, a.bdb, chatID)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading chat")
	}
	if chat == nil || chat.ProcessedData == nil {
		log.Fatal().Str("chat", chatID).Msg("No parsed document for chat")
	}

	if asHTML {
		out, err := render.HTML(chat.ProcessedData)
		if err != nil {
			log.Fatal().Err(err).Msg("Error rendering outline")
		}
		fmt.Println(out)
		return
	}
	fmt.Println(render.Outline(chat.ProcessedData))
}

func (a *app) backupPartition(ctx context.Context, docName string) {
	name := indexer.PartitionName(docName)
	if err := a.vdb.Export(ctx, name); err != nil {
		log.Fatal().Err(err).Msg("Error exporting partition")
	}
	log.Info().Str("partition", name).Msg("Exported partition")
}

func (a *app) restorePartition(ctx context.Context, docName string) {
	name := indexer.PartitionName(docName)
	if err := a.vdb.Import(ctx, name); err != nil {
		log.Fatal().Err(err).Msg("Error importing partition")
	}
	log.Info().Str("partition", name).Msg("Imported partition")
}

// tableStore adapts the db package functions to the indexer's TableStore.
type tableStore struct {
	db *bun.DB
}

func (s tableStore) InsertTables(ctx context.Context, records []db.TableRecord) error {
	return db.InsertTables(ctx, s.db, records)
}
