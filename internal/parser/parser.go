package parser

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"

	"pdf-retriever/internal/models"
)

// StructureClient issues one structure-inference request against the raw
// document bytes and returns the model's text response.
type StructureClient interface {
	InferStructure(ctx context.Context, prompt string, pdfData []byte) (string, error)
}

// ParseError is a structural-parse failure. Raw carries the remote response
// text when the response could not be decoded, for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse failed: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser turns raw PDF bytes into a normalized document structure using
// local text extraction plus one remote structure-inference call.
type Parser struct {
	llm StructureClient
}

func New(llm StructureClient) *Parser {
	return &Parser{llm: llm}
}

// Parse extracts per-page text locally, classifies the document as scanned
// or selectable, and asks the model for TOC, section boundaries, tables and
// media. Section content comes from local text for selectable documents and
// from the model's transcription for scanned ones.
func (p *Parser) Parse(ctx context.Context, data []byte) (*models.ParsedDocument, error) {
	pages := extractPages(data)
	scanned := classifyScanned(pages)

	prompt := buildStructurePrompt(scanned)
	raw, err := p.llm.InferStructure(ctx, prompt, data)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("structure inference: %w", err)}
	}

	var resp structureResponse
	if err := DecodeLoose(raw, &resp); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}

	return assemble(&resp, pages, scanned), nil
}

// extractPages reads per-page plain text with ledongthuc/pdf. A failing page
// degrades to empty text; a failing reader degrades to no pages. Either way
// extraction continues and the remote call decides what the document holds.
// The pdf library panics on some malformed inputs, so both levels recover.
func extractPages(data []byte) (pages []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn().Interface("panic", r).Msg("Local PDF extraction failed")
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		log.Warn().Err(err).Msg("Local PDF extraction failed")
		return nil
	}

	numPages := reader.NumPage()
	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			log.Warn().Err(err).Int("page", i).Msg("Failed to extract page text")
			continue
		}
		pages[i-1] = text
	}
	return pages
}

func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page extraction panic: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// classifyScanned reports whether no page carries more than
// models.ScannedTextThreshold characters of stripped text. A document with
// no extractable pages at all counts as scanned.
func classifyScanned(pages []string) bool {
	for _, text := range pages {
		if utf8.RuneCountInString(strings.TrimSpace(text)) > models.ScannedTextThreshold {
			return false
		}
	}
	return true
}

func buildStructurePrompt(scanned bool) string {
	classification := "SELECTABLE (native text available)"
	schema := models.StructureSchemaSelectable
	contentRule := `- Do NOT provide "content" for sections; I will use fast local extraction.`
	if scanned {
		classification = "SCANNED (needs full OCR)"
		schema = models.StructureSchemaScanned
		contentRule = `- For "content", perform OCR and provide the full text of the section.`
	}
	return fmt.Sprintf(models.StructurePromptTemplate, classification, schema, contentRule)
}

// structureResponse is the one place the untyped remote JSON becomes typed.
// Defaults for missing page boundaries are filled during assembly so the
// rest of the pipeline never sees raw JSON.
type structureResponse struct {
	TOC      []tocEntry   `json:"toc"`
	Sections []sectionDef `json:"section_definitions"`
	Tables   []tableDef   `json:"tables"`
	Media    []mediaDef   `json:"media"`
}

type tocEntry struct {
	Title      string `json:"title"`
	PageNumber int    `json:"page_number"`
}

type sectionDef struct {
	Title     string `json:"title"`
	PageStart int    `json:"page_start"`
	PageEnd   int    `json:"page_end"`
	Content   string `json:"content"`
}

type tableDef struct {
	Caption string     `json:"caption"`
	Cells   [][]string `json:"cells"`
	Page    int        `json:"page"`
}

type mediaDef struct {
	Description string `json:"description"`
	Page        int    `json:"page"`
}

// assemble builds the ParsedDocument from the typed response, preserving the
// model's section order. Page ranges are not validated for monotonicity or
// overlap, matching the best-effort boundary policy.
func assemble(resp *structureResponse, pages []string, scanned bool) *models.ParsedDocument {
	doc := &models.ParsedDocument{Scanned: scanned}

	for _, entry := range resp.TOC {
		doc.TOC = append(doc.TOC, models.TOCEntry{
			Title:      entry.Title,
			PageNumber: entry.PageNumber,
		})
	}

	for _, def := range resp.Sections {
		start := def.PageStart
		if start == 0 {
			start = 1
		}
		end := def.PageEnd
		if end == 0 {
			end = start
		}

		var content string
		if scanned {
			content = def.Content
			if content == "" {
				content = models.OCRFailedPlaceholder
			}
		} else {
			content = localContent(pages, start, end)
		}

		doc.Sections = append(doc.Sections, models.Section{
			Title:     def.Title,
			Content:   content,
			PageStart: start,
			PageEnd:   end,
		})
	}

	for _, table := range resp.Tables {
		doc.Tables = append(doc.Tables, models.Table{
			Page:    table.Page,
			Caption: table.Caption,
			Cells:   table.Cells,
		})
	}

	for _, item := range resp.Media {
		doc.Media = append(doc.Media, models.Media{
			Page:        item.Page,
			Description: item.Description,
		})
	}

	return doc
}

// localContent concatenates locally extracted page text across [start, end],
// one-based and inclusive, in page order.
func localContent(pages []string, start, end int) string {
	var parts []string
	for pageNum := start; pageNum <= end; pageNum++ {
		if pageNum < 1 || pageNum > len(pages) {
			continue
		}
		parts = append(parts, pages[pageNum-1])
	}
	return strings.Join(parts, "\n")
}
