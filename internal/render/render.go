package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"pdf-retriever/internal/models"
)

// Outline renders a parsed document as a markdown report: table of
// contents, sections with content, tables as GFM pipe tables, and media
// descriptions.
func Outline(doc *models.ParsedDocument) string {
	var b strings.Builder
	b.WriteString("# Document Outline\n\n")

	if len(doc.TOC) > 0 {
		b.WriteString("## Table of Contents\n\n")
		for _, entry := range doc.TOC {
			fmt.Fprintf(&b, "- %s (p. %d)\n", entry.Title, entry.PageNumber)
		}
		b.WriteString("\n")
	}

	for _, section := range doc.Sections {
		fmt.Fprintf(&b, "## %s (pages %d-%d)\n\n", section.Title, section.PageStart, section.PageEnd)
		if strings.TrimSpace(section.Content) != "" {
			b.WriteString(strings.TrimSpace(section.Content))
			b.WriteString("\n\n")
		}
	}

	if len(doc.Tables) > 0 {
		b.WriteString("## Tables\n\n")
		for _, table := range doc.Tables {
			fmt.Fprintf(&b, "### %s (p. %d)\n\n", table.Caption, table.Page)
			b.WriteString(pipeTable(table.Cells))
			b.WriteString("\n")
		}
	}

	if len(doc.Media) > 0 {
		b.WriteString("## Media\n\n")
		for _, item := range doc.Media {
			fmt.Fprintf(&b, "- p. %d: %s\n", item.Page, item.Description)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML converts the outline to HTML with goldmark's GFM extensions.
func HTML(doc *models.ParsedDocument) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	if err := md.Convert([]byte(Outline(doc)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pipeTable renders a cell matrix as a GFM table, first row as header.
func pipeTable(cells [][]string) string {
	if len(cells) == 0 {
		return ""
	}
	var b strings.Builder
	writeRow := func(row []string) {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" " + strings.ReplaceAll(cell, "|", "\\|") + " |")
		}
		b.WriteString("\n")
	}

	writeRow(cells[0])
	b.WriteString("|")
	for range cells[0] {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range cells[1:] {
		writeRow(row)
	}
	return b.String()
}
