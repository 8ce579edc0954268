package models

// TOCEntry is a single table-of-contents line as inferred from the document.
type TOCEntry struct {
	Title      string `json:"title"`
	PageNumber int    `json:"page_number"`
}

// Section is a contiguous page range of the document with its text content.
// Boundaries follow the inferred chapter breaks and are advisory only.
type Section struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	PageStart int    `json:"page_start"`
	PageEnd   int    `json:"page_end"`
}

// Table is an extracted table as a 2D cell matrix.
type Table struct {
	Page    int        `json:"page"`
	Caption string     `json:"caption"`
	Cells   [][]string `json:"cells"`
}

// Media describes a non-text element (image, graph, chart) on a page.
type Media struct {
	Page        int    `json:"page"`
	Description string `json:"description"`
}

// ParsedDocument is the normalized output of parsing one PDF.
type ParsedDocument struct {
	TOC      []TOCEntry `json:"toc"`
	Sections []Section  `json:"sections"`
	Tables   []Table    `json:"tables"`
	Media    []Media    `json:"media"`
	Scanned  bool       `json:"scanned"`
}
