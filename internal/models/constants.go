package models

const (
	// ScannedTextThreshold is the stripped per-page character count above
	// which a page counts as having native selectable text.
	ScannedTextThreshold = 50

	// ContextSeparator joins retrieved record contents into one context block.
	ContextSeparator = "\n\n"

	// OCRFailedPlaceholder fills section content when a scanned document's
	// remote transcription omitted it.
	OCRFailedPlaceholder = "[OCR failed]"

	// ChatTitleMaxLen bounds the chat title derived from the first user turn.
	ChatTitleMaxLen = 30
)

var (
	// StructureSchemaSelectable is the JSON shape requested from the model
	// for documents with native text; section content is extracted locally.
	StructureSchemaSelectable = `{
  "toc": [ { "title": "string", "page_number": "integer" } ],
  "section_definitions": [ { "title": "string", "page_start": "integer", "page_end": "integer" } ],
  "tables": [ { "caption": "string", "cells": [["string"]], "page": "integer" } ],
  "media": [ { "description": "string", "page": "integer" } ]
}`

	// StructureSchemaScanned additionally requests full OCR text per section.
	StructureSchemaScanned = `{
  "toc": [ { "title": "string", "page_number": "integer" } ],
  "section_definitions": [ { "title": "string", "page_start": "integer", "page_end": "integer", "content": "string (full OCR text)" } ],
  "tables": [ { "caption": "string", "cells": [["string"]], "page": "integer" } ],
  "media": [ { "description": "string", "page": "integer" } ]
}`

	// StructurePromptTemplate drives the structure-inference call.
	// Placeholders: document classification, schema, content rule.
	StructurePromptTemplate = `Analyze this PDF. It is %s.
Provide a structured JSON output with this precisely: %s

Rules:
- Extract the official Table of Contents (TOC).
- Define logical section boundaries (e.g., Chapter 1: pages 1-5). DO NOT cut across chapters.
- Preserve document layout and hierarchy in your structural analysis.
- Extract all tables accurately as 2-dimensional arrays (rows/cells).
- Provide brief, searchable descriptions for all images, graphs, and charts.
%s
Return ONLY raw JSON.`

	// AnswerPromptTemplate grounds the model to the retrieved context and
	// requests the three-field structured answer.
	AnswerPromptTemplate = `You are a helpful document assistant. Use the following context to answer the question.
If the context doesn't contain the answer, say "I don't know based on the provided text."

Context:
%s

Question: %s

Respond with ONLY a JSON object of this exact shape:
{"answer": "direct answer to the question", "context_used": "snippet of the context that specifically supports the answer", "reasoning": "logic used to arrive at the answer"}`
)
