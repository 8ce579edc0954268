package models

// Record types stored in a semantic partition.
const (
	RecordTypeSection = "section"
	RecordTypeMedia   = "media"
)

// SemanticRecord is one embeddable unit derived from a parsed document,
// either a section (full section text) or a media item (its description).
// Records are immutable once written to a partition.
type SemanticRecord struct {
	ID        string
	Source    string
	Type      string
	Title     string
	PageRef   string
	Content   string
	Embedding []float32
}

// Answer is the structured result of a grounded query: a direct answer,
// the context snippet supporting it, and the inferential path between them.
type Answer struct {
	Answer    string `json:"answer"`
	Excerpt   string `json:"context_used"`
	Reasoning string `json:"reasoning"`
}

// ChatTurn is one message in a chat session's history.
type ChatTurn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
	Context   string `json:"context,omitempty"`
}

// Chat history roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
