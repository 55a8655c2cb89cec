package models

// ChunkType classifies where a chunk of document text came from.
type ChunkType string

const (
	ChunkParagraph     ChunkType = "paragraph"
	ChunkTableRow      ChunkType = "table_row"
	ChunkDocxParagraph ChunkType = "docx_paragraph"
	ChunkEmailHeader   ChunkType = "email_header"
	ChunkEmailBody     ChunkType = "email_body"
	ChunkEmailFallback ChunkType = "email_fallback"
	ChunkAttachment    ChunkType = "attachment_text"
)

// Chunk is one retrievable unit of document text. Text is
// whitespace-normalized at extraction time and never mutated afterwards.
type Chunk struct {
	Text string    `json:"text"`
	Page int       `json:"page"`
	Type ChunkType `json:"type"`
}

// IndexEntry is the metadata recorded for one row of the vector index.
// Entries are positionally aligned with the index vectors.
type IndexEntry struct {
	Text string    `json:"text"`
	Page int       `json:"page"`
	Type ChunkType `json:"type"`
}

// SearchResult is a retrieved chunk with its similarity score.
// Score is squared Euclidean distance, so lower means more similar.
type SearchResult struct {
	Text  string    `json:"text"`
	Page  int       `json:"page"`
	Type  ChunkType `json:"type"`
	Score float32   `json:"similarity_score"`
}

// ParsedQuery holds structured fields pulled from a free-text question.
// Zero values mean the field was absent from the question.
type ParsedQuery struct {
	Age              int    `json:"age,omitempty"`
	Gender           string `json:"gender,omitempty"`
	ProcedureOrItem  string `json:"procedure_or_item,omitempty"`
	Location         string `json:"location,omitempty"`
	DurationOrPeriod string `json:"duration_or_period,omitempty"`
	Category         string `json:"category,omitempty"`
	OriginalQuery    string `json:"original_query"`
}

// Decision is the outcome of the rule-based fallback engine.
type Decision string

const (
	DecisionApproved    Decision = "approved"
	DecisionRejected    Decision = "rejected"
	DecisionConditional Decision = "conditional"
	DecisionUnknown     Decision = "unknown"
)

// FallbackDecision is a deterministic answer derived from the best-ranked
// chunk when the completion service is unavailable.
type FallbackDecision struct {
	Decision      Decision `json:"decision"`
	Amount        string   `json:"amount"`
	Justification string   `json:"justification"`
}
