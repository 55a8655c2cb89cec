// Package session runs one document-processing lifecycle: extraction,
// index build, then every question in order. Sessions own their index and
// metadata exclusively; nothing is shared or kept across sessions.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"document-qa/internal/answer"
	"document-qa/internal/config"
	"document-qa/internal/extractor"
	"document-qa/internal/index"
	"document-qa/internal/models"
	"document-qa/internal/queryparser"
)

// ErrEmptyContent means extraction succeeded but produced zero chunks.
var ErrEmptyContent = errors.New("no meaningful content could be extracted from the document")

// Pipeline answers questions about documents. It is cheap to construct
// and holds only configuration; each Process call builds a fresh index.
type Pipeline struct {
	cfg      *config.Config
	embedder index.Embedder
	synth    *answer.Synthesizer
}

func NewPipeline(cfg *config.Config, embedder index.Embedder) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		embedder: embedder,
		synth:    answer.NewSynthesizer(answer.NewCompletionClient(&cfg.Completion)),
	}
}

// Process extracts the document at filePath, builds the session index,
// and answers every question in order. The answers slice always has the
// same length and order as questions: a failure answering one question is
// recorded in its slot and the rest continue. Document-level failures
// (unsupported format, extraction, empty content, index build) abort the
// whole session.
func (p *Pipeline) Process(ctx context.Context, filePath string, questions []string) ([]string, error) {
	sessionID := uuid.NewString()
	logger := log.With().Str("session", sessionID).Logger()

	logger.Info().Str("file", filePath).Int("questions", len(questions)).Msg("Processing document")

	chunks, err := extractor.Extract(filePath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}
	logger.Info().Int("chunks", len(chunks)).Msg("Extracted chunks")

	idx, err := index.Build(ctx, p.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}

	answers := make([]string, 0, len(questions))
	for i, question := range questions {
		a, err := p.answerOne(ctx, idx, question)
		if err != nil {
			logger.Error().Err(err).Int("question", i+1).Msg("Error processing question")
			a = fmt.Sprintf("Error processing question: %v", err)
		} else {
			logger.Info().Int("question", i+1).Msg("Question processed")
		}
		answers = append(answers, a)
	}
	return answers, nil
}

// AnswerDetail is the CLI-facing view of one answered question.
type AnswerDetail struct {
	Parsed  models.ParsedQuery
	Results []models.SearchResult
	Answer  string
}

// ProcessDetailed is Process plus per-question parse and retrieval data,
// for the command-line mode's verbose output.
func (p *Pipeline) ProcessDetailed(ctx context.Context, filePath string, questions []string) ([]AnswerDetail, error) {
	chunks, err := extractor.Extract(filePath)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, ErrEmptyContent
	}

	idx, err := index.Build(ctx, p.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("building search index: %w", err)
	}

	details := make([]AnswerDetail, 0, len(questions))
	for _, question := range questions {
		detail := AnswerDetail{Parsed: queryparser.Parse(question)}
		results, err := p.search(ctx, idx, question)
		if err != nil {
			detail.Answer = fmt.Sprintf("Error processing question: %v", err)
		} else {
			detail.Results = results
			detail.Answer = p.synth.Answer(ctx, question, detail.Parsed, results)
		}
		details = append(details, detail)
	}
	return details, nil
}

func (p *Pipeline) answerOne(ctx context.Context, idx *index.Index, question string) (string, error) {
	parsed := queryparser.Parse(question)
	results, err := p.search(ctx, idx, question)
	if err != nil {
		return "", err
	}
	return p.synth.Answer(ctx, question, parsed, results), nil
}

func (p *Pipeline) search(ctx context.Context, idx *index.Index, question string) ([]models.SearchResult, error) {
	r := p.cfg.Retrieval
	return idx.Search(ctx, question, r.TopK, r.DistanceThreshold, r.MinResults)
}
