// Package answer turns retrieved chunks into a natural-language answer,
// preferring the external completion service and falling back to a
// deterministic rule engine when it is unavailable or comes up empty.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// RefusalAnswer is what the generative path must say when the context
// does not contain the answer. Seeing it triggers the rule engine.
const RefusalAnswer = "I couldn't find relevant information in the provided document excerpts."

const systemPrompt = `You are a document assistant.
Your task is to answer user queries based ONLY on the provided document chunks.
Respond clearly in natural language and cite the page number if relevant.
Do NOT use any external knowledge.
If the answer isn't present in the document, reply:
"` + RefusalAnswer + `"`

// Synthesizer owns the configured completion client. The API key lives in
// the client config, not in process-global state.
type Synthesizer struct {
	client *CompletionClient
}

func NewSynthesizer(client *CompletionClient) *Synthesizer {
	return &Synthesizer{client: client}
}

// Answer produces the final answer text for one question. Completion
// failures of any kind are absorbed by the rule-based fallback, so this
// never fails.
func (s *Synthesizer) Answer(ctx context.Context, question string, parsed models.ParsedQuery, results []models.SearchResult) string {
	generated, err := s.generative(ctx, question, results)
	if err == nil && generated != RefusalAnswer {
		return generated
	}
	if err != nil && !errors.Is(err, ErrNoAPIKey) && !errors.Is(err, errNoContext) {
		log.Warn().Err(err).Msg("Completion service unavailable, using rule-based fallback")
	}
	decision := RuleDecision(results)
	return decision.Justification
}

var errNoContext = errors.New("no retrieved chunks to build context from")

func (s *Synthesizer) generative(ctx context.Context, question string, results []models.SearchResult) (string, error) {
	if len(results) == 0 {
		return "", errNoContext
	}

	var contextBlock strings.Builder
	for i, chunk := range results {
		fmt.Fprintf(&contextBlock, "[Document Chunk %d - Page %d]:\n%s\n\n", i+1, chunk.Page, chunk.Text)
	}

	userPrompt := fmt.Sprintf(`You are given the following document excerpts:

%s

Based only on the above information, answer the following question:

%q

Please provide a clear, concise answer as found in the document. Reference the page number if helpful.`, contextBlock.String(), question)

	return s.client.Complete(ctx, systemPrompt, userPrompt)
}
