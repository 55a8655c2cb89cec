package answer

import (
	"fmt"
	"regexp"
	"strings"

	"document-qa/internal/models"
)

// Indicator terms counted against the best-ranked chunk. Generic across
// document domains, not just insurance.
var (
	positiveIndicators = []string{
		"approved", "eligible", "entitled", "covered", "included", "allowed",
		"permitted", "authorized", "valid", "accepted", "qualified", "yes",
		"benefit", "payable", "reimbursed", "compensated", "supported",
	}
	negativeIndicators = []string{
		"rejected", "denied", "excluded", "not eligible", "not covered",
		"not allowed", "prohibited", "restricted", "invalid", "declined",
		"not applicable", "not payable", "limitation", "exclude", "no",
	}
	conditionalIndicators = []string{
		"subject to", "provided that", "if", "unless", "condition", "requirement",
		"must", "shall", "need to", "dependent on", "based on",
	}
)

// amountPatterns are scanned in order; the first match across the whole
// ordered scan becomes the amount. The currency symbols are locale-bound
// (Indian rupee first) and must be recalibrated for other locales.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)₹\s*[\d,]+`),
	regexp.MustCompile(`(?i)\$\s*[\d,]+`),
	regexp.MustCompile(`(?i)rupees?\s+[\d,]+`),
	regexp.MustCompile(`(?i)rs\.?\s*[\d,]+`),
	regexp.MustCompile(`(?i)usd?\s*[\d,]+`),
	regexp.MustCompile(`(?i)amount.?₹\s[\d,]+`),
	regexp.MustCompile(`(?i)limit.?₹\s[\d,]+`),
	regexp.MustCompile(`(?i)maximum.?₹\s[\d,]+`),
	regexp.MustCompile(`(?i)\d+\s*%`),
	regexp.MustCompile(`(?i)\d+\s*(days?|months?|years?)`),
}

// RuleDecision is the deterministic fallback: it inspects only the single
// best-ranked chunk and decides by counting indicator terms. Precedence:
// rejected when negatives strictly outnumber positives, else approved on
// any positive, else conditional on any conditional cue, else unknown.
func RuleDecision(results []models.SearchResult) models.FallbackDecision {
	if len(results) == 0 {
		return models.FallbackDecision{
			Decision:      models.DecisionUnknown,
			Amount:        "N/A",
			Justification: "No relevant information found in the provided documents.",
		}
	}

	best := results[0]
	chunkText := strings.ToLower(best.Text)

	positives := countIndicators(chunkText, positiveIndicators)
	negatives := countIndicators(chunkText, negativeIndicators)
	conditionals := countIndicators(chunkText, conditionalIndicators)

	switch {
	case negatives > positives && negatives > 0:
		return models.FallbackDecision{
			Decision:      models.DecisionRejected,
			Amount:        "N/A",
			Justification: justification("Negative indicators found in document", best),
		}
	case positives > 0:
		amount := "As per document terms"
		if found := findAmounts(chunkText); len(found) > 0 {
			amount = found[0]
		}
		return models.FallbackDecision{
			Decision:      models.DecisionApproved,
			Amount:        amount,
			Justification: justification("Positive indicators found in document", best),
		}
	case conditionals > 0:
		return models.FallbackDecision{
			Decision:      models.DecisionConditional,
			Amount:        "Subject to conditions",
			Justification: justification("Conditional terms found - requires verification", best),
		}
	default:
		return models.FallbackDecision{
			Decision:      models.DecisionUnknown,
			Amount:        "N/A",
			Justification: justification("Found related information but decision unclear", best),
		}
	}
}

func countIndicators(text string, indicators []string) int {
	count := 0
	for _, indicator := range indicators {
		if strings.Contains(text, indicator) {
			count++
		}
	}
	return count
}

// findAmounts collects every pattern match in pattern-list order.
func findAmounts(text string) []string {
	var found []string
	for _, pattern := range amountPatterns {
		found = append(found, pattern.FindAllString(text, -1)...)
	}
	return found
}

func justification(leadIn string, chunk models.SearchResult) string {
	excerpt := []rune(chunk.Text)
	if len(excerpt) > 150 {
		excerpt = excerpt[:150]
	}
	return fmt.Sprintf("%s (Page %d): %s...", leadIn, chunk.Page, string(excerpt))
}
