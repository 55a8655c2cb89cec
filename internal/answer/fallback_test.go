package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-qa/internal/models"
)

func result(text string, page int) models.SearchResult {
	return models.SearchResult{Text: text, Page: page, Type: models.ChunkParagraph}
}

func TestRuleDecisionNoChunks(t *testing.T) {
	d := RuleDecision(nil)
	assert.Equal(t, models.DecisionUnknown, d.Decision)
	assert.Equal(t, "N/A", d.Amount)
	assert.Equal(t, "No relevant information found in the provided documents.", d.Justification)
}

func TestRuleDecisionRejectedWinsWhenNegativesOutnumber(t *testing.T) {
	// approved: 1 positive; rejected + denied + excluded: 3 negatives
	d := RuleDecision([]models.SearchResult{
		result("The claim was approved earlier but is now rejected, denied and excluded from cover", 4),
	})
	assert.Equal(t, models.DecisionRejected, d.Decision)
	assert.Equal(t, "N/A", d.Amount)
	assert.Contains(t, d.Justification, "Negative indicators found in document (Page 4)")
}

func TestRuleDecisionApprovedOnEqualCounts(t *testing.T) {
	// one positive ("approved"), one negative ("rejected"): positives win ties
	d := RuleDecision([]models.SearchResult{
		result("previously rejected requests are approved under the new scheme", 2),
	})
	assert.Equal(t, models.DecisionApproved, d.Decision)
}

func TestRuleDecisionApprovedWithAmount(t *testing.T) {
	d := RuleDecision([]models.SearchResult{
		result("Ambulance charges are covered up to a maximum ₹50,000 per claim", 9),
	})
	require.Equal(t, models.DecisionApproved, d.Decision)
	assert.Contains(t, d.Amount, "₹50,000")
	assert.Contains(t, d.Justification, "Page 9")
}

func TestRuleDecisionApprovedWithoutAmount(t *testing.T) {
	d := RuleDecision([]models.SearchResult{
		result("The treatment is covered for the insured person under this plan", 1),
	})
	require.Equal(t, models.DecisionApproved, d.Decision)
	assert.Equal(t, "As per document terms", d.Amount)
}

func TestRuleDecisionConditional(t *testing.T) {
	d := RuleDecision([]models.SearchResult{
		result("Reimbursement is subject to prior authorization by the underwriting team", 5),
	})
	// "authorized" is not present; "subject to" is
	assert.Equal(t, models.DecisionConditional, d.Decision)
	assert.Equal(t, "Subject to conditions", d.Amount)
	assert.Contains(t, d.Justification, "Conditional terms found - requires verification (Page 5)")
}

func TestRuleDecisionUnknown(t *testing.T) {
	d := RuleDecision([]models.SearchResult{
		result("the quick brown fox jumped over the lazy dog twice", 1),
	})
	assert.Equal(t, models.DecisionUnknown, d.Decision)
	assert.Equal(t, "N/A", d.Amount)
	assert.Contains(t, d.Justification, "decision unclear")
}

func TestRuleDecisionInspectsOnlyBestChunk(t *testing.T) {
	d := RuleDecision([]models.SearchResult{
		result("the quick brown fox jumped over the lazy dog", 1),
		result("everything is approved and covered", 2),
	})
	assert.Equal(t, models.DecisionUnknown, d.Decision)
}

func TestJustificationTruncatesTo150Runes(t *testing.T) {
	long := strings.Repeat("₹", 300)
	d := RuleDecision([]models.SearchResult{result("approved "+long, 3)})
	require.Equal(t, models.DecisionApproved, d.Decision)

	prefix := "Positive indicators found in document (Page 3): "
	excerpt := strings.TrimSuffix(strings.TrimPrefix(d.Justification, prefix), "...")
	assert.Equal(t, 150, len([]rune(excerpt)))
}

func TestFindAmountsPatternOrder(t *testing.T) {
	// the rupee pattern is listed before the percentage and duration
	// patterns, so its match comes first
	found := findAmounts("limit of 20% up to ₹5,000 within 30 days")
	require.NotEmpty(t, found)
	assert.Contains(t, found[0], "₹5,000")
}
