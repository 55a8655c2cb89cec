package queryparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFullQuery(t *testing.T) {
	parsed := Parse("45Y male, knee surgery in Pune, 3-month policy")

	assert.Equal(t, 45, parsed.Age)
	assert.Equal(t, "male", parsed.Gender)
	assert.Equal(t, "knee surgery", parsed.ProcedureOrItem)
	assert.Equal(t, "Pune", parsed.Location)
	assert.Equal(t, "3 months", parsed.DurationOrPeriod)
	assert.Equal(t, "insurance", parsed.Category)
	assert.Equal(t, "45Y male, knee surgery in Pune, 3-month policy", parsed.OriginalQuery)
}

func TestParseAbsentFields(t *testing.T) {
	parsed := Parse("What does the document say about notice periods?")

	assert.Zero(t, parsed.Age)
	assert.Empty(t, parsed.Gender)
	assert.Empty(t, parsed.ProcedureOrItem)
	assert.Empty(t, parsed.Location)
	assert.Empty(t, parsed.DurationOrPeriod)
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"60 year old woman with cataract", "female"},
		{"claim for a man in Delhi", "male"},
		{"female employee requesting leave", "female"},
		{"generic question about coverage", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Parse(tt.query).Gender, tt.query)
	}
}

func TestParseSubjectPriorityOrder(t *testing.T) {
	// "knee" is listed before "surgery", so it wins even though both match
	parsed := Parse("knee surgery waiting period")
	assert.Equal(t, "knee surgery", parsed.ProcedureOrItem)

	parsed = Parse("general surgery waiting period")
	assert.Equal(t, "surgical procedure", parsed.ProcedureOrItem)
}

func TestParseDurationUnitOrder(t *testing.T) {
	// months are tried before years
	parsed := Parse("policy spanning 2 years and 6 months")
	assert.Equal(t, "6 months", parsed.DurationOrPeriod)

	parsed = Parse("valid for 2 years")
	assert.Equal(t, "2 years", parsed.DurationOrPeriod)

	parsed = Parse("waiting 30 days after enrollment")
	assert.Equal(t, "30 days", parsed.DurationOrPeriod)
}

func TestParseCategoryPriorityOrder(t *testing.T) {
	// "policy" hits insurance before "agreement" can hit legal
	parsed := Parse("policy agreement for employees")
	assert.Equal(t, "insurance", parsed.Category)

	parsed = Parse("employment agreement clause")
	assert.Equal(t, "legal", parsed.Category)

	parsed = Parse("bank loan interest rate")
	assert.Equal(t, "financial", parsed.Category)
}

func TestParseLocationTitleCased(t *testing.T) {
	parsed := Parse("treatment in mumbai hospital")
	assert.Equal(t, "Mumbai", parsed.Location)
}
