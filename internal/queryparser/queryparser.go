// Package queryparser pulls structured fields out of free-text questions.
// The keyword tables are ordered priority lists: the first match wins, so
// their order is load-bearing and must not be rearranged.
package queryparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"document-qa/internal/models"
)

var (
	ageRe         = regexp.MustCompile(`(\d{1,3})\s*[yY]?\s*[Mm]?`)
	maleRe        = regexp.MustCompile(`(?i)\b(male|M|man|men)\b`)
	femaleRe      = regexp.MustCompile(`(?i)\b(female|F|woman|women)\b`)
	durationNumRe = `(\d+)\s*[-\s]*`
)

// subjectKeywords maps question keywords to canonical subject labels
// across the supported domains. Checked in order; first hit wins.
var subjectKeywords = []struct{ keyword, label string }{
	// medical
	{"knee", "knee surgery"},
	{"cataract", "cataract surgery"},
	{"heart", "cardiac procedure"},
	{"dental", "dental treatment"},
	{"surgery", "surgical procedure"},
	// legal / contract
	{"termination", "contract termination"},
	{"breach", "contract breach"},
	{"renewal", "contract renewal"},
	// hr / employment
	{"leave", "leave application"},
	{"overtime", "overtime work"},
	{"promotion", "promotion request"},
	// general
	{"equipment", "equipment"},
	{"service", "service"},
	{"repair", "repair"},
	{"maintenance", "maintenance"},
}

var locations = []string{
	"pune", "mumbai", "delhi", "bangalore", "chennai", "hyderabad", "kolkata",
	"ahmedabad", "jaipur", "lucknow", "kanpur", "nagpur", "indore", "bhopal",
}

// durationUnits is tried in order; months deliberately outrank years.
var durationUnits = []struct {
	re   *regexp.Regexp
	unit string
}{
	{regexp.MustCompile(`(?i)` + durationNumRe + `month`), "months"},
	{regexp.MustCompile(`(?i)` + durationNumRe + `year`), "years"},
	{regexp.MustCompile(`(?i)` + durationNumRe + `day`), "days"},
	{regexp.MustCompile(`(?i)` + durationNumRe + `week`), "weeks"},
}

var categories = []struct {
	name     string
	keywords []string
}{
	{"insurance", []string{"insurance", "policy", "claim", "coverage", "premium"}},
	{"legal", []string{"contract", "agreement", "legal", "clause", "terms"}},
	{"hr", []string{"employee", "hr", "leave", "salary", "promotion", "performance"}},
	{"medical", []string{"medical", "health", "treatment", "surgery", "doctor", "hospital"}},
	{"financial", []string{"loan", "credit", "payment", "finance", "bank", "interest"}},
}

// Parse extracts structured fields from a question. It never fails:
// fields a question does not mention stay at their zero values.
func Parse(query string) models.ParsedQuery {
	parsed := models.ParsedQuery{OriginalQuery: query}
	lower := strings.ToLower(query)

	if m := ageRe.FindStringSubmatch(query); m != nil {
		if age, err := strconv.Atoi(m[1]); err == nil {
			parsed.Age = age
		}
	}

	if maleRe.MatchString(query) {
		parsed.Gender = "male"
	} else if femaleRe.MatchString(query) {
		parsed.Gender = "female"
	}

	for _, sk := range subjectKeywords {
		if strings.Contains(lower, sk.keyword) {
			parsed.ProcedureOrItem = sk.label
			break
		}
	}

	for _, loc := range locations {
		if strings.Contains(lower, loc) {
			parsed.Location = cases.Title(language.English).String(loc)
			break
		}
	}

	for _, du := range durationUnits {
		if m := du.re.FindStringSubmatch(query); m != nil {
			parsed.DurationOrPeriod = fmt.Sprintf("%s %s", m[1], du.unit)
			break
		}
	}

	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				parsed.Category = cat.name
				break
			}
		}
		if parsed.Category != "" {
			break
		}
	}

	return parsed
}
