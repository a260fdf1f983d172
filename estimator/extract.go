package estimator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/leadworks/lsabudget/models"
)

// ExtractedBudget holds the three numeric fields scraped from the rendered
// result region. Populated only when all three were found; extraction is
// all-or-nothing.
type ExtractedBudget struct {
	MinBudget      int
	MaxBudget      int
	EstimatedLeads int
}

// locatorChain is an ordered list of candidate selectors for one logical
// field, tried in sequence; the first candidate yielding non-empty text
// wins. The alternates cover markup revisions the third party has shipped.
type locatorChain struct {
	field      string
	candidates []cascadia.Selector
}

func newChain(field string, selectors ...string) locatorChain {
	c := locatorChain{field: field}
	for _, s := range selectors {
		c.candidates = append(c.candidates, cascadia.MustCompile(s))
	}
	return c
}

var (
	minBudgetChain = newChain("minimum budget",
		".min", `[data-testid="min-budget"]`, ".lsa-calculator-module__min")
	maxBudgetChain = newChain("maximum budget",
		".max", `[data-testid="max-budget"]`, ".lsa-calculator-module__max")
	leadCountChain = newChain("estimated leads",
		".budget", `[data-testid="estimated-leads"]`, ".lsa-calculator-module__leads")
)

// probe returns the first non-empty trimmed text any candidate yields.
func (c locatorChain) probe(doc *goquery.Document) string {
	for _, sel := range c.candidates {
		if text := strings.TrimSpace(doc.FindMatcher(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// extractBudget scrapes the three result fields out of the rendered HTML
// snapshot. If any field is empty after exhausting its whole fallback
// chain, the extraction fails; partial results are never returned.
func extractBudget(snapshot string) (*ExtractedBudget, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return nil, models.NewEstimateError(models.ErrCodeExtraction,
			"rendered page could not be parsed", err)
	}

	minText := minBudgetChain.probe(doc)
	maxText := maxBudgetChain.probe(doc)
	leadsText := leadCountChain.probe(doc)

	var missing []string
	for _, f := range []struct {
		chain locatorChain
		text  string
	}{
		{minBudgetChain, minText},
		{maxBudgetChain, maxText},
		{leadCountChain, leadsText},
	} {
		if f.text == "" {
			missing = append(missing, f.chain.field)
		}
	}
	if len(missing) > 0 {
		return nil, models.NewEstimateError(models.ErrCodeExtraction,
			"result fields not found: "+strings.Join(missing, ", "), nil)
	}

	minBudget, err := parseCurrency(minText)
	if err != nil {
		return nil, models.NewEstimateError(models.ErrCodeExtraction,
			"minimum budget could not be parsed", err)
	}
	maxBudget, err := parseCurrency(maxText)
	if err != nil {
		return nil, models.NewEstimateError(models.ErrCodeExtraction,
			"maximum budget could not be parsed", err)
	}
	estimatedLeads, err := parseLeadCount(leadsText)
	if err != nil {
		return nil, models.NewEstimateError(models.ErrCodeExtraction,
			"estimated lead count could not be parsed", err)
	}

	return &ExtractedBudget{
		MinBudget:      minBudget,
		MaxBudget:      maxBudget,
		EstimatedLeads: estimatedLeads,
	}, nil
}

var nonDigits = regexp.MustCompile(`[^0-9]`)
var digitRun = regexp.MustCompile(`\d+`)

// parseCurrency strips currency symbols, commas, and any other non-digit
// characters and parses the remainder as an integer ("$1,500" → 1500).
func parseCurrency(text string) (int, error) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, fmt.Errorf("no digits in %q", text)
	}
	return strconv.Atoi(digits)
}

// parseLeadCount takes the first contiguous digit run anywhere in the text,
// tolerating surrounding words ("about 20 leads" → 20).
func parseLeadCount(text string) (int, error) {
	run := digitRun.FindString(text)
	if run == "" {
		return 0, fmt.Errorf("no digit run in %q", text)
	}
	return strconv.Atoi(run)
}
