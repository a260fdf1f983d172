package estimator

import (
	"math"

	"github.com/leadworks/lsabudget/models"
)

// CostPerLead derives the rounded cost per lead from an extracted budget
// range: average = (min+max)/2, cost = round(average/estimated).
//
// An estimated lead count of zero means the page rendered a degenerate
// result; fail fast rather than divide.
func CostPerLead(minBudget, maxBudget, estimatedLeads int) (int, error) {
	if estimatedLeads <= 0 {
		return 0, models.NewEstimateError(models.ErrCodeExtraction,
			"estimated lead count is zero", nil)
	}
	average := float64(minBudget+maxBudget) / 2
	return int(math.Round(average / float64(estimatedLeads))), nil
}
