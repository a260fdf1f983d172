package models

// BudgetRequest is the payload for POST /calculate-budget.
type BudgetRequest struct {
	// ZipCode is the 5-digit US ZIP code for the service area. Required.
	ZipCode string `json:"zipCode"`

	// Industry is the service-industry label. Must exactly match one of
	// the catalog entries returned by GET /industries. Required.
	Industry string `json:"industry"`

	// LeadsPerMonth is the desired monthly lead volume, 1-10000. Required.
	// A pointer so that an absent field and an explicit zero are
	// distinguishable: zero fails the range check, absence fails the
	// missing-parameters check.
	LeadsPerMonth *int `json:"leadsPerMonth"`
}
