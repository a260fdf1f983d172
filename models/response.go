package models

// BudgetResponse is the response for POST /calculate-budget.
type BudgetResponse struct {
	// Success indicates whether the estimate completed without errors.
	Success bool `json:"success"`

	// Budget is the extracted monthly advertising budget range.
	Budget *BudgetRange `json:"budget,omitempty"`

	// Leads relates the requested lead volume to the page's estimate.
	Leads *LeadInfo `json:"leads,omitempty"`

	// Location echoes the requested service area.
	Location *LocationInfo `json:"location,omitempty"`

	// Industry echoes the validated industry label.
	Industry string `json:"industry,omitempty"`

	// Error is the human-readable failure message. Populated only when
	// Success is false.
	Error string `json:"error,omitempty"`

	// Code is the machine-readable error code accompanying Error.
	Code string `json:"code,omitempty"`

	// Message carries additional guidance on 501 responses.
	Message string `json:"message,omitempty"`

	// Details carries the underlying cause string on 500 responses.
	Details string `json:"details,omitempty"`
}

// BudgetRange is the scraped monthly budget window.
type BudgetRange struct {
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Currency  string `json:"currency"`  // always "USD"
	Frequency string `json:"frequency"` // always "monthly"
}

// LeadInfo relates requested lead volume to the estimate.
type LeadInfo struct {
	Requested   int `json:"requested"`
	Estimated   int `json:"estimated"`
	CostPerLead int `json:"costPerLead"`
}

// LocationInfo echoes the requested service area.
type LocationInfo struct {
	ZipCode   string `json:"zipCode"`
	Available bool   `json:"available"`
}

// IndustriesResponse is the response for GET /industries.
type IndustriesResponse struct {
	Industries []string `json:"industries"`
	Total      int      `json:"total"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status      string `json:"status"` // "ok"
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Version     string `json:"version"`

	// ActiveSessions is the number of browser sessions currently open.
	ActiveSessions int `json:"active_sessions"`
}
