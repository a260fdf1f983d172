package estimator

import (
	"testing"

	"github.com/leadworks/lsabudget/models"
)

func TestCostPerLead(t *testing.T) {
	tests := []struct {
		name                string
		min, max, estimated int
		want                int
	}{
		{"documented example", 500, 1500, 20, 50}, // avg 1000 / 20
		{"rounds half away from zero", 0, 10, 2, 3}, // avg 5 / 2 = 2.5
		{"rounds down below half", 0, 8, 2, 2},      // avg 4 / 2 = 2
		{"single lead", 100, 300, 1, 200},
		{"large volume", 40000, 60000, 10000, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CostPerLead(tt.min, tt.max, tt.estimated)
			if err != nil {
				t.Fatalf("CostPerLead(%d, %d, %d) error: %v", tt.min, tt.max, tt.estimated, err)
			}
			if got != tt.want {
				t.Errorf("CostPerLead(%d, %d, %d) = %d, want %d",
					tt.min, tt.max, tt.estimated, got, tt.want)
			}
		})
	}
}

func TestCostPerLead_ZeroLeads(t *testing.T) {
	_, err := CostPerLead(500, 1500, 0)
	if err == nil {
		t.Fatal("expected error for zero estimated leads")
	}
	estErr, ok := err.(*models.EstimateError)
	if !ok {
		t.Fatalf("expected *models.EstimateError, got %T", err)
	}
	if estErr.Code != models.ErrCodeExtraction {
		t.Errorf("error code = %q, want %q", estErr.Code, models.ErrCodeExtraction)
	}
}
