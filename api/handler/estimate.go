package handler

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/leadworks/lsabudget/industry"
	"github.com/leadworks/lsabudget/models"
)

// BudgetService is the estimator pipeline as seen by the HTTP layer.
// Defined here so tests can substitute a fake that records calls.
type BudgetService interface {
	Estimate(ctx context.Context, zipCode, industryLabel string, leadsPerMonth int) (*models.BudgetResponse, error)
}

// User-facing validation messages. Validation is pure and ordered; it never
// touches the browser.
const (
	msgMissingParams   = "Missing required parameters. Please provide zipCode, industry, and leadsPerMonth."
	msgInvalidZip      = "Invalid ZIP code. Please provide a 5-digit US ZIP code."
	msgInvalidIndustry = "Invalid industry. Please select from the provided list of industries."
	msgLeadsRange      = "Leads per month must be between 1 and 10000."

	msgUnsupportedEnv  = "Browser automation is not supported in this environment."
	msgUnsupportedHint = "Deploy the estimator to a host that can run a headless browser to enable budget calculation."

	msgEstimateFailed = "Failed to calculate budget. Please try again later."
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// validateRequest applies the ordered checks and returns the failure
// message, or "" when the request is valid.
func validateRequest(req *models.BudgetRequest) string {
	if req.ZipCode == "" || req.Industry == "" || req.LeadsPerMonth == nil {
		return msgMissingParams
	}
	if !zipPattern.MatchString(req.ZipCode) {
		return msgInvalidZip
	}
	if !industry.Contains(req.Industry) {
		return msgInvalidIndustry
	}
	if *req.LeadsPerMonth < 1 || *req.LeadsPerMonth > 10000 {
		return msgLeadsRange
	}
	return ""
}

// CalculateBudget returns the handler for POST /calculate-budget.
//
// Order matters: validation and the environment gate both short-circuit
// before any browser work, so a rejected request never opens a session.
func CalculateBudget(svc BudgetService, serverless bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BudgetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BudgetResponse{
				Success: false,
				Error:   msgMissingParams,
				Code:    models.ErrCodeInvalidInput,
			})
			return
		}

		if msg := validateRequest(&req); msg != "" {
			c.JSON(http.StatusBadRequest, models.BudgetResponse{
				Success: false,
				Error:   msg,
				Code:    models.ErrCodeInvalidInput,
			})
			return
		}

		if serverless {
			c.JSON(http.StatusNotImplemented, models.BudgetResponse{
				Success: false,
				Error:   msgUnsupportedEnv,
				Code:    models.ErrCodeUnsupported,
				Message: msgUnsupportedHint,
			})
			return
		}

		resp, err := svc.Estimate(c.Request.Context(), req.ZipCode, req.Industry, *req.LeadsPerMonth)
		if err != nil {
			respondFailure(c, &req, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondFailure logs the full failure context and maps every pipeline
// error kind to a 500 with a generic message. The code and details fields
// carry the machine-readable classification and cause string; locator
// internals stay in the logs.
func respondFailure(c *gin.Context, req *models.BudgetRequest, err error) {
	estErr, ok := err.(*models.EstimateError)
	if !ok {
		estErr = models.NewEstimateError(models.ErrCodeInternal, "unexpected pipeline error", err)
	}

	slog.Error("budget calculation failed",
		"zip", req.ZipCode,
		"industry", req.Industry,
		"leads", *req.LeadsPerMonth,
		"code", estErr.Code,
		"error", estErr,
	)

	c.JSON(http.StatusInternalServerError, models.BudgetResponse{
		Success: false,
		Error:   msgEstimateFailed,
		Code:    estErr.Code,
		Details: estErr.Cause(),
	})
}
