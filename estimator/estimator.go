// Package estimator drives a headless browser through the third-party
// budget calculator and turns the rendered result into a typed estimate.
package estimator

import (
	"context"
	"log/slog"
	"time"

	"github.com/leadworks/lsabudget/browser"
	"github.com/leadworks/lsabudget/config"
	"github.com/leadworks/lsabudget/models"
)

// Estimator owns the navigate-and-extract pipeline. It is safe for
// concurrent use; each request gets its own isolated browser session.
type Estimator struct {
	sessions *browser.Manager
	cfg      config.EstimatorConfig
}

// New creates an Estimator on top of the shared browser manager.
func New(sessions *browser.Manager, cfg config.EstimatorConfig) *Estimator {
	return &Estimator{sessions: sessions, cfg: cfg}
}

// Estimate runs the full pipeline for already-validated inputs.
//
// Lifecycle:
//
//  1. Deadline guard  – one hard wall-clock budget on the whole operation,
//     tighter than any hosting limit. Individual steps keep their own
//     shorter timeouts; this is the backstop.
//  2. Session         – isolated incognito context + page, closed on every
//     exit path. Cleanup errors never mask the primary error.
//  3. Navigate        – fixed interaction sequence against the calculator.
//  4. Extract         – fallback-chain scrape of the rendered snapshot.
//  5. Cost model      – derived cost per lead.
//
// The deadline is cooperative: a tripped budget stops the pipeline from
// waiting, not necessarily the browser-side action itself.
func (e *Estimator) Estimate(ctx context.Context, zipCode, industryLabel string, leadsPerMonth int) (*models.BudgetResponse, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.GlobalDeadline)
	defer cancel()

	session, err := e.sessions.NewSession(ctx)
	if err != nil {
		return nil, e.categorize(ctx, err, "session setup failed")
	}
	defer session.Close()

	slog.Info("starting budget calculation",
		"zip", zipCode, "industry", industryLabel, "leads", leadsPerMonth)

	snapshot, err := e.navigate(ctx, session.Page(), zipCode, industryLabel, leadsPerMonth)
	if err != nil {
		return nil, err
	}

	extracted, err := extractBudget(snapshot)
	if err != nil {
		return nil, e.categorize(ctx, err, "result extraction failed")
	}

	costPerLead, err := CostPerLead(extracted.MinBudget, extracted.MaxBudget, extracted.EstimatedLeads)
	if err != nil {
		return nil, err
	}

	slog.Info("budget calculation completed",
		"zip", zipCode,
		"industry", industryLabel,
		"min", extracted.MinBudget,
		"max", extracted.MaxBudget,
		"estimated_leads", extracted.EstimatedLeads,
		"cost_per_lead", costPerLead,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &models.BudgetResponse{
		Success: true,
		Budget: &models.BudgetRange{
			Min:       extracted.MinBudget,
			Max:       extracted.MaxBudget,
			Currency:  "USD",
			Frequency: "monthly",
		},
		Leads: &models.LeadInfo{
			Requested:   leadsPerMonth,
			Estimated:   extracted.EstimatedLeads,
			CostPerLead: costPerLead,
		},
		Location: &models.LocationInfo{
			ZipCode:   zipCode,
			Available: true,
		},
		Industry: industryLabel,
	}, nil
}

// categorize promotes an untyped failure to an EstimateError, preferring the
// timeout code when the global deadline has tripped. Already-typed errors
// pass through unless the deadline overrides them.
func (e *Estimator) categorize(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil {
		return models.NewEstimateError(models.ErrCodeTimeout,
			"budget estimate exceeded its time budget", ctx.Err())
	}
	if typed, ok := err.(*models.EstimateError); ok {
		return typed
	}
	return models.NewEstimateError(models.ErrCodeInternal, msg, err)
}
