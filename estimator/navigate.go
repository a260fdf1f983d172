package estimator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/leadworks/lsabudget/models"
)

// Navigation step names, carried into NAVIGATION_FAILED errors so the log
// pinpoints which interaction the page broke.
const (
	stepNavigate    = "navigate"
	stepPostalCode  = "fill_postal_code"
	stepLeadCount   = "fill_lead_count"
	stepIndustry    = "select_industry"
	stepSubmit      = "submit_estimate"
	stepAwaitRender = "await_render"
)

// Locators for the calculator widget. The XPaths are structural and
// versioned by the third party; update them together with the extraction
// fallback chains when the page layout changes.
const (
	zipInputXPath      = `/html/body/main/div/section[4]/div/div[4]/div/div/div[1]/label[1]/input`
	leadsInputXPath    = `/html/body/main/div/section[4]/div/div[4]/div/div/div[1]/label[2]/input`
	industryInputXPath = `//*[@id="industry-myselect"]`

	// The estimate button is located by accessible name rather than a
	// structural path; it has proven the most stable element on the page.
	estimateButtonRegex = `/estimate budget/i`
)

// navigate runs the fixed interaction sequence and returns the rendered
// HTML snapshot of the page once the result region should be populated.
//
// Sequence: load → fill postal code → fill lead count → select industry →
// submit → settle. Every locate-and-wait is bounded by the per-step timeout;
// the caller's ctx carries the global deadline on top.
func (e *Estimator) navigate(ctx context.Context, page *rod.Page, zipCode, industryLabel string, leadsPerMonth int) (string, error) {
	p := page.Context(ctx)

	// ── 1. Load the calculator ──────────────────────────────────────
	np := p.Timeout(e.cfg.NavigationTimeout)
	if err := np.Navigate(e.cfg.CalculatorURL); err != nil {
		return "", e.stepFailed(ctx, stepNavigate, err)
	}
	if err := np.WaitLoad(); err != nil {
		return "", e.stepFailed(ctx, stepNavigate, err)
	}
	// The widget renders client-side with no completion signal; give it a
	// fixed settle window.
	if err := settle(ctx, e.cfg.SettleDelay); err != nil {
		return "", e.stepFailed(ctx, stepNavigate, err)
	}

	// ── 2. Postal code ──────────────────────────────────────────────
	if err := e.fillInput(p, zipInputXPath, zipCode); err != nil {
		return "", e.stepFailed(ctx, stepPostalCode, err)
	}

	// ── 3. Lead count ───────────────────────────────────────────────
	if err := e.fillInput(p, leadsInputXPath, strconv.Itoa(leadsPerMonth)); err != nil {
		return "", e.stepFailed(ctx, stepLeadCount, err)
	}

	// ── 4. Industry autocomplete ────────────────────────────────────
	if err := e.selectIndustry(ctx, p, industryLabel); err != nil {
		return "", e.stepFailed(ctx, stepIndustry, err)
	}

	// ── 5. Submit ───────────────────────────────────────────────────
	if err := e.clickEstimate(p); err != nil {
		return "", e.stepFailed(ctx, stepSubmit, err)
	}

	// ── 6. Await the rendered result ────────────────────────────────
	if err := settle(ctx, e.cfg.SettleDelay); err != nil {
		return "", e.stepFailed(ctx, stepAwaitRender, err)
	}
	html, err := p.HTML()
	if err != nil {
		return "", e.stepFailed(ctx, stepAwaitRender, err)
	}
	return html, nil
}

// fillInput waits for the element at xpath to become visible, fills it, and
// advances focus with Tab so the widget's own validation runs.
func (e *Estimator) fillInput(p *rod.Page, xpath, value string) error {
	sp := p.Timeout(e.cfg.StepTimeout)
	el, err := sp.ElementX(xpath)
	if err != nil {
		return fmt.Errorf("element %s not found: %w", xpath, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s never became visible: %w", xpath, err)
	}
	if err := el.Input(value); err != nil {
		return err
	}
	return el.Type(input.Tab)
}

// selectIndustry opens the autocomplete, types the label, and accepts the
// top suggestion. This assumes the first suggestion exactly matches the
// typed label; if the widget ever matches fuzzily, the accepted industry
// could silently diverge from the request.
func (e *Estimator) selectIndustry(ctx context.Context, p *rod.Page, label string) error {
	sp := p.Timeout(e.cfg.StepTimeout)
	el, err := sp.ElementX(industryInputXPath)
	if err != nil {
		return fmt.Errorf("industry control not found: %w", err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("industry control never became visible: %w", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	if err := settle(ctx, e.cfg.SuggestDelay); err != nil {
		return err
	}
	if err := el.Input(label); err != nil {
		return err
	}
	if err := settle(ctx, e.cfg.SuggestDelay); err != nil {
		return err
	}
	if err := p.Keyboard.Press(input.Enter); err != nil {
		return err
	}
	if err := settle(ctx, e.cfg.SuggestDelay); err != nil {
		return err
	}
	if err := dismissSuggestions(p); err != nil {
		return err
	}
	return settle(ctx, 100*time.Millisecond)
}

// dismissSuggestions clicks the page's top-left corner, away from every
// control, to close the open suggestion overlay. The overlay otherwise
// intercepts the submit click. The widget exposes no capability query for
// open overlays, so this stays an explicit heuristic.
func dismissSuggestions(p *rod.Page) error {
	if err := p.Mouse.MoveTo(proto.NewPoint(0, 0)); err != nil {
		return err
	}
	return p.Mouse.Click(proto.InputMouseButtonLeft, 1)
}

// clickEstimate locates the estimate button by accessible name and clicks it.
func (e *Estimator) clickEstimate(p *rod.Page) error {
	sp := p.Timeout(e.cfg.StepTimeout)
	el, err := sp.ElementR("button", estimateButtonRegex)
	if err != nil {
		return fmt.Errorf("estimate button not found: %w", err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// stepFailed wraps a step failure as NAVIGATION_FAILED carrying the step
// name, unless the global deadline tripped, in which case the timeout code
// wins regardless of which step was in flight.
func (e *Estimator) stepFailed(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil {
		return models.NewEstimateError(models.ErrCodeTimeout,
			"budget estimate exceeded its time budget", ctx.Err())
	}
	return models.NewEstimateError(models.ErrCodeNavigation,
		fmt.Sprintf("navigation step %q failed", step), err)
}

// settle sleeps for d, aborting early if ctx is done. Deadlines are checked
// before every blocking wait, never only at the top of the pipeline.
func settle(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
