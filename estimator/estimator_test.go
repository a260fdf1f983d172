package estimator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/leadworks/lsabudget/browser"
	"github.com/leadworks/lsabudget/config"
	"github.com/leadworks/lsabudget/models"
)

func expiredContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestSettle_ExpiredContextAbortsImmediately(t *testing.T) {
	start := time.Now()
	err := settle(expiredContext(t), 10*time.Second)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("settle error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("settle blocked %v against an expired context", elapsed)
	}
}

func TestSettle_DeadlineCutsSleepShort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := settle(ctx, 10*time.Second)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("settle error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("settle slept %v past its context deadline", elapsed)
	}
}

func TestSettle_CompletesUnderLiveContext(t *testing.T) {
	if err := settle(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("settle error = %v, want nil", err)
	}
}

func TestStepFailed_DeadlineOverridesStepError(t *testing.T) {
	e := &Estimator{}

	err := e.stepFailed(expiredContext(t), stepSubmit, errors.New("element not found"))
	var estErr *models.EstimateError
	if !errors.As(err, &estErr) {
		t.Fatalf("expected *models.EstimateError, got %T", err)
	}
	if estErr.Code != models.ErrCodeTimeout {
		t.Errorf("error code = %q, want %q when the deadline has tripped", estErr.Code, models.ErrCodeTimeout)
	}
}

func TestStepFailed_NamesTheStep(t *testing.T) {
	e := &Estimator{}

	err := e.stepFailed(context.Background(), stepPostalCode, errors.New("element not found"))
	var estErr *models.EstimateError
	if !errors.As(err, &estErr) {
		t.Fatalf("expected *models.EstimateError, got %T", err)
	}
	if estErr.Code != models.ErrCodeNavigation {
		t.Errorf("error code = %q, want %q", estErr.Code, models.ErrCodeNavigation)
	}
	if want := `"` + stepPostalCode + `"`; !strings.Contains(estErr.Message, want) {
		t.Errorf("message %q does not name step %s", estErr.Message, stepPostalCode)
	}
}

func TestCategorize_TimeoutWins(t *testing.T) {
	e := &Estimator{}
	ctx := expiredContext(t)

	// The deadline overrides both untyped and already-typed errors.
	for _, err := range []error{
		errors.New("websocket closed"),
		models.NewEstimateError(models.ErrCodeExtraction, "result fields not found", nil),
	} {
		got := e.categorize(ctx, err, "pipeline failed")
		var estErr *models.EstimateError
		if !errors.As(got, &estErr) {
			t.Fatalf("expected *models.EstimateError, got %T", got)
		}
		if estErr.Code != models.ErrCodeTimeout {
			t.Errorf("categorize(%v) code = %q, want %q", err, estErr.Code, models.ErrCodeTimeout)
		}
	}
}

func TestCategorize_LiveContext(t *testing.T) {
	e := &Estimator{}

	typed := models.NewEstimateError(models.ErrCodeExtraction, "result fields not found", nil)
	if got := e.categorize(context.Background(), typed, "pipeline failed"); got != typed {
		t.Errorf("categorize rewrapped an already-typed error: %v", got)
	}

	got := e.categorize(context.Background(), errors.New("websocket closed"), "pipeline failed")
	var estErr *models.EstimateError
	if !errors.As(got, &estErr) {
		t.Fatalf("expected *models.EstimateError, got %T", got)
	}
	if estErr.Code != models.ErrCodeInternal {
		t.Errorf("error code = %q, want %q", estErr.Code, models.ErrCodeInternal)
	}
}

func TestEstimate_ExpiredContextReturnsTimeout(t *testing.T) {
	launched := false
	sessions := browser.NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launched = true
		return rod.New(), nil
	})
	e := New(sessions, config.EstimatorConfig{GlobalDeadline: 50 * time.Second})

	_, err := e.Estimate(expiredContext(t), "90210", "Plumber", 20)
	var estErr *models.EstimateError
	if !errors.As(err, &estErr) {
		t.Fatalf("expected *models.EstimateError, got %T", err)
	}
	if estErr.Code != models.ErrCodeTimeout {
		t.Errorf("error code = %q, want %q", estErr.Code, models.ErrCodeTimeout)
	}
	if launched {
		t.Error("an expired request launched the browser")
	}
}
