package browser

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/leadworks/lsabudget/config"
	"github.com/leadworks/lsabudget/models"
)

func TestAcquire_SingleFlightLaunch(t *testing.T) {
	var launches atomic.Int32
	release := make(chan struct{})

	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launches.Add(1)
		<-release // hold the launch open so callers pile up
		return rod.New(), nil
	})

	const callers = 8
	var wg sync.WaitGroup
	handles := make([]*rod.Browser, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i], errs[i] = m.Acquire(context.Background())
		}(i)
	}

	// Let every caller reach the in-flight launch before it resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := launches.Load(); got != 1 {
		t.Errorf("launch count = %d, want exactly 1", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: unexpected error: %v", i, errs[i])
		}
		if handles[i] != handles[0] {
			t.Errorf("caller %d received a different browser handle", i)
		}
	}
}

func TestAcquire_DeadlineExpiresDuringLaunch(t *testing.T) {
	var launches atomic.Int32
	release := make(chan struct{})

	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launches.Add(1)
		<-release // a wedged engine launch
		return rod.New(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.Acquire(ctx)
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > time.Second {
		t.Errorf("Acquire returned after %v, should unblock at the 100ms deadline", elapsed)
	}

	// The launch keeps running in the background; once it resolves, the
	// next caller gets the cached handle without a second launch.
	close(release)
	b, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire after launch resolved: %v", err)
	}
	if b == nil {
		t.Fatal("Acquire returned nil browser")
	}
	if got := launches.Load(); got != 1 {
		t.Errorf("launch count = %d, want 1", got)
	}
}

func TestNewSession_ExpiredContext(t *testing.T) {
	var launches atomic.Int32
	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launches.Add(1)
		return rod.New(), nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.NewSession(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("NewSession error = %v, want context.Canceled", err)
	}
	if got := launches.Load(); got != 0 {
		t.Errorf("expired context triggered %d launches, want 0", got)
	}
}

func TestAcquire_FailureClearsCacheForRetry(t *testing.T) {
	var attempts atomic.Int32
	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("chromium exited immediately")
		}
		return rod.New(), nil
	})

	_, err := m.Acquire(context.Background())
	if err == nil {
		t.Fatal("first Acquire should fail")
	}
	var estErr *models.EstimateError
	if !errors.As(err, &estErr) {
		t.Fatalf("expected *models.EstimateError, got %T", err)
	}
	if estErr.Code != models.ErrCodeBrowserLaunch {
		t.Errorf("error code = %q, want %q", estErr.Code, models.ErrCodeBrowserLaunch)
	}

	// The failed launch must not poison the manager.
	b, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("second Acquire should retry and succeed, got: %v", err)
	}
	if b == nil {
		t.Fatal("second Acquire returned nil browser")
	}
	if got := attempts.Load(); got != 2 {
		t.Errorf("launch attempts = %d, want 2", got)
	}
}

func TestAcquire_ReusesLaunchedBrowser(t *testing.T) {
	var launches atomic.Int32
	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launches.Add(1)
		return rod.New(), nil
	})

	first, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if first != second {
		t.Error("subsequent Acquire returned a different handle")
	}
	if got := launches.Load(); got != 1 {
		t.Errorf("launch count = %d, want 1", got)
	}
}

func TestShutdown_WithoutLaunchIsNoop(t *testing.T) {
	var launches atomic.Int32
	m := NewManagerWithLaunch(config.BrowserConfig{}, func() (*rod.Browser, error) {
		launches.Add(1)
		return rod.New(), nil
	})

	m.Shutdown() // must not launch or panic

	if got := launches.Load(); got != 0 {
		t.Errorf("Shutdown triggered %d launches, want 0", got)
	}
}

func TestStats_StartsAtZero(t *testing.T) {
	m := NewManager(config.BrowserConfig{})
	if got := m.Stats(); got != 0 {
		t.Errorf("Stats() = %d, want 0", got)
	}
}
