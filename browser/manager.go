// Package browser owns the lifecycle of the shared headless browser process
// and hands out isolated per-request sessions.
package browser

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/leadworks/lsabudget/config"
	"github.com/leadworks/lsabudget/models"
)

// LaunchFunc starts a browser process and returns a connected handle.
// Injectable so tests can substitute a fake engine.
type LaunchFunc func() (*rod.Browser, error)

// Manager amortises the cost of launching a browser across requests.
// The browser is launched lazily on first use and reused afterwards; only
// the launch itself is serialised — sessions are opened concurrently.
type Manager struct {
	cfg    config.BrowserConfig
	launch LaunchFunc

	mu       sync.Mutex
	browser  *rod.Browser
	inflight *launchAttempt

	activeSessions atomic.Int32
}

// launchAttempt lets concurrent first callers await the same launch instead
// of racing separate ones. done is closed after browser/err are set.
type launchAttempt struct {
	done    chan struct{}
	browser *rod.Browser
	err     error
}

// NewManager creates a Manager. The browser is not launched until the first
// Acquire call.
func NewManager(cfg config.BrowserConfig) *Manager {
	m := &Manager{cfg: cfg}
	m.launch = m.defaultLaunch
	return m
}

// NewManagerWithLaunch creates a Manager with a custom launch function.
func NewManagerWithLaunch(cfg config.BrowserConfig, launch LaunchFunc) *Manager {
	return &Manager{cfg: cfg, launch: launch}
}

// Acquire returns the shared browser handle, launching it if needed.
// Exactly one launch is ever in flight; a failed launch clears the cached
// state so the next call retries fresh.
//
// The launch runs in the background: a caller whose ctx deadline expires
// first gets ctx.Err() back immediately, and the launch keeps going so the
// next request finds a warm browser instead of a cold one. A wedged engine
// launch therefore never holds a request past its deadline.
func (m *Manager) Acquire(ctx context.Context) (*rod.Browser, error) {
	m.mu.Lock()
	if m.browser != nil {
		b := m.browser
		m.mu.Unlock()
		return b, nil
	}
	attempt := m.inflight
	if attempt == nil {
		attempt = &launchAttempt{done: make(chan struct{})}
		m.inflight = attempt
		go m.runLaunch(attempt)
	}
	m.mu.Unlock()

	select {
	case <-attempt.done:
		if attempt.err != nil {
			return nil, models.NewEstimateError(
				models.ErrCodeBrowserLaunch,
				"browser launch failed",
				attempt.err,
			)
		}
		return attempt.browser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runLaunch performs the launch for an attempt, caches the handle on
// success, and publishes the result to every waiter. It outlives callers
// that gave up on their deadline.
func (m *Manager) runLaunch(attempt *launchAttempt) {
	b, err := m.launch()

	m.mu.Lock()
	if err == nil {
		m.browser = b
	}
	m.inflight = nil
	m.mu.Unlock()

	attempt.browser, attempt.err = b, err
	close(attempt.done)

	if err != nil {
		slog.Error("browser launch failed", "error", err)
		return
	}
	slog.Info("browser launched", "headless", m.cfg.Headless)
}

// defaultLaunch starts a headless Chromium and connects to it.
func (m *Manager) defaultLaunch() (*rod.Browser, error) {
	l := launcher.New().
		Headless(m.cfg.Headless).
		NoSandbox(m.cfg.NoSandbox)

	if m.cfg.BrowserBin != "" {
		l = l.Bin(m.cfg.BrowserBin)
	}

	// Mask the automation fingerprint; the calculator widget degrades for
	// agents it flags as automated.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, err
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, err
	}
	return b, nil
}

// Stats reports the number of currently open sessions.
func (m *Manager) Stats() int {
	return int(m.activeSessions.Load())
}

// Shutdown closes the browser process if one was launched. Failures are
// logged and swallowed; shutdown never propagates an error.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	b := m.browser
	m.browser = nil
	m.mu.Unlock()

	if b == nil {
		return
	}
	slog.Info("shutting down browser")
	if err := b.Close(); err != nil {
		slog.Warn("browser close failed", "error", err)
	}
}
