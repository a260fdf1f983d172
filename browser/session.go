package browser

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

// Session is an isolated browsing context (cookies, cache, identity) holding
// one page. Each request owns exactly one session for its duration and must
// close it on every exit path.
type Session struct {
	page      *rod.Page
	contextID proto.BrowserBrowserContextID
	browser   *rod.Browser
	mgr       *Manager

	closeOnce sync.Once
}

// NewSession opens an incognito context with a fixed realistic user-agent
// and a single page. Safe to call concurrently; sessions never share state.
//
// The returned session is deliberately NOT bound to ctx: callers bind their
// own deadline per operation (page.Context), and cleanup must still succeed
// after that deadline has expired.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := m.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	incognito, err := b.Incognito()
	if err != nil {
		return nil, err
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		// The context was created but the page wasn't; dispose it now so
		// it doesn't outlive the failed request.
		disposeContext(incognito)
		return nil, err
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      m.cfg.UserAgent,
		AcceptLanguage: "en-US,en;q=0.9",
	}); err != nil {
		slog.Warn("user-agent override failed", "error", err)
	}

	if m.cfg.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", err)
		}
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{
			"Accept-Language": "en-US,en;q=0.9",
		}),
	}.Call(page)

	m.activeSessions.Add(1)
	return &Session{
		page:      page,
		contextID: incognito.BrowserContextID,
		browser:   b,
		mgr:       m,
	}, nil
}

// Page returns the session's single page.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close releases the page and disposes the incognito context. Idempotent;
// cleanup errors are logged and swallowed so they never mask the primary
// error on a failure path.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if err := s.page.Close(); err != nil {
			slog.Warn("session page close failed", "error", err)
		}
		if err := (proto.TargetDisposeBrowserContext{
			BrowserContextID: s.contextID,
		}).Call(s.browser); err != nil {
			slog.Warn("session context dispose failed", "error", err)
		}
		s.mgr.activeSessions.Add(-1)
	})
}

// disposeContext tears down an incognito context that never got a usable
// page. Errors are logged and swallowed.
func disposeContext(incognito *rod.Browser) {
	if err := (proto.TargetDisposeBrowserContext{
		BrowserContextID: incognito.BrowserContextID,
	}).Call(incognito); err != nil {
		slog.Warn("orphaned context dispose failed", "error", err)
	}
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
