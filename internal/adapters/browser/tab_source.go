// Package browser captures the message view of a mail tab open in a running Chrome.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"
	"github.com/mikey/phishguard/internal/core"
	"go.uber.org/zap"
)

// ErrTabNotFound is returned when no open tab matches the configured URL fragment
var ErrTabNotFound = errors.New("no matching mail tab is open")

// TabSource snapshots the document of an open mail tab through the DevTools protocol.
// Chrome must run with --remote-debugging-port.
type TabSource struct {
	debugURL     string
	tabMatch     string
	waitSelector string
	timeout      time.Duration
	logger       *zap.Logger
}

// NewTabSource creates a TabSource
func NewTabSource(debugURL, tabMatch, waitSelector string, timeout time.Duration, logger *zap.Logger) *TabSource {
	return &TabSource{
		debugURL:     debugURL,
		tabMatch:     tabMatch,
		waitSelector: waitSelector,
		timeout:      timeout,
		logger:       logger,
	}
}

// Capture returns the HTML of the first tab whose URL contains the match string
func (s *TabSource) Capture(ctx context.Context) (core.Source, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, s.debugURL)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx); err != nil {
		return core.Source{}, fmt.Errorf("failed to connect to browser at %s: %w", s.debugURL, err)
	}

	targets, err := chromedp.Targets(browserCtx)
	if err != nil {
		return core.Source{}, fmt.Errorf("failed to list browser tabs: %w", err)
	}

	tab := PickTab(targets, s.tabMatch)
	if tab == nil {
		return core.Source{}, ErrTabNotFound
	}

	s.logger.Debug("Capturing mail tab",
		zap.String("url", tab.URL),
		zap.String("title", tab.Title))

	tabCtx, cancelTab := chromedp.NewContext(browserCtx, chromedp.WithTargetID(tab.TargetID))
	defer cancelTab()

	var document string
	actions := []chromedp.Action{}
	if s.waitSelector != "" {
		actions = append(actions, chromedp.WaitReady(s.waitSelector, chromedp.ByQuery))
	}
	actions = append(actions, chromedp.OuterHTML("html", &document, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return core.Source{}, fmt.Errorf("failed to capture tab document: %w", err)
	}

	return core.Source{HTML: document}, nil
}

// PickTab returns the first page target whose URL contains match
func PickTab(targets []*target.Info, match string) *target.Info {
	for _, t := range targets {
		if t == nil || t.Type != "page" {
			continue
		}
		if strings.Contains(t.URL, match) {
			return t
		}
	}
	return nil
}
