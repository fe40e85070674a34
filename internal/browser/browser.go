// Package browser drives a Chrome instance over the DevTools protocol. A Tab
// annotates and snapshots the live page for the collector and performs writes
// through the controls' native value setters.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeout bounds a single browser round trip.
const DefaultTimeout = 30 * time.Second

// Options configures how Chrome is reached.
type Options struct {
	// RemoteURL is a DevTools websocket URL of an already running Chrome. When
	// empty a local Chrome is started.
	RemoteURL string
	Headless  bool
	Timeout   time.Duration
}

// Browser owns a Chrome connection. Tabs opened from it share the connection.
type Browser struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger
}

// New connects to Chrome, starting a local instance unless opts.RemoteURL is set.
func New(ctx context.Context, opts Options, logger *slog.Logger) (*Browser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		logger.Info("browser: attaching to remote chrome", "url", opts.RemoteURL)
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		logger.Info("browser: starting chrome", "headless", opts.Headless)
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx,
			append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", opts.Headless),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
			)...,
		)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return &Browser{ctx: browserCtx, cancel: cancel, timeout: opts.Timeout, logger: logger}, nil
}

// NewTab opens a new target in the browser.
func (b *Browser) NewTab() (*Tab, error) {
	ctx, cancel := chromedp.NewContext(b.ctx)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &Tab{ctx: ctx, cancel: cancel, timeout: b.timeout, logger: b.logger}, nil
}

// Close shuts the browser down, or detaches from a remote one.
func (b *Browser) Close() {
	b.cancel()
}
