package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/hired-always/internal/form"
)

var _ form.Page = (*Tab)(nil)

// Tab is one page target. Its methods must not be called concurrently.
type Tab struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	logger  *slog.Logger
}

// run executes actions in the tab, bounded by the tab timeout and by ctx.
func (t *Tab) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the body to be ready.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	t.logger.Debug("browser: navigate", "url", url)
	if err := t.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// Snapshot annotates the page's controls and returns the resulting markup.
func (t *Tab) Snapshot(ctx context.Context) (*form.Snapshot, error) {
	var (
		count int
		html  string
		snap  form.Snapshot
	)
	err := t.run(ctx,
		chromedp.Evaluate(annotateScript, &count),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&snap.URL),
		chromedp.Title(&snap.Title),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	snap.Doc = doc
	t.logger.Debug("browser: snapshot", "url", snap.URL, "controls", count, "bytes", len(html))
	return &snap, nil
}

// SetValue writes value through the control's prototype value setter.
func (t *Tab) SetValue(ctx context.Context, ref, value string) error {
	return t.eval(ctx, ref, call(setValueFunc, ref, value))
}

// Click activates the control with a synthetic click.
func (t *Tab) Click(ctx context.Context, ref string) error {
	return t.eval(ctx, ref, call(clickFunc, ref))
}

// Dispatch fires a bubbling event at the control.
func (t *Tab) Dispatch(ctx context.Context, ref, event string) error {
	return t.eval(ctx, ref, call(dispatchFunc, ref, event))
}

// Eval runs a script in the page and decodes its result into res.
func (t *Tab) Eval(ctx context.Context, script string, res any) error {
	return t.run(ctx, chromedp.Evaluate(script, res))
}

func (t *Tab) eval(ctx context.Context, ref, script string) error {
	var ok bool
	err := t.run(ctx, chromedp.Evaluate(script, &ok))
	if err != nil && strings.Contains(err.Error(), notFound) {
		return fmt.Errorf("%w: %s", form.ErrNoControl, ref)
	}
	return err
}

// Close closes the target.
func (t *Tab) Close() {
	t.cancel()
}
