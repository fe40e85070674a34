package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/fetch"
	"github.com/jonathan/hired-always/internal/form"
)

// pageSource names where a command reads its page from: a saved file or a URL.
type pageSource struct {
	htmlPath string
	pageURL  string
	url      string
	render   bool
}

func (s *pageSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.htmlPath, "html", "", "Path to a saved HTML page")
	cmd.Flags().StringVar(&s.pageURL, "page-url", "", "Address the saved page came from (used with --html)")
	cmd.Flags().StringVar(&s.url, "url", "", "URL to fetch")
	cmd.Flags().BoolVar(&s.render, "browser", false, "Render the URL in headless Chrome before reading it")
	cmd.MarkFlagsMutuallyExclusive("html", "url")
}

func (s *pageSource) load(ctx context.Context, a *app) (*form.Snapshot, error) {
	switch {
	case s.htmlPath != "":
		return fetch.File(s.htmlPath, s.pageURL)
	case s.url != "":
		opts := fetch.DefaultOptions()
		opts.Timeout = a.timeout()
		opts.Render = s.render
		opts.Logger = a.logger
		return fetch.Page(ctx, s.url, opts)
	default:
		return nil, fmt.Errorf("either --html or --url must be provided")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
