package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/autofill"
	"github.com/jonathan/hired-always/internal/fetch"
	"github.com/jonathan/hired-always/internal/form"
)

func newFillCmd(a *app) *cobra.Command {
	var (
		url      string
		htmlPath string
		pageURL  string
		outPath  string
		useAI    bool
	)
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill an application form from your profile",
		Long: `Fill an application form. With --url the page is opened in Chrome (local, or
the one given by --remote) and filled in place. With --html a saved page is
filled offline and the result written to --out.

--ai answers every field with the AI solver instead of the profile synonyms.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if (url == "") == (htmlPath == "") {
				return fmt.Errorf("exactly one of --url or --html must be provided")
			}
			if htmlPath != "" && outPath == "" {
				return fmt.Errorf("--out is required with --html")
			}
			if cmd.Flags().Changed("ai") {
				a.cfg.UseAI = useAI
			}

			filler, release, err := a.newFiller(ctx)
			if err != nil {
				return err
			}
			defer release()
			opts := autofill.Options{UseAI: a.cfg.UseAI}

			if htmlPath != "" {
				snap, err := fetch.File(htmlPath, pageURL)
				if err != nil {
					return err
				}
				page := form.NewDocumentPage(snap.Doc, snap.URL)
				res, err := filler.Fill(ctx, page, opts)
				if err != nil {
					return err
				}
				a.report(cmd, res)
				html, err := page.HTML()
				if err != nil {
					return fmt.Errorf("failed to render page: %w", err)
				}
				if err := os.WriteFile(outPath, []byte(html), 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				return nil
			}

			tab, closeTab, err := a.openTab(ctx)
			if err != nil {
				return err
			}
			defer closeTab()
			if err := tab.Navigate(ctx, url); err != nil {
				return err
			}
			res, err := filler.Fill(ctx, tab, opts)
			if err != nil {
				return err
			}
			a.report(cmd, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Application page to open and fill")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Saved application page to fill offline")
	cmd.Flags().StringVar(&pageURL, "page-url", "", "Address the saved page came from")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Where to write the filled page (with --html)")
	cmd.Flags().BoolVar(&useAI, "ai", false, "Answer fields with the AI solver")
	return cmd
}

// report prints the fill log trail, and the summary box when verbose.
func (a *app) report(cmd *cobra.Command, res *autofill.Result) {
	printLogs(cmd, res)
	if p := a.printer(cmd); p != nil {
		p.PrintFillResult(res)
	}
}

func printLogs(cmd *cobra.Command, res *autofill.Result) {
	for _, line := range res.Logs {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}
