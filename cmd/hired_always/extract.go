package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/jobinfo"
	"github.com/jonathan/hired-always/internal/tracker"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		src   pageSource
		track bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract job metadata (position, company, location, salary, type) from a page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			snap, err := src.load(ctx, a)
			if err != nil {
				return err
			}
			info := jobinfo.New(nil, a.logger).Extract(ctx, snap.Doc, snap.URL)
			if p := a.printer(cmd); p != nil {
				p.PrintJobInfo(snap.URL, info)
			}
			if !track {
				return writeJSON(cmd.OutOrStdout(), info)
			}

			t, err := a.openTracker(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = t.Close() }()
			tracked, err := t.Add(ctx, tracker.FromJobInfo(info, snap.URL))
			if err != nil {
				return fmt.Errorf("failed to track application: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), tracked)
		},
	}
	src.register(cmd)
	cmd.Flags().BoolVar(&track, "track", false, "Add the extracted job to the application tracker")
	return cmd
}
