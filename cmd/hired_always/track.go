package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/tracker"
)

var timeNow = time.Now

func newTrackCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Manage the application tracker",
	}
	cmd.AddCommand(
		newTrackAddCmd(a),
		newTrackListCmd(a),
		newTrackStatusCmd(a),
		newTrackDeleteCmd(a),
		newTrackImportCmd(a),
		newTrackExportCmd(a),
	)
	return cmd
}

// withTracker opens the tracker for the duration of fn.
func (a *app) withTracker(ctx context.Context, fn func(*tracker.Tracker) error) error {
	t, err := a.openTracker(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Close() }()
	return fn(t)
}

func newTrackAddCmd(a *app) *cobra.Command {
	var (
		in     tracker.Input
		status string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a submitted application",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				st, err := tracker.ParseStatus(status)
				if err != nil {
					return err
				}
				in.Status = st
			}
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				added, err := t.Add(cmd.Context(), in)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), added)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Company, "company", "", "Company name")
	f.StringVar(&in.Position, "position", "", "Position title")
	f.StringVar(&in.Location, "location", "", "Job location")
	f.StringVar(&in.Salary, "salary", "", "Advertised salary")
	f.StringVar(&in.JobType, "job-type", "", "Employment type")
	f.StringVar(&in.JobURL, "job-url", "", "Posting URL")
	f.StringVar(&status, "status", "", "Initial status (default Applied)")
	f.StringVar(&in.ApplicationDate, "date", "", "Application date, YYYY-MM-DD (default today)")
	f.StringVar(&in.ContactName, "contact", "", "Recruiter or contact name")
	f.StringVar(&in.ContactEmail, "contact-email", "", "Contact email")
	f.StringVar(&in.Notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("company")
	_ = cmd.MarkFlagRequired("position")
	return cmd
}

func newTrackListCmd(a *app) *cobra.Command {
	var (
		filter tracker.Filter
		status string
		sort   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked applications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter.Status = tracker.Status(status)
			filter.Sort = tracker.SortOrder(sort)
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				apps, err := t.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if asJSON {
					if apps == nil {
						apps = []tracker.Application{}
					}
					return writeJSON(cmd.OutOrStdout(), apps)
				}
				stats, err := t.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if p := a.printer(cmd); p != nil {
					p.PrintStats(stats)
				}
				return printApplications(cmd.OutOrStdout(), apps, stats)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "Only show applications with this status")
	f.StringVar(&filter.Search, "search", "", "Only show applications whose company or position contains this")
	f.StringVar(&sort, "sort", "", "Sort order: date-desc, date-asc, company or status")
	f.BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printApplications(w io.Writer, apps []tracker.Application, stats tracker.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCOMPANY\tPOSITION\tSTATUS\tAPPLIED\tDAYS")
	for _, e := range apps {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.Company, e.Position, e.Status, e.ApplicationDate, e.DaysSince(timeNow()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d total, %d active, %d interviewing, %d offers\n",
		stats.Total, stats.Active, stats.Interviews, stats.Offers)
	return err
}

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid application id %q: %w", arg, err)
	}
	return id, nil
}

func newTrackStatusCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an application to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := tracker.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				updated, err := t.SetStatus(cmd.Context(), id, st, note)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), updated)
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Note recorded on the timeline")
	return cmd
}

func newTrackDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Remove an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				if err := t.Delete(cmd.Context(), id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
				return nil
			})
		},
	}
}

func newTrackImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Add every application from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				added, err := t.Import(cmd.Context(), data)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d applications\n", len(added))
				return nil
			})
		},
	}
}

func newTrackExportCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every application as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withTracker(cmd.Context(), func(t *tracker.Tracker) error {
				data, err := t.Export(cmd.Context())
				if err != nil {
					return err
				}
				if outPath == "" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				if err := os.WriteFile(outPath, data, 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}
