package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/form"
	"github.com/jonathan/hired-always/internal/platform"
)

type fieldsOutput struct {
	URL      string           `json:"url"`
	Platform platform.ID      `json:"platform"`
	Fields   []form.Field     `json:"fields"`
	Frames   []platform.Frame `json:"frames"`
}

func newFieldsCmd(a *app) *cobra.Command {
	var src pageSource
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the fillable fields of a page as JSON",
		Long: `List every fillable control of a page with its label, kind and options, and
any embedded ATS application forms the page links to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := src.load(cmd.Context(), a)
			if err != nil {
				return err
			}
			registry := platform.Default()
			out := fieldsOutput{
				URL:      snap.URL,
				Platform: registry.Identify(snap.URL),
				Fields:   form.NewCollector(a.logger).Collect(snap.Doc),
				Frames:   registry.ApplicationFrames(snap.Doc),
			}
			if p := a.printer(cmd); p != nil {
				p.PrintFields(out.Fields, out.Frames)
			}
			if out.Fields == nil {
				out.Fields = []form.Field{}
			}
			if out.Frames == nil {
				out.Frames = []platform.Frame{}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	src.register(cmd)
	return cmd
}
