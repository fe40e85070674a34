package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/hired-always/internal/profile"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect or create the applicant profile",
	}
	cmd.AddCommand(newProfileCheckCmd(a), newProfileInitCmd(a))
	return cmd
}

func newProfileCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the profile and list the answers it provides",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.profiles()
			p, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			values, err := p.Values()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Profile %s is valid (%d answers)\n", store.Path(), len(keys))
			for _, k := range keys {
				_, _ = fmt.Fprintf(out, "  %s: %s\n", k, values[k])
			}
			return nil
		},
	}
}

func newProfileInitCmd(a *app) *cobra.Command {
	var (
		p     profile.Profile
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a new profile file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := a.profiles()
			existing, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if existing.FirstName != "" && !force {
				return fmt.Errorf("profile %s already exists (use --force to overwrite)", store.Path())
			}
			if err := store.Save(cmd.Context(), &p); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", store.Path())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.FirstName, "first-name", "", "First name")
	f.StringVar(&p.LastName, "last-name", "", "Last name")
	f.StringVar(&p.Email, "email", "", "Email address")
	f.StringVar(&p.Phone, "phone", "", "Phone number")
	f.StringVar(&p.LinkedIn, "linkedin", "", "LinkedIn profile URL")
	f.StringVar(&p.City, "city", "", "City")
	f.BoolVar(&p.AutoFillOnLoad, "auto-fill", false, "Fill pages as soon as the server attaches to them")
	f.BoolVar(&force, "force", false, "Overwrite an existing profile")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	return cmd
}
