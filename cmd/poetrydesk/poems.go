package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"poetrydesk/internal/domain"
)

func newPoemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poem",
		Short: "Manage poems",
	}

	addCmd := &cobra.Command{
		Use:     "add POET_PHONE CRITIC_PHONE TEXT...",
		Short:   "Submit a poem from a poet to a critic",
		Example: `  poetrydesk --db Verses poem add +12345678901 +19876543210 "Frost and sun"`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			poem := domain.NewPoem(args[0], args[1], strings.Join(args[2:], " "))
			if err := svcs.Poems.Submit(cmd.Context(), poem); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Poem saved at %s %s\n", poem.UploadedDate(), poem.UploadedTime())
			return nil
		},
	}

	var listFilter, listFormat string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List poems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			table, err := svcs.Poems.List(cmd.Context(), listFilter)
			if err != nil {
				return describe(err)
			}
			return render(cmd, table, listFormat)
		},
	}
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Only rows containing this text")
	listCmd.Flags().StringVar(&listFormat, "format", "text", "Output format: text, json, yaml, csv")

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every poem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all poems without --yes")
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.Poems.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All poems deleted")
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all rows")

	cmd.AddCommand(addCmd, listCmd, clearCmd)
	return cmd
}
