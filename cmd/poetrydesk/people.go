package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"poetrydesk/internal/codec"
	"poetrydesk/internal/domain"
)

// newPeopleCmd builds the "poet" or "critic" command tree
func newPeopleCmd(a *app, role domain.Role) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(role),
		Short: "Manage " + role.Table(),
	}

	addCmd := &cobra.Command{
		Use:     "add PHONE FIRST_NAME LAST_NAME DATE_OF_BIRTH",
		Short:   "Add a " + string(role),
		Example: "  poetrydesk --db Verses " + string(role) + " add +12345678901 Ivan Petrov 1990-01-01",
		Args:    cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := personFromArgs(role, args)
			if err != nil {
				return err
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.People(role).Add(cmd.Context(), person); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s saved\n", role.Noun(), person.FullName())
			return nil
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update PHONE FIRST_NAME LAST_NAME DATE_OF_BIRTH",
		Short: "Change the names and date of birth of a " + string(role),
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			person, err := personFromArgs(role, args)
			if err != nil {
				return err
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.People(role).Update(cmd.Context(), person); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s updated\n", role.Noun(), person.FullName())
			return nil
		},
	}

	var getFormat string
	getCmd := &cobra.Command{
		Use:   "get PHONE",
		Short: "Show one " + string(role),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			person, err := svcs.People(role).Get(cmd.Context(), args[0])
			if err != nil {
				return describe(err)
			}
			table := domain.NewTable("phone_number", "first_name", "last_name", "date_of_birth")
			table.Rows = append(table.Rows, []string{
				person.PhoneNumber, person.FirstName, person.LastName, domain.FormatDate(person.DateOfBirth),
			})
			return render(cmd, table, getFormat)
		},
	}
	getCmd.Flags().StringVar(&getFormat, "format", "text", "Output format: text, json, yaml, csv")

	deleteCmd := &cobra.Command{
		Use:   "delete PHONE",
		Short: "Delete a " + string(role),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.People(role).Delete(cmd.Context(), args[0]); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s deleted\n", role.Noun(), args[0])
			return nil
		},
	}

	var listFilter, listFormat string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List " + role.Table(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			table, err := svcs.People(role).List(cmd.Context(), listFilter)
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
		Short: "Delete every " + string(role),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete all %s without --yes", role.Table())
			}
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			if err := svcs.People(role).Clear(cmd.Context()); err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "All %s deleted\n", role.Table())
			return nil
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deleting all rows")

	cmd.AddCommand(addCmd, updateCmd, getCmd, deleteCmd, listCmd, clearCmd)
	return cmd
}

func personFromArgs(role domain.Role, args []string) (*domain.Person, error) {
	dob, err := domain.ParseDate(args[3])
	if err != nil {
		return nil, errors.New("invalid input:\n  date_of_birth: date of birth must be yyyy-MM-dd")
	}
	return domain.NewPerson(role, args[0], args[1], args[2], dob), nil
}

// render writes a table to the command's output in the named format
func render(cmd *cobra.Command, table *domain.Table, format string) error {
	exporter, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	return exporter.Export(table, cmd.OutOrStdout())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
