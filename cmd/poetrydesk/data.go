package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"poetrydesk/internal/loader"
	"poetrydesk/internal/service"
	"poetrydesk/internal/watcher"
)

func newImportCmd(a *app) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load poets, critics and poems from a YAML file",
		Long: `Load poets, critics and poems from a YAML file:

  poets:   [{phone: "+12345678901", first_name: Ivan, last_name: Petrov, date_of_birth: 1990-01-01}]
  critics: [...]
  poems:   [{poet: "+12345678901", critic: "+19876543210", text: "..."}]

People are imported before poems. Records that fail validation or
uniqueness checks are reported and skipped. With --watch the file is
imported again every time it changes, until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svcs, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := importFile(cmd.Context(), svcs, args[0], out); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			w := watcher.New(args[0], a.logger, func(ctx context.Context) {
				if err := importFile(ctx, svcs, args[0], out); err != nil {
					a.logger.Warn("Import failed", zap.String("file", args[0]), zap.Error(err))
				}
			})
			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Import again whenever the file changes")
	return cmd
}

// importFile imports one dataset file and prints the outcome
func importFile(ctx context.Context, svcs *service.Services, path string, out io.Writer) error {
	ds, err := loader.LoadYAML(path)
	if err != nil {
		return err
	}
	result, err := svcs.Importer.Import(ctx, ds)
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		fmt.Fprintf(out, "  %s[%d] %s: %s\n", f.Section, f.Index, f.Key, f.Error)
	}
	fmt.Fprintln(out, result.Summary())
	return nil
}

func newDatabasesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List databases in the storage directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.provisioner.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintf(out, "No databases in %s\n", a.provisioner.Dir())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
